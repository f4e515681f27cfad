package combat

import (
	"github.com/pixil98/go-arena/internal/arena"
)

// Rand is the uniform source used for spawn placement.
type Rand interface {
	Float64() float64
}

// SpawnArea is the rectangle respawned players are placed in. X and Z are
// drawn independently from [Min, Max); Y is fixed.
type SpawnArea struct {
	Min, Max float64
	Y        float64
}

// DefaultSpawnArea covers the middle of the arena.
var DefaultSpawnArea = SpawnArea{Min: -10, Max: 10, Y: 2}

// Point draws a uniformly random spawn point.
func (a SpawnArea) Point(rng Rand) arena.Vec3 {
	span := a.Max - a.Min
	return arena.Vec3{
		X: a.Min + rng.Float64()*span,
		Y: a.Y,
		Z: a.Min + rng.Float64()*span,
	}
}

// Respawn returns p restored to full health at a random point of area. The
// cap is taken from the current settings so health never exceeds it. The
// kill streak survives. A targetID other than p's leaves p unchanged.
func Respawn(p arena.Player, targetID string, settings arena.Settings, area SpawnArea, rng Rand) arena.Player {
	if p.ID != targetID {
		return p
	}

	p.MaxHealth = settings.MaxHealth
	p.Health = settings.MaxHealth
	p.Alive = true
	p.Position = area.Point(rng)
	return p
}
