package session

import (
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/combat"
)

// Action is a request to transition the snapshot. The set of actions is closed;
// each one is total and degrades to a no-op when its precondition fails.
type Action interface {
	// apply returns the next snapshot and whether anything changed. It must
	// not modify anything reachable from cur.
	apply(s *Session, cur arena.Snapshot) (arena.Snapshot, bool)
}

// SetMode replaces the game mode. Returning to the menu ends the play
// session: the local player and all projectiles are discarded.
type SetMode struct {
	Mode arena.GameMode
}

func (a SetMode) apply(_ *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if a.Mode == cur.Mode {
		return cur, false
	}
	cur.Mode = a.Mode
	if a.Mode == arena.ModeMenu {
		cur.LocalPlayer = nil
		cur.Projectiles = []arena.Projectile{}
	}
	return cur, true
}

// CreateOrRenamePlayer creates the local player at full health, or renames it
// when one already exists. Callers are responsible for rejecting blank names.
type CreateOrRenamePlayer struct {
	Name string
}

func (a CreateOrRenamePlayer) apply(_ *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if cur.LocalPlayer != nil {
		p := *cur.LocalPlayer
		p.Name = a.Name
		cur.LocalPlayer = &p
		return cur, true
	}

	cur.LocalPlayer = &arena.Player{
		ID:        uuid.New().String(),
		Name:      a.Name,
		Position:  arena.Vec3{Y: 2},
		Health:    cur.Settings.MaxHealth,
		MaxHealth: cur.Settings.MaxHealth,
		Alive:     true,
	}
	return cur, true
}

// UpdatePosition overwrites the local player's position and rotation.
type UpdatePosition struct {
	Position arena.Vec3
	Rotation arena.Vec3
}

func (a UpdatePosition) apply(_ *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if cur.LocalPlayer == nil {
		return cur, false
	}
	p := *cur.LocalPlayer
	p.Position = a.Position
	p.Rotation = a.Rotation
	cur.LocalPlayer = &p
	return cur, true
}

// ThrowProjectile launches a rock owned by the local player carrying the
// current rock damage.
type ThrowProjectile struct {
	Origin   arena.Vec3
	Velocity arena.Vec3
}

func (a ThrowProjectile) apply(s *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if cur.LocalPlayer == nil {
		return cur, false
	}
	proj := combat.SpawnProjectile(a.Origin, a.Velocity, cur.LocalPlayer.ID, cur.Settings.RockDamage, s.clock.Now())

	next := make([]arena.Projectile, 0, len(cur.Projectiles)+1)
	next = append(next, cur.Projectiles...)
	cur.Projectiles = append(next, proj)
	return cur, true
}

// ReplaceProjectiles swaps in a whole new projectile collection.
type ReplaceProjectiles struct {
	Projectiles []arena.Projectile
}

func (a ReplaceProjectiles) apply(_ *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	next := slices.Clone(a.Projectiles)
	if next == nil {
		next = []arena.Projectile{}
	}
	cur.Projectiles = next
	return cur, true
}

// DamagePlayer hurts the local player when it is the target and still alive.
type DamagePlayer struct {
	TargetID   string
	Amount     int
	AttackerID string
}

func (a DamagePlayer) apply(s *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if !cur.IsLocal(a.TargetID) || !cur.LocalPlayer.Alive {
		return cur, false
	}
	p := combat.ApplyDamage(*cur.LocalPlayer, a.TargetID, a.AttackerID, a.Amount, s.clock.Now())
	if p == *cur.LocalPlayer {
		return cur, false
	}
	cur.LocalPlayer = &p
	return cur, true
}

// RespawnPlayer restores the local player when it is the target.
type RespawnPlayer struct {
	TargetID string
}

func (a RespawnPlayer) apply(s *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	if !cur.IsLocal(a.TargetID) {
		return cur, false
	}
	p := combat.Respawn(*cur.LocalPlayer, a.TargetID, cur.Settings, s.spawn, s.rng)
	cur.LocalPlayer = &p
	return cur, true
}

// UpdateSettings shallow-merges a partial settings update. The local
// player's current health and cap are not rescaled.
type UpdateSettings struct {
	Patch arena.SettingsPatch
}

func (a UpdateSettings) apply(_ *Session, cur arena.Snapshot) (arena.Snapshot, bool) {
	merged := a.Patch.Merge(cur.Settings)
	if merged == cur.Settings {
		return cur, false
	}
	cur.Settings = merged
	return cur, true
}
