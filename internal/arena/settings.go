package arena

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// Settings are the tunable knobs of a session.
type Settings struct {
	MaxHealth     int     `json:"max_health" yaml:"max_health" msgpack:"maxHealth"`
	RockDamage    int     `json:"rock_damage" yaml:"rock_damage" msgpack:"rockDamage"`
	RespawnTimeMs int     `json:"respawn_time_ms" yaml:"respawn_time_ms" msgpack:"respawnTimeMs"`
	MovementSpeed float64 `json:"movement_speed" yaml:"movement_speed" msgpack:"movementSpeed"`
	ThrowForce    float64 `json:"throw_force" yaml:"throw_force" msgpack:"throwForce"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		MaxHealth:     100,
		RockDamage:    25,
		RespawnTimeMs: 3000,
		MovementSpeed: 5,
		ThrowForce:    15,
	}
}

// RespawnDelay is RespawnTimeMs as a duration.
func (s Settings) RespawnDelay() time.Duration {
	return time.Duration(s.RespawnTimeMs) * time.Millisecond
}

func (s Settings) Validate() error {
	el := errors.NewErrorList()

	if s.MaxHealth <= 0 {
		el.Add(fmt.Errorf("max_health must be positive"))
	}
	if s.RockDamage <= 0 {
		el.Add(fmt.Errorf("rock_damage must be positive"))
	}
	if s.RespawnTimeMs <= 0 {
		el.Add(fmt.Errorf("respawn_time_ms must be positive"))
	}
	if s.MovementSpeed <= 0 {
		el.Add(fmt.Errorf("movement_speed must be positive"))
	}
	if s.ThrowForce <= 0 {
		el.Add(fmt.Errorf("throw_force must be positive"))
	}

	return el.Err()
}

// SettingsPatch is a partial Settings update. Nil fields are left untouched.
type SettingsPatch struct {
	MaxHealth     *int     `json:"max_health,omitempty" yaml:"max_health,omitempty" msgpack:"maxHealth,omitempty"`
	RockDamage    *int     `json:"rock_damage,omitempty" yaml:"rock_damage,omitempty" msgpack:"rockDamage,omitempty"`
	RespawnTimeMs *int     `json:"respawn_time_ms,omitempty" yaml:"respawn_time_ms,omitempty" msgpack:"respawnTimeMs,omitempty"`
	MovementSpeed *float64 `json:"movement_speed,omitempty" yaml:"movement_speed,omitempty" msgpack:"movementSpeed,omitempty"`
	ThrowForce    *float64 `json:"throw_force,omitempty" yaml:"throw_force,omitempty" msgpack:"throwForce,omitempty"`
}

// PatchFrom builds a patch that sets every field of s.
func PatchFrom(s Settings) SettingsPatch {
	return SettingsPatch{
		MaxHealth:     &s.MaxHealth,
		RockDamage:    &s.RockDamage,
		RespawnTimeMs: &s.RespawnTimeMs,
		MovementSpeed: &s.MovementSpeed,
		ThrowForce:    &s.ThrowForce,
	}
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.MaxHealth == nil && p.RockDamage == nil && p.RespawnTimeMs == nil &&
		p.MovementSpeed == nil && p.ThrowForce == nil
}

func (p SettingsPatch) Validate() error {
	el := errors.NewErrorList()

	if p.MaxHealth != nil && *p.MaxHealth <= 0 {
		el.Add(fmt.Errorf("max_health must be positive"))
	}
	if p.RockDamage != nil && *p.RockDamage <= 0 {
		el.Add(fmt.Errorf("rock_damage must be positive"))
	}
	if p.RespawnTimeMs != nil && *p.RespawnTimeMs <= 0 {
		el.Add(fmt.Errorf("respawn_time_ms must be positive"))
	}
	if p.MovementSpeed != nil && *p.MovementSpeed <= 0 {
		el.Add(fmt.Errorf("movement_speed must be positive"))
	}
	if p.ThrowForce != nil && *p.ThrowForce <= 0 {
		el.Add(fmt.Errorf("throw_force must be positive"))
	}

	return el.Err()
}

// Merge returns s with every positive field of p applied. Non-positive values
// are dropped so the merged settings stay valid.
func (p SettingsPatch) Merge(s Settings) Settings {
	if p.MaxHealth != nil && *p.MaxHealth > 0 {
		s.MaxHealth = *p.MaxHealth
	}
	if p.RockDamage != nil && *p.RockDamage > 0 {
		s.RockDamage = *p.RockDamage
	}
	if p.RespawnTimeMs != nil && *p.RespawnTimeMs > 0 {
		s.RespawnTimeMs = *p.RespawnTimeMs
	}
	if p.MovementSpeed != nil && *p.MovementSpeed > 0 {
		s.MovementSpeed = *p.MovementSpeed
	}
	if p.ThrowForce != nil && *p.ThrowForce > 0 {
		s.ThrowForce = *p.ThrowForce
	}
	return s
}
