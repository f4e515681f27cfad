package messaging

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/session"
	"github.com/vmihailenco/msgpack/v5"
)

// Command kinds accepted on the action subject.
const (
	KindSetMode            = "set_mode"
	KindCreatePlayer       = "create_player"
	KindUpdatePosition     = "update_position"
	KindThrow              = "throw"
	KindReplaceProjectiles = "replace_projectiles"
	KindDamage             = "damage"
	KindRespawn            = "respawn"
	KindUpdateSettings     = "update_settings"
)

// Command is the wire form of a session action. Only the fields relevant to
// Kind are read.
type Command struct {
	Kind        string               `msgpack:"kind"`
	Mode        arena.GameMode       `msgpack:"mode,omitempty"`
	Name        string               `msgpack:"name,omitempty"`
	Position    arena.Vec3           `msgpack:"position,omitempty"`
	Rotation    arena.Vec3           `msgpack:"rotation,omitempty"`
	Origin      arena.Vec3           `msgpack:"origin,omitempty"`
	Velocity    arena.Vec3           `msgpack:"velocity,omitempty"`
	Projectiles []arena.Projectile   `msgpack:"projectiles,omitempty"`
	TargetID    string               `msgpack:"targetId,omitempty"`
	AttackerID  string               `msgpack:"attackerId,omitempty"`
	Amount      int                  `msgpack:"amount,omitempty"`
	Settings    *arena.SettingsPatch `msgpack:"settings,omitempty"`
}

// Contact is the wire form of a collision report.
type Contact struct {
	ProjectileID string     `msgpack:"projectileId"`
	Position     arena.Vec3 `msgpack:"position"`
}

// Action converts the command into the session action it names.
func (c Command) Action() (session.Action, error) {
	switch c.Kind {
	case KindSetMode:
		if c.Mode == "" {
			return nil, fmt.Errorf("%s: mode is required", c.Kind)
		}
		return session.SetMode{Mode: c.Mode}, nil
	case KindCreatePlayer:
		return session.CreateOrRenamePlayer{Name: c.Name}, nil
	case KindUpdatePosition:
		return session.UpdatePosition{Position: c.Position, Rotation: c.Rotation}, nil
	case KindThrow:
		return session.ThrowProjectile{Origin: c.Origin, Velocity: c.Velocity}, nil
	case KindReplaceProjectiles:
		return session.ReplaceProjectiles{Projectiles: c.Projectiles}, nil
	case KindDamage:
		if c.TargetID == "" {
			return nil, fmt.Errorf("%s: targetId is required", c.Kind)
		}
		return session.DamagePlayer{TargetID: c.TargetID, Amount: c.Amount, AttackerID: c.AttackerID}, nil
	case KindRespawn:
		if c.TargetID == "" {
			return nil, fmt.Errorf("%s: targetId is required", c.Kind)
		}
		return session.RespawnPlayer{TargetID: c.TargetID}, nil
	case KindUpdateSettings:
		if c.Settings == nil {
			return nil, fmt.Errorf("%s: settings are required", c.Kind)
		}
		return session.UpdateSettings{Patch: *c.Settings}, nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", c.Kind)
	}
}

// DecodeCommand unpacks a msgpack command and converts it to an action.
func DecodeCommand(data []byte) (session.Action, error) {
	var c Command
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding command: %w", err)
	}
	return c.Action()
}

func DecodeContact(data []byte) (Contact, error) {
	var c Contact
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return Contact{}, fmt.Errorf("decoding contact: %w", err)
	}
	if c.ProjectileID == "" {
		return Contact{}, fmt.Errorf("decoding contact: projectileId is required")
	}
	return c, nil
}

// EncodeSnapshot packs a snapshot for publishing.
func EncodeSnapshot(snap arena.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}
