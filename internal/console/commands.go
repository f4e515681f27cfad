package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/session"
	"github.com/pixil98/go-arena/internal/storage"
)

var errQuit = errors.New("quit")

// usageError is reported back to the user instead of ending the connection.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, sess *session.Session, args []string) (string, error)
}

func (c *Console) buildCommands() map[string]command {
	cmds := map[string]command{
		"name": {
			usage: "name <name>",
			help:  "change your name",
			run:   cmdName,
		},
		"mode": {
			usage: "mode <menu|lobby|playing|paused>",
			help:  "switch the game mode",
			run:   cmdMode,
		},
		"pause": {
			usage: "pause",
			help:  "pause the match",
			run:   setModeCmd(arena.ModePaused),
		},
		"resume": {
			usage: "resume",
			help:  "resume the match",
			run:   setModeCmd(arena.ModePlaying),
		},
		"menu": {
			usage: "menu",
			help:  "leave the match for the main menu",
			run:   setModeCmd(arena.ModeMenu),
		},
		"move": {
			usage: "move <x> <y> <z> [yaw]",
			help:  "set your position and facing",
			run:   cmdMove,
		},
		"throw": {
			usage: "throw <yaw> <pitch>",
			help:  "throw a rock in the given direction (radians)",
			run:   cmdThrow,
		},
		"hit": {
			usage: "hit <projectile> <x> <y> <z>",
			help:  "report a projectile contact at a world position",
			run:   cmdHit,
		},
		"damage": {
			usage: "damage <amount> <attacker>",
			help:  "damage yourself on behalf of another player",
			run:   cmdDamage,
		},
		"respawn": {
			usage: "respawn",
			help:  "respawn immediately",
			run:   cmdRespawn,
		},
		"set": {
			usage: "set <key>=<value> ...",
			help:  "change match settings",
			run:   cmdSet,
		},
		"presets": {
			usage: "presets",
			help:  "list stored settings presets",
			run:   c.cmdPresets,
		},
		"preset": {
			usage: "preset <id>",
			help:  "apply a stored settings preset",
			run:   c.cmdPreset,
		},
		"status": {
			usage: "status",
			help:  "show the match state",
			run:   c.cmdStatus,
		},
		"quit": {
			usage: "quit",
			help:  "disconnect",
			run: func(context.Context, *session.Session, []string) (string, error) {
				return "", errQuit
			},
		},
	}

	cmds["help"] = command{
		usage: "help",
		help:  "list commands",
		run: func(context.Context, *session.Session, []string) (string, error) {
			names := make([]string, 0, len(cmds))
			for name := range cmds {
				names = append(names, name)
			}
			slices.Sort(names)

			var sb strings.Builder
			for _, name := range names {
				fmt.Fprintf(&sb, "%-34s %s\n", cmds[name].usage, cmds[name].help)
			}
			return strings.TrimSuffix(sb.String(), "\n"), nil
		},
	}

	return cmds
}

func cmdName(ctx context.Context, sess *session.Session, args []string) (string, error) {
	name := strings.Join(args, " ")
	if ok, msg := validateName(name); !ok {
		return "", usagef("%s", strings.TrimSpace(msg))
	}
	if err := sess.Dispatch(ctx, session.CreateOrRenamePlayer{Name: name}); err != nil {
		return "", err
	}
	return fmt.Sprintf("You are now known as %s.", name), nil
}

func cmdMode(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", usagef("usage: mode <menu|lobby|playing|paused>")
	}
	var mode arena.GameMode
	if err := mode.UnmarshalText([]byte(strings.ToLower(args[0]))); err != nil {
		return "", usagef("%s", err)
	}
	return setModeCmd(mode)(ctx, sess, nil)
}

func setModeCmd(mode arena.GameMode) func(context.Context, *session.Session, []string) (string, error) {
	return func(ctx context.Context, sess *session.Session, _ []string) (string, error) {
		if err := sess.Dispatch(ctx, session.SetMode{Mode: mode}); err != nil {
			return "", err
		}
		return fmt.Sprintf("Mode is now %s.", mode), nil
	}
}

func cmdMove(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 3 && len(args) != 4 {
		return "", usagef("usage: move <x> <y> <z> [yaw]")
	}
	vals, err := parseFloats(args)
	if err != nil {
		return "", err
	}

	pos := arena.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
	var rot arena.Vec3
	if len(vals) == 4 {
		rot.Y = vals[3]
	} else if lp := sess.Snapshot().LocalPlayer; lp != nil {
		rot = lp.Rotation
	}

	if err := sess.Dispatch(ctx, session.UpdatePosition{Position: pos, Rotation: rot}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Moved to %.1f, %.1f, %.1f.", pos.X, pos.Y, pos.Z), nil
}

func cmdThrow(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 2 {
		return "", usagef("usage: throw <yaw> <pitch>")
	}
	vals, err := parseFloats(args)
	if err != nil {
		return "", err
	}

	snap := sess.Snapshot()
	switch {
	case snap.Mode != arena.ModePlaying:
		return "", usagef("you can only throw while playing")
	case snap.LocalPlayer == nil || !snap.LocalPlayer.Alive:
		return "", usagef("you can't throw while dead")
	}

	origin, velocity := combat.AimThrow(snap.LocalPlayer.Position, vals[0], vals[1], snap.Settings.ThrowForce)
	if err := sess.Dispatch(ctx, session.ThrowProjectile{Origin: origin, Velocity: velocity}); err != nil {
		return "", err
	}
	return "You hurl a rock.", nil
}

func cmdHit(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 4 {
		return "", usagef("usage: hit <projectile> <x> <y> <z>")
	}
	vals, err := parseFloats(args[1:])
	if err != nil {
		return "", err
	}

	before := sess.Snapshot()
	if err := sess.OnContact(ctx, args[0], arena.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}); err != nil {
		return "", err
	}
	after := sess.Snapshot()

	if after.LocalPlayer == nil || before.LocalPlayer == nil || after.LocalPlayer.Health == before.LocalPlayer.Health {
		return "The rock misses.", nil
	}
	dmg := before.LocalPlayer.Health - after.LocalPlayer.Health
	return fmt.Sprintf("The rock %s you for %d damage.", combat.DamageVerb(dmg), dmg), nil
}

func cmdDamage(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 2 {
		return "", usagef("usage: damage <amount> <attacker>")
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return "", usagef("invalid amount %q", args[0])
	}

	lp := sess.Snapshot().LocalPlayer
	if lp == nil {
		return "", usagef("you have no player")
	}

	err = sess.Dispatch(ctx, session.DamagePlayer{TargetID: lp.ID, Amount: amount, AttackerID: args[1]})
	if err != nil {
		return "", err
	}

	return healthReport(sess.Snapshot().LocalPlayer), nil
}

// healthReport describes p after a hit. Another connection may have removed
// the player in the meantime.
func healthReport(p *arena.Player) string {
	switch {
	case p == nil:
		return "You have no player."
	case !p.Alive:
		return "You died."
	default:
		return fmt.Sprintf("Health %d/%d.", p.Health, p.MaxHealth)
	}
}

func cmdRespawn(ctx context.Context, sess *session.Session, _ []string) (string, error) {
	lp := sess.Snapshot().LocalPlayer
	if lp == nil {
		return "", usagef("you have no player")
	}
	if err := sess.Dispatch(ctx, session.RespawnPlayer{TargetID: lp.ID}); err != nil {
		return "", err
	}
	return "You respawn.", nil
}

func cmdSet(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) == 0 {
		return "", usagef("usage: set <key>=<value> ...")
	}
	patch, err := parsePatch(args)
	if err != nil {
		return "", err
	}
	if err := patch.Validate(); err != nil {
		return "", usagef("%s", err)
	}
	if err := sess.Dispatch(ctx, session.UpdateSettings{Patch: patch}); err != nil {
		return "", err
	}
	return "Settings updated.", nil
}

func (c *Console) cmdPresets(context.Context, *session.Session, []string) (string, error) {
	if c.presets == nil {
		return "", usagef("no preset store configured")
	}
	ids := c.presets.Ids()
	if len(ids) == 0 {
		return "No presets stored.", nil
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		p, _ := c.presets.Get(id)
		lines = append(lines, fmt.Sprintf("%-16s %s", id, p.Name))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Console) cmdPreset(ctx context.Context, sess *session.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", usagef("usage: preset <id>")
	}
	if c.presets == nil {
		return "", usagef("no preset store configured")
	}
	p, ok := c.presets.Get(storage.Identifier(args[0]))
	if !ok {
		return "", usagef("no preset named %q", args[0])
	}
	if err := sess.Dispatch(ctx, session.UpdateSettings{Patch: p.Settings}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Applied preset %s.", p.Name), nil
}

func (c *Console) cmdStatus(_ context.Context, sess *session.Session, _ []string) (string, error) {
	return renderStatus(c.status, sess.Snapshot())
}

func parseFloats(args []string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, usagef("invalid number %q", a)
		}
		vals[i] = v
	}
	return vals, nil
}

func parsePatch(args []string) (arena.SettingsPatch, error) {
	var patch arena.SettingsPatch
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return patch, usagef("expected key=value, got %q", arg)
		}

		switch strings.ToLower(key) {
		case "max_health", "rock_damage", "respawn_time_ms":
			n, err := strconv.Atoi(val)
			if err != nil {
				return patch, usagef("invalid integer for %s: %q", key, val)
			}
			switch strings.ToLower(key) {
			case "max_health":
				patch.MaxHealth = &n
			case "rock_damage":
				patch.RockDamage = &n
			default:
				patch.RespawnTimeMs = &n
			}
		case "movement_speed", "throw_force":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return patch, usagef("invalid number for %s: %q", key, val)
			}
			if strings.ToLower(key) == "movement_speed" {
				patch.MovementSpeed = &f
			} else {
				patch.ThrowForce = &f
			}
		default:
			return patch, usagef("unknown setting %q", key)
		}
	}
	return patch, nil
}
