package console

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/session"
	"github.com/pixil98/go-arena/internal/storage"
	"github.com/pixil98/go-testutil"
)

var testStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type scriptConn struct {
	io.Reader
	io.Writer
}

func startSession(t *testing.T) *session.Session {
	t.Helper()

	s := session.NewSession(arena.DefaultSettings(),
		session.WithClock(clock.NewMock(testStart)),
		session.WithRand(rand.New(rand.NewPCG(1, 2))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.Start(ctx); err != nil {
			t.Errorf("session start: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return s
}

// runScript feeds script to a console bound to s and returns what it wrote.
func runScript(t *testing.T, c *Console, s *session.Session, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ctx := session.WithSession(context.Background(), s)
	err := c.Run(ctx, scriptConn{Reader: strings.NewReader(script), Writer: &out})
	return out.String(), err
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestConsole_NamePrompt(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	out, err := runScript(t, c, s, "\n"+strings.Repeat("x", 21)+"\n  Ada  \nquit\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, out, "cannot be empty", "at most 20 characters", "Hello, Ada.", "Goodbye.")
	testutil.AssertEqual(t, "name", s.Snapshot().LocalPlayer.Name, "Ada")
}

func TestConsole_NamePromptTooManyTries(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	_, err := runScript(t, c, s, "\n\n\n")
	testutil.AssertErrorContains(t, err, "too many tries")
	if s.Snapshot().LocalPlayer != nil {
		t.Error("expected no player to be created")
	}
}

func TestConsole_EOFEndsQuietly(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	_, err := runScript(t, c, s, "Ada\nmode lobby")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "mode", s.Snapshot().Mode, arena.ModeLobby)
}

func TestConsole_PlaySession(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	script := strings.Join([]string{
		"Ada",
		"mode playing",
		"move 1 2 3 0.5",
		"throw 0 0",
		"set rock_damage=40 respawn_time_ms=1000",
		"status",
		"quit",
	}, "\n") + "\n"

	out, err := runScript(t, c, s, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	testutil.AssertEqual(t, "mode", snap.Mode, arena.ModePlaying)
	testutil.AssertEqual(t, "position", snap.LocalPlayer.Position, arena.Vec3{X: 1, Y: 2, Z: 3})
	testutil.AssertEqual(t, "yaw", snap.LocalPlayer.Rotation.Y, 0.5)
	testutil.AssertEqual(t, "projectiles", len(snap.Projectiles), 1)
	testutil.AssertEqual(t, "projectile damage", snap.Projectiles[0].Damage, 25)
	testutil.AssertEqual(t, "projectile owner", snap.Projectiles[0].OwnerID, snap.LocalPlayer.ID)
	testutil.AssertEqual(t, "rock damage", snap.Settings.RockDamage, 40)
	testutil.AssertEqual(t, "respawn", snap.Settings.RespawnTimeMs, 1000)

	assertContains(t, out,
		"Mode is now playing.",
		"You hurl a rock.",
		"Settings updated.",
		"Mode: Playing",
		"Player: Ada",
		"Health: 100/100",
		"Rocks in flight: 1",
		"damage 40",
	)
}

func TestConsole_HitDamageRespawn(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	if _, err := runScript(t, c, s, "Ada\nmode playing\nmove 0 2 0\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	err := s.Dispatch(ctx, session.ReplaceProjectiles{Projectiles: []arena.Projectile{
		{ID: "r1", OwnerID: "bob", Damage: 25, CreatedAt: testStart},
	}})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	out, err := runScript(t, c, s, "Ada\nhit r1 0 2 0\nhit r1 0 2 0\ndamage 100 bob\nrespawn\nquit\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, out, "The rock smacks you for 25 damage.", "The rock misses.", "You died.", "You respawn.")

	snap := s.Snapshot()
	testutil.AssertEqual(t, "health", snap.LocalPlayer.Health, 100)
	testutil.AssertEqual(t, "alive", snap.LocalPlayer.Alive, true)
	testutil.AssertEqual(t, "projectiles", len(snap.Projectiles), 0)
}

func TestConsole_UserErrors(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	script := strings.Join([]string{
		"Ada",
		"fly",
		"move 1",
		"move a b c",
		"throw 0 0",
		"mode sideways",
		"set bogus=1",
		"set max_health=-5",
		"damage x bob",
		"preset tank",
		"quit",
	}, "\n") + "\n"

	out, err := runScript(t, c, s, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, out,
		`Unknown command "fly".`,
		"Usage: move <x> <y> <z> [yaw]",
		`Invalid number "a"`,
		"You can only throw while playing",
		"Unknown game mode: sideways",
		`Unknown setting "bogus"`,
		"must be positive",
		`Invalid amount "x"`,
		"No preset store configured",
		"Goodbye.",
	)
	testutil.AssertEqual(t, "settings", s.Snapshot().Settings, arena.DefaultSettings())
}

type fakePresets map[storage.Identifier]*storage.Preset

func (f fakePresets) Get(id storage.Identifier) (*storage.Preset, bool) {
	p, ok := f[id]
	return p, ok
}

func (f fakePresets) Ids() []storage.Identifier {
	ids := make([]storage.Identifier, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	return ids
}

func TestConsole_Presets(t *testing.T) {
	s := startSession(t)
	health := 400
	c := NewConsole(s, fakePresets{
		"tank": {Name: "Tank", Settings: arena.SettingsPatch{MaxHealth: &health}},
	})

	out, err := runScript(t, c, s, "Ada\npresets\npreset tank\npreset nope\nquit\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, out, "tank", "Applied preset Tank.", `No preset named "nope"`)
	testutil.AssertEqual(t, "max health", s.Snapshot().Settings.MaxHealth, 400)
}

func TestConsole_Help(t *testing.T) {
	s := startSession(t)
	c := NewConsole(s, nil)

	out, err := runScript(t, c, s, "Ada\nhelp\nquit\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "throw <yaw> <pitch>", "preset <id>", "quit")
}

func TestConsole_RequiresSession(t *testing.T) {
	c := NewConsole(nil, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic without a session in context")
		}
	}()
	_ = c.Run(context.Background(), scriptConn{Reader: strings.NewReader("Ada\n"), Writer: io.Discard})
}

func TestParsePatch(t *testing.T) {
	tests := map[string]struct {
		args   []string
		exp    arena.Settings
		expErr string
	}{
		"ints and floats": {
			args: []string{"max_health=150", "throw_force=22.5"},
			exp:  arena.Settings{MaxHealth: 150, RockDamage: 25, RespawnTimeMs: 3000, MovementSpeed: 5, ThrowForce: 22.5},
		},
		"case insensitive keys": {
			args: []string{"Movement_Speed=7"},
			exp:  arena.Settings{MaxHealth: 100, RockDamage: 25, RespawnTimeMs: 3000, MovementSpeed: 7, ThrowForce: 15},
		},
		"missing equals": {
			args:   []string{"max_health"},
			expErr: "expected key=value",
		},
		"bad integer": {
			args:   []string{"rock_damage=lots"},
			expErr: "invalid integer for rock_damage",
		},
		"bad float": {
			args:   []string{"throw_force=far"},
			expErr: "invalid number for throw_force",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			patch, err := parsePatch(tt.args)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "settings", patch.Merge(arena.DefaultSettings()), tt.exp)
		})
	}
}

func TestHealthReport(t *testing.T) {
	tests := map[string]struct {
		player *arena.Player
		exp    string
	}{
		"player removed": {
			player: nil,
			exp:    "You have no player.",
		},
		"dead": {
			player: &arena.Player{Health: 0, MaxHealth: 100},
			exp:    "You died.",
		},
		"wounded": {
			player: &arena.Player{Health: 60, MaxHealth: 100, Alive: true},
			exp:    "Health 60/100.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "report", healthReport(tt.player), tt.exp)
		})
	}
}
