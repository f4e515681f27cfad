package command

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/lifecycle"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/settings"
	"github.com/pixil98/go-errors"
)

type Config struct {
	SweepInterval   string              `json:"sweep_interval"`
	PhysicsInterval string              `json:"physics_interval"`
	Settings        arena.SettingsPatch `json:"settings"`
	SettingsPath    string              `json:"settings_path"`
	PresetsPath     string              `json:"presets_path"`
	Nats            *NatsConfig         `json:"nats"`
	Listeners       []ListenerConfig    `json:"listeners"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := parseInterval(c.SweepInterval, lifecycle.DefaultSweepInterval); err != nil {
		el.Add(fmt.Errorf("parsing sweep_interval: %w", err))
	}

	if _, err := parseInterval(c.PhysicsInterval, physics.DefaultStep); err != nil {
		el.Add(fmt.Errorf("parsing physics_interval: %w", err))
	}

	if err := c.Settings.Validate(); err != nil {
		el.Add(fmt.Errorf("settings: %w", err))
	}

	if c.SettingsPath != "" {
		if _, err := settings.LoadFile(c.SettingsPath); err != nil {
			el.Add(fmt.Errorf("settings_path: %w", err))
		}
	}

	if c.PresetsPath != "" {
		if _, err := os.Stat(c.PresetsPath); err != nil {
			el.Add(fmt.Errorf("presets_path: invalid path %q: %w", c.PresetsPath, err))
		}
	}

	if c.Nats != nil {
		if err := c.Nats.validate(); err != nil {
			el.Add(fmt.Errorf("nats: %w", err))
		}
	}

	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	return el.Err()
}

// InitialSettings layers the inline settings and then the settings file over
// the defaults.
func (c *Config) InitialSettings() (arena.Settings, error) {
	s := c.Settings.Merge(arena.DefaultSettings())

	if c.SettingsPath == "" {
		return s, nil
	}

	patch, err := settings.LoadFile(c.SettingsPath)
	if err != nil {
		return arena.Settings{}, err
	}
	return patch.Merge(s), nil
}

func (c *Config) sweepInterval() time.Duration {
	d, _ := parseInterval(c.SweepInterval, lifecycle.DefaultSweepInterval)
	return d
}

func (c *Config) physicsInterval() time.Duration {
	d, _ := parseInterval(c.PhysicsInterval, physics.DefaultStep)
	return d
}

// parseInterval parses a positive duration, falling back to def when s is empty.
func parseInterval(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, err
	}
	if d <= 0 {
		return def, fmt.Errorf("must be positive")
	}
	return d, nil
}
