package command

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/console"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/lifecycle"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/session"
	"github.com/pixil98/go-arena/internal/settings"
	"github.com/pixil98/go-arena/internal/storage"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	initial, err := cfg.InitialSettings()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	sess := session.NewSession(initial)

	// Schedulers observe the session and tear themselves down with it.
	sess.Observe(lifecycle.NewRespawner(sess, sess.Clock()))
	sess.Observe(lifecycle.NewSweeper(sess, sess.Clock(), cfg.sweepInterval()))

	world := physics.NewWorld(sess, sess, sess.Clock(), physics.WithStep(cfg.physicsInterval()))
	sess.Observe(lifecycle.NewGate("physics", playing, driver.NewDriver(
		[]driver.Ticker{world},
		driver.WithTickLength(cfg.physicsInterval()),
	)))

	workers := service.WorkerList{
		"session": sess,
	}

	if cfg.Nats != nil {
		server, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		bridge := messaging.NewBridge(server, sess, cfg.Nats.subjectPrefix(),
			driver.WithTickLength(cfg.Nats.publishInterval()))
		sess.Observe(bridge.Publisher())

		workers["nats"] = server
		workers["bridge"] = bridge
	}

	if cfg.SettingsPath != "" {
		workers["settings"] = settings.NewWatcher(cfg.SettingsPath, sess)
	}

	var presets console.PresetSource
	if cfg.PresetsPath != "" {
		store, err := storage.NewPresetStore(cfg.PresetsPath)
		if err != nil {
			return nil, fmt.Errorf("creating preset store: %w", err)
		}
		presets = store
	}

	con := console.NewConsole(sess, presets)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		listener, err := l.buildListener(con)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = listener
	}
	workers["listeners"] = &listeners

	return workers, nil
}

func playing(s arena.Snapshot) bool {
	return s.Mode == arena.ModePlaying
}
