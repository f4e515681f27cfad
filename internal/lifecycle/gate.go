package lifecycle

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/driver"
)

// Gate runs a driver for as long as its condition holds on the latest
// snapshot. It is a session observer; the driver is cancelled as soon as the
// condition stops holding or the session ends.
type Gate struct {
	name   string
	cond   func(arena.Snapshot) bool
	driver *driver.Driver

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGate(name string, cond func(arena.Snapshot) bool, d *driver.Driver) *Gate {
	return &Gate{
		name:   name,
		cond:   cond,
		driver: d,
	}
}

// Running reports whether the gated driver is currently active.
func (g *Gate) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Gate) Observe(ctx context.Context, _, next arena.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	want := g.cond(next)
	switch {
	case want && g.cancel == nil:
		runCtx, cancel := context.WithCancel(ctx)
		g.cancel = cancel

		slog.DebugContext(ctx, "gate opened", "gate", g.name)
		g.wg.Add(1)
		go func() {
			defer g.wg.Done()
			if err := g.driver.Start(runCtx); err != nil {
				slog.ErrorContext(runCtx, "gated driver stopped", "gate", g.name, "error", err)
			}
		}()
	case !want && g.cancel != nil:
		slog.DebugContext(ctx, "gate closed", "gate", g.name)
		g.cancel()
		g.cancel = nil
	}
}

// Stop cancels the driver and waits for every driver the gate has started,
// including ones still finishing a tick after an earlier close, to exit.
func (g *Gate) Stop() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.mu.Unlock()

	g.wg.Wait()
}
