package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/session"
)

// death identifies one death of the local player and the delay it was armed with.
type death struct {
	playerID string
	at       time.Time
	delay    time.Duration
}

// Respawner brings the local player back respawnTimeMs after they die. The
// timer restarts on a new death or a changed delay, and is cancelled when the
// player comes back by any other path or leaves the session.
type Respawner struct {
	sessions Deriver
	clock    clock.Clock

	mu    sync.Mutex
	timer clock.Timer
	armed death
}

func NewRespawner(sessions Deriver, c clock.Clock) *Respawner {
	return &Respawner{sessions: sessions, clock: c}
}

// Pending reports whether a respawn is scheduled.
func (r *Respawner) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

func (r *Respawner) Observe(ctx context.Context, _, next arena.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lp := next.LocalPlayer
	if lp == nil || lp.Alive {
		r.cancelLocked()
		return
	}

	d := death{playerID: lp.ID, at: lp.LastDamage, delay: next.Settings.RespawnDelay()}
	if r.timer != nil && r.armed == d {
		return
	}

	r.cancelLocked()
	r.armed = d
	r.timer = r.clock.AfterFunc(d.delay, func() { r.fire(ctx, d) })
}

func (r *Respawner) fire(ctx context.Context, d death) {
	r.mu.Lock()
	if r.armed != d || r.timer == nil {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.mu.Unlock()

	err := r.sessions.Derive(ctx, func(snap arena.Snapshot) []session.Action {
		lp := snap.LocalPlayer
		if lp == nil || lp.Alive || lp.ID != d.playerID || !lp.LastDamage.Equal(d.at) {
			return nil
		}
		return []session.Action{session.RespawnPlayer{TargetID: d.playerID}}
	})
	if err != nil && !errors.Is(err, session.ErrSessionClosed) && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "dispatching respawn", "player", d.playerID, "error", err)
	}
}

// Stop cancels any pending respawn.
func (r *Respawner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
}

func (r *Respawner) cancelLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.armed = death{}
}
