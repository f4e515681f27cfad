package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/session"
)

const DefaultSweepInterval = time.Second

// Deriver submits actions computed against the current snapshot.
type Deriver interface {
	Derive(ctx context.Context, produce session.Producer) error
}

// Sweeper drops projectiles older than their time-to-live. It polls on a
// fixed interval while a play session is active, so a projectile lives
// between ttl and ttl plus one interval.
type Sweeper struct {
	*Gate

	sessions Deriver
	clock    clock.Clock
	ttl      time.Duration
}

func NewSweeper(sessions Deriver, c clock.Clock, interval time.Duration) *Sweeper {
	s := &Sweeper{
		sessions: sessions,
		clock:    c,
		ttl:      combat.ProjectileTTL,
	}
	d := driver.NewDriver([]driver.Ticker{s}, driver.WithTickLength(interval))
	s.Gate = NewGate("projectile-sweep", func(snap arena.Snapshot) bool {
		return snap.Mode.Active()
	}, d)
	return s
}

// Tick runs one sweep.
func (s *Sweeper) Tick(ctx context.Context) error {
	err := s.sessions.Derive(ctx, func(snap arena.Snapshot) []session.Action {
		kept, changed := combat.Expire(snap.Projectiles, s.clock.Now(), s.ttl)
		if !changed {
			return nil
		}
		return []session.Action{session.ReplaceProjectiles{Projectiles: kept}}
	})
	if errors.Is(err, session.ErrSessionClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
