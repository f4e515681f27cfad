package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/combat"
)

var (
	ErrSessionClosed   = errors.New("session closed")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNoActiveSession = errors.New("no active session")
)

const inboxSize = 64

// Producer computes actions from the snapshot current at the moment it runs.
type Producer func(arena.Snapshot) []Action

// Observer is notified after every applied change. Observe runs on the
// session goroutine, so it must not block on the session itself.
type Observer interface {
	Observe(ctx context.Context, prev, next arena.Snapshot)
}

// Stopper is implemented by observers holding timers or goroutines that must
// be released when the session ends.
type Stopper interface {
	Stop()
}

type request struct {
	produce Producer
	applied chan struct{}
}

// Session owns the authoritative snapshot. All mutations are serialized
// through a single inbox and applied by the goroutine running Start; readers
// load the latest published snapshot without locking.
type Session struct {
	clock     clock.Clock
	rng       combat.Rand
	spawn     combat.SpawnArea
	observers []Observer

	inbox   chan request
	state   atomic.Pointer[arena.Snapshot]
	started atomic.Bool
	done    chan struct{}
}

func NewSession(settings arena.Settings, opts ...SessionOpt) *Session {
	s := &Session{
		clock:     clock.System{},
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		spawn:     combat.DefaultSpawnArea,
		inbox:     make(chan request, inboxSize),
		done:      make(chan struct{}),
		observers: []Observer{eventLogger{}},
	}

	initial := arena.NewSnapshot(settings)
	s.state.Store(&initial)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot returns the latest published state. The returned value and the
// slices it references must be treated as read-only.
func (s *Session) Snapshot() arena.Snapshot {
	return *s.state.Load()
}

// Clock returns the session's time source.
func (s *Session) Clock() clock.Clock {
	return s.clock
}

// Observe registers an observer. It must be called before Start.
func (s *Session) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// Start applies queued actions until ctx ends. It is a service worker.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer s.shutdown()

	slog.InfoContext(ctx, "session started")

	initial := s.Snapshot()
	for _, o := range s.observers {
		o.Observe(ctx, initial, initial)
	}

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "session stopped")
			return nil
		case req := <-s.inbox:
			s.handle(ctx, req)
		}
	}
}

func (s *Session) shutdown() {
	close(s.done)
	for _, o := range s.observers {
		if st, ok := o.(Stopper); ok {
			st.Stop()
		}
	}
}

func (s *Session) handle(ctx context.Context, req request) {
	defer close(req.applied)

	prev := s.Snapshot()
	cur := prev
	changed := false
	for _, a := range req.produce(prev) {
		next, ok := a.apply(s, cur)
		if !ok {
			slog.DebugContext(ctx, "action ignored", "action", actionName(a))
			continue
		}
		cur = next
		changed = true
	}
	if !changed {
		return
	}

	s.state.Store(&cur)
	for _, o := range s.observers {
		o.Observe(ctx, prev, cur)
	}
}

// Dispatch applies the actions in order as one atomic change and waits until
// they have been applied.
func (s *Session) Dispatch(ctx context.Context, actions ...Action) error {
	return s.Derive(ctx, func(arena.Snapshot) []Action {
		return actions
	})
}

// Derive runs produce against the current snapshot on the session goroutine
// and applies the actions it returns as one atomic change.
func (s *Session) Derive(ctx context.Context, produce Producer) error {
	req := request{
		produce: produce,
		applied: make(chan struct{}),
	}

	select {
	case s.inbox <- req:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.applied:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnContact consumes a contact event from the physics collaborator. A contact
// close enough to the living local player from somebody else's projectile
// damages them and removes the projectile.
func (s *Session) OnContact(ctx context.Context, projectileID string, pos arena.Vec3) error {
	return s.Derive(ctx, func(snap arena.Snapshot) []Action {
		hit, ok := combat.ResolveContact(snap, projectileID, pos)
		if !ok {
			return nil
		}
		return []Action{
			DamagePlayer{TargetID: hit.TargetID, Amount: hit.Damage, AttackerID: hit.AttackerID},
			ReplaceProjectiles{Projectiles: snap.WithoutProjectile(hit.ProjectileID)},
		}
	})
}

func actionName(a Action) string {
	return fmt.Sprintf("%T", a)
}
