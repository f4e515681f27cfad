package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/session"
)

const (
	ActionSubject   = "action"
	ContactSubject  = "contact"
	SnapshotSubject = "snapshot"
)

// Bus is the message transport the bridge runs over.
type Bus interface {
	Publisher
	Subscribe(subject string, handler func(data []byte)) (func(), error)
	Ready() <-chan struct{}
}

// Sessions is the part of a session the bridge feeds.
type Sessions interface {
	Dispatch(ctx context.Context, actions ...session.Action) error
	OnContact(ctx context.Context, projectileID string, pos arena.Vec3) error
}

// Bridge connects a session to the bus: commands and contacts arriving on
// <prefix>.action and <prefix>.contact are fed into the session, and the
// snapshot is published to <prefix>.snapshot whenever it changes.
type Bridge struct {
	bus       Bus
	sessions  Sessions
	prefix    string
	publisher *SnapshotPublisher
	driver    *driver.Driver
}

func NewBridge(bus Bus, sessions Sessions, prefix string, opts ...driver.DriverOpt) *Bridge {
	b := &Bridge{
		bus:      bus,
		sessions: sessions,
		prefix:   prefix,
	}
	b.publisher = NewSnapshotPublisher(bus, b.Subject(SnapshotSubject))
	b.driver = driver.NewDriver([]driver.Ticker{b.publisher}, opts...)
	return b
}

// Subject returns the fully qualified subject name.
func (b *Bridge) Subject(name string) string {
	if b.prefix == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", b.prefix, name)
}

// Publisher returns the observer that must be registered with the session
// for snapshots to be published.
func (b *Bridge) Publisher() *SnapshotPublisher {
	return b.publisher
}

func (b *Bridge) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-b.bus.Ready():
	}

	unsubAction, err := b.bus.Subscribe(b.Subject(ActionSubject), func(data []byte) {
		b.handleAction(ctx, data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to actions: %w", err)
	}
	defer unsubAction()

	unsubContact, err := b.bus.Subscribe(b.Subject(ContactSubject), func(data []byte) {
		b.handleContact(ctx, data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to contacts: %w", err)
	}
	defer unsubContact()

	slog.InfoContext(ctx, "bridge connected", "prefix", b.prefix)
	return b.driver.Start(ctx)
}

func (b *Bridge) handleAction(ctx context.Context, data []byte) {
	action, err := DecodeCommand(data)
	if err != nil {
		slog.WarnContext(ctx, "dropping command", "error", err)
		return
	}
	if err := b.sessions.Dispatch(ctx, action); err != nil {
		slog.WarnContext(ctx, "dispatching command", "error", err)
	}
}

func (b *Bridge) handleContact(ctx context.Context, data []byte) {
	c, err := DecodeContact(data)
	if err != nil {
		slog.WarnContext(ctx, "dropping contact", "error", err)
		return
	}
	if err := b.sessions.OnContact(ctx, c.ProjectileID, c.Position); err != nil {
		slog.WarnContext(ctx, "applying contact", "projectile", c.ProjectileID, "error", err)
	}
}
