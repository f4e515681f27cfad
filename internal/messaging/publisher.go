package messaging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pixil98/go-arena/internal/arena"
)

// Publisher is the outbound half of a message bus.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SnapshotPublisher observes a session and publishes the latest snapshot on
// each tick when it has changed since the previous publish.
type SnapshotPublisher struct {
	pub     Publisher
	subject string

	mu     sync.Mutex
	latest *arena.Snapshot
	dirty  bool
}

func NewSnapshotPublisher(pub Publisher, subject string) *SnapshotPublisher {
	return &SnapshotPublisher{pub: pub, subject: subject}
}

func (p *SnapshotPublisher) Observe(_ context.Context, _, next arena.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = &next
	p.dirty = true
}

func (p *SnapshotPublisher) Tick(ctx context.Context) error {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return nil
	}
	snap := *p.latest
	p.dirty = false
	p.mu.Unlock()

	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	if err := p.pub.Publish(p.subject, data); err != nil {
		// the bus can come and go; keep ticking
		slog.WarnContext(ctx, "publishing snapshot", "subject", p.subject, "error", err)
	}
	return nil
}
