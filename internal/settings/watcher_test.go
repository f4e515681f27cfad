package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-arena/internal/session"
	"github.com/pixil98/go-testutil"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	actions []session.Action
}

func (d *recordingDispatcher) Dispatch(_ context.Context, actions ...session.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions = append(d.actions, actions...)
	return nil
}

func (d *recordingDispatcher) all() []session.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]session.Action(nil), d.actions...)
}

func TestWatcher_AppliesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("rock_damage: 25\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	d := &recordingDispatcher{}
	w := NewWatcher(path, d)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-w.ready:
	case <-time.After(time.Second):
		t.Fatal("watcher did not start")
	}

	// invalid edits are skipped
	if err := os.WriteFile(path, []byte("rock_damage: -3\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	testutil.AssertEqual(t, "actions after invalid edit", len(d.all()), 0)

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("rock_damage: 99\n"), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}

	if err := os.WriteFile(path, []byte("rock_damage: 60\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(d.all()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	actions := d.all()
	testutil.AssertEqual(t, "actions", len(actions), 1)
	update, ok := actions[0].(session.UpdateSettings)
	if !ok {
		t.Fatalf("expected UpdateSettings, got %T", actions[0])
	}
	testutil.AssertEqual(t, "rock damage", *update.Patch.RockDamage, 60)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher("/nonexistent/dir/settings.yaml", &recordingDispatcher{})
	err := w.Start(context.Background())
	testutil.AssertErrorContains(t, err, "watching")
}
