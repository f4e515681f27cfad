package session

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/combat"
)

// eventLogger logs the notable transitions of a session.
type eventLogger struct{}

func (eventLogger) Observe(ctx context.Context, prev, next arena.Snapshot) {
	if prev.Mode != next.Mode {
		slog.InfoContext(ctx, "mode changed", "from", prev.Mode, "to", next.Mode)
	}

	before, after := prev.LocalPlayer, next.LocalPlayer
	switch {
	case after == nil:
		if before != nil {
			slog.InfoContext(ctx, "player left", "id", before.ID, "name", before.Name)
		}
		return
	case before == nil || before.ID != after.ID:
		slog.InfoContext(ctx, "player joined", "id", after.ID, "name", after.Name)
		return
	}

	if after.Health < before.Health {
		lost := before.Health - after.Health
		slog.InfoContext(ctx, "player hit",
			"id", after.ID,
			"damage", lost,
			"verb", combat.DamageVerb(lost),
			"health", after.Health,
		)
	}
	if before.Alive && !after.Alive {
		slog.InfoContext(ctx, "player died", "id", after.ID, "respawn_in", next.Settings.RespawnDelay())
	}
	if !before.Alive && after.Alive {
		slog.InfoContext(ctx, "player respawned", "id", after.ID, "position", after.Position)
	}
}
