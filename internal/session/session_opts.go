package session

import (
	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/combat"
)

type SessionOpt func(*Session)

// WithClock sets the time source for timestamps.
func WithClock(c clock.Clock) SessionOpt {
	return func(s *Session) {
		s.clock = c
	}
}

// WithRand sets the source used for spawn placement.
func WithRand(r combat.Rand) SessionOpt {
	return func(s *Session) {
		s.rng = r
	}
}

// WithSpawnArea sets where respawned players are placed.
func WithSpawnArea(a combat.SpawnArea) SessionOpt {
	return func(s *Session) {
		s.spawn = a
	}
}

// WithRemotePlayers seeds the inert collection of remote player placeholders.
func WithRemotePlayers(players []arena.Player) SessionOpt {
	return func(s *Session) {
		snap := s.Snapshot()
		snap.RemotePlayers = append([]arena.Player(nil), players...)
		s.state.Store(&snap)
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) SessionOpt {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}
