package physics

import "time"

type WorldOpt func(*World)

// WithStep sets the simulated time advanced per tick.
func WithStep(d time.Duration) WorldOpt {
	return func(w *World) {
		w.step = d
	}
}
