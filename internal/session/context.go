package session

import "context"

type ctxKey struct{}

// WithSession attaches s to ctx for collaborators that read the active session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Lookup returns the session attached to ctx.
func Lookup(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// FromContext returns the session attached to ctx. Reaching for a session
// where none was attached is a wiring bug, so it panics.
func FromContext(ctx context.Context) *Session {
	s, err := Lookup(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
