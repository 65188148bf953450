package session

import "context"

type ctxKey struct{}

// WithManager scopes a manager to a context subtree.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the scoped manager. Calling it outside a subtree set up
// by WithManager is a wiring bug, not a runtime condition, so it panics
// rather than returning a nil that would surface later as a confusing
// dereference.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	if !ok {
		panic("session: FromContext called outside a WithManager subtree")
	}
	return m
}
