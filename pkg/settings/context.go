package settings

import "context"

type runContextKey struct{}

// IntoContext stores the run settings in ctx.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, runContextKey{}, s)
}

// FromContext returns the run settings stored in ctx, or defaults when none
// were stored.
func FromContext(ctx context.Context) *Run {
	if s, ok := ctx.Value(runContextKey{}).(*Run); ok && s != nil {
		return s
	}
	return NewCliParams()
}
