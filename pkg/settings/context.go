package settings

import "context"

type runKey struct{}

// IntoContext stores the run settings in ctx.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, runKey{}, s)
}

// FromContext returns the run settings stored in ctx, if any.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(runKey{}).(*Run)
	return s, ok && s != nil
}
