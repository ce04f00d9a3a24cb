package tool

import "context"

// UpdateFunc receives a progress message while a tool runs. The chat
// transport installs one so the client sees what each agent is doing.
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

// WithUpdate returns a context carrying the given UpdateFunc
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update posts a progress message through the UpdateFunc in ctx, if any
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}
