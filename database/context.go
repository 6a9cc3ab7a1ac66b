package database

import "context"

type ctxKey int

const primaryKey ctxKey = iota

// WithPrimary marks reads made with ctx to go to the primary instead of a
// read replica.
func WithPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey, true)
}

func usePrimary(ctx context.Context) bool {
	primary, _ := ctx.Value(primaryKey).(bool)
	return primary
}
