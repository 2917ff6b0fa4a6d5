package secrets

import "context"

// Store looks up secrets by name. Implementations are safe for concurrent
// use and hold no mutable per-request state.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}
