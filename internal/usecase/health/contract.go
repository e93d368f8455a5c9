package health

import "context"

// Pinger is a dependency that can answer a liveness probe: the projection
// store (Redis or memory) and the catalog database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }
