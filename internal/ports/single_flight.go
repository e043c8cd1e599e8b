package ports

import "context"

// SingleFlight admits at most one holder at a time.
// A caller that does not obtain it is dropped, never queued.
type SingleFlight interface {
	// TryAcquire returns ok=false without blocking when the slot is taken.
	// When ok is true the caller must call release exactly once.
	TryAcquire(ctx context.Context) (release func(), ok bool, err error)
}
