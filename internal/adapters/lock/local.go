package lock

import (
	"context"
	"sync/atomic"
)

// LocalSingleFlight is an in-process single-flight slot.
type LocalSingleFlight struct {
	held atomic.Bool
}

func NewLocalSingleFlight() *LocalSingleFlight {
	return &LocalSingleFlight{}
}

func (l *LocalSingleFlight) TryAcquire(ctx context.Context) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !l.held.CompareAndSwap(false, true) {
		return nil, false, nil
	}

	var once atomic.Bool
	release := func() {
		if once.CompareAndSwap(false, true) {
			l.held.Store(false)
		}
	}
	return release, true, nil
}
