package services

import (
	"context"
	"disruption-replay-service/internal/adapters/lock"
	"disruption-replay-service/internal/domain"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingGate struct{ err error }

func (g failingGate) TryAcquire(context.Context) (func(), bool, error) {
	return nil, false, g.err
}

type revealLog struct {
	mu  sync.Mutex
	ids []int
	at  []time.Time
}

func (l *revealLog) record(clock clockwork.Clock) func(context.Context, domain.RiskEvent) error {
	return func(_ context.Context, ev domain.RiskEvent) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.ids = append(l.ids, ev.ID)
		l.at = append(l.at, clock.Now())
		return nil
	}
}

func (l *revealLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// revealAll runs the feed to completion on a fake clock.
func revealAll(t *testing.T, feed *RiskFeed, clock clockwork.FakeClock, interval time.Duration) {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- feed.Run(context.Background(), nil) }()
	n := len(feed.events) - 1
	for i := 0; i < n; i++ {
		advance(clock, interval)
	}
	require.NoError(t, <-done)
}

func TestRiskFeedRevealsInOrderAtInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	events := newTestStore(t).RiskEvents()
	feed := NewRiskFeed(events, lock.NewLocalSingleFlight(), clock, 0)

	log := &revealLog{}
	done := make(chan error, 1)
	go func() { done <- feed.Run(context.Background(), log.record(clock)) }()

	// The first event is revealed right away.
	clock.BlockUntil(1)
	assert.Equal(t, 1, log.count())

	// Nothing more before the interval has elapsed.
	clock.Advance(DefaultRevealInterval - time.Millisecond)
	assert.Equal(t, 1, log.count())

	clock.Advance(time.Millisecond)
	clock.BlockUntil(1)
	assert.Equal(t, 2, log.count())

	clock.Advance(DefaultRevealInterval)
	require.NoError(t, <-done)

	assert.Equal(t, []int{1, 2, 3}, log.ids)
	assert.Equal(t, []time.Time{start, start.Add(4 * time.Second), start.Add(8 * time.Second)}, log.at)

	for _, ev := range events {
		state, ok := feed.State(ev.ID)
		require.True(t, ok)
		assert.Equal(t, domain.RiskRevealed, state)
	}
}

func TestRiskFeedRunStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), lock.NewLocalSingleFlight(), clock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx, nil) }()

	clock.BlockUntil(1)
	cancel()

	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.Len(t, feed.Revealed(), 1)
}

func TestRiskFeedRevealHandlerErrorDoesNotStopFeed(t *testing.T) {
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), lock.NewLocalSingleFlight(), nil, time.Nanosecond)

	calls := 0
	err := feed.Run(context.Background(), func(context.Context, domain.RiskEvent) error {
		calls++
		return errors.New("map unavailable")
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, feed.Revealed(), 3)
}

func TestRiskFeedSelectStates(t *testing.T) {
	clock := clockwork.NewFakeClock()
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), lock.NewLocalSingleFlight(), clock, time.Second)
	noop := func(context.Context, domain.RiskEvent) error { return nil }
	ctx := context.Background()

	err := feed.Select(ctx, 1, noop)
	assert.True(t, errors.Is(err, ErrNotRevealed))

	err = feed.Select(ctx, 99, noop)
	assert.True(t, errors.Is(err, ErrRiskNotFound))

	revealAll(t, feed, clock, time.Second)

	require.NoError(t, feed.Select(ctx, 1, noop))
	state, _ := feed.State(1)
	assert.Equal(t, domain.RiskSelected, state)

	err = feed.Select(ctx, 1, noop)
	assert.True(t, errors.Is(err, ErrAlreadySelected))
}

func TestRiskFeedDropsSelectionDuringReplay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), lock.NewLocalSingleFlight(), clock, time.Second)
	revealAll(t, feed, clock, time.Second)
	ctx := context.Background()

	started := make(chan struct{})
	finish := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- feed.Select(ctx, 1, func(context.Context, domain.RiskEvent) error {
			close(started)
			<-finish
			return nil
		})
	}()
	<-started

	// call the method under test
	calls := 0
	err := feed.Select(ctx, 2, func(context.Context, domain.RiskEvent) error {
		calls++
		return nil
	})

	// verify behavior
	assert.True(t, errors.Is(err, ErrReplayInFlight))
	assert.Zero(t, calls, "a dropped selection has no effect")
	state, _ := feed.State(2)
	assert.Equal(t, domain.RiskRevealed, state)

	close(finish)
	require.NoError(t, <-first)

	// Once the replay is over the slot is free again.
	require.NoError(t, feed.Select(ctx, 2, func(context.Context, domain.RiskEvent) error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestRiskFeedSelectReplayError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gate := lock.NewLocalSingleFlight()
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), gate, clock, time.Second)
	revealAll(t, feed, clock, time.Second)

	boom := errors.New("backend unreachable")
	err := feed.Select(context.Background(), 3, func(context.Context, domain.RiskEvent) error { return boom })
	assert.True(t, errors.Is(err, boom))

	// Selected is terminal even when the replay failed.
	state, _ := feed.State(3)
	assert.Equal(t, domain.RiskSelected, state)

	release, ok, err := gate.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "the slot is released after a failed replay")
	release()
}

func TestRiskFeedSelectGateError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	boom := errors.New("redis down")
	feed := NewRiskFeed(newTestStore(t).RiskEvents(), failingGate{err: boom}, clock, time.Second)
	revealAll(t, feed, clock, time.Second)

	err := feed.Select(context.Background(), 1, func(context.Context, domain.RiskEvent) error { return nil })
	assert.True(t, errors.Is(err, boom))

	state, _ := feed.State(1)
	assert.Equal(t, domain.RiskRevealed, state)
}
