package services

import (
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/ports"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const DefaultRevealInterval = 4000 * time.Millisecond

var (
	ErrRiskNotFound    = errors.New("risk event not found")
	ErrNotRevealed     = errors.New("risk event not revealed yet")
	ErrAlreadySelected = errors.New("risk event already selected")
	ErrReplayInFlight  = errors.New("a replay is already in progress")
)

// RiskFeed reveals risk events one at a time and admits at most one replay.
//
// Each event moves Pending -> Revealed -> Selected. Selected is terminal.
// A selection made while a replay is running is dropped, not queued.
type RiskFeed struct {
	clock    clockwork.Clock
	interval time.Duration
	gate     ports.SingleFlight

	mu     sync.Mutex
	events []domain.RiskEvent
	states map[int]domain.RiskState
}

func NewRiskFeed(events []domain.RiskEvent, gate ports.SingleFlight, clock clockwork.Clock, interval time.Duration) *RiskFeed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultRevealInterval
	}

	states := make(map[int]domain.RiskState, len(events))
	for _, ev := range events {
		states[ev.ID] = domain.RiskPending
	}

	return &RiskFeed{
		clock:    clock,
		interval: interval,
		gate:     gate,
		events:   append([]domain.RiskEvent(nil), events...),
		states:   states,
	}
}

// Run reveals events in input order: the first immediately, each following
// one after the reveal interval. It returns when every event is revealed or
// ctx is done. onReveal errors are logged and do not stop the feed.
func (f *RiskFeed) Run(ctx context.Context, onReveal func(context.Context, domain.RiskEvent) error) error {
	for i, ev := range f.events {
		if i > 0 {
			select {
			case <-f.clock.After(f.interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		f.mu.Lock()
		if f.states[ev.ID] == domain.RiskPending {
			f.states[ev.ID] = domain.RiskRevealed
		}
		f.mu.Unlock()

		if onReveal == nil {
			continue
		}
		if err := onReveal(ctx, ev); err != nil {
			logrus.WithFields(logrus.Fields{
				"risk_id": ev.ID,
				"err":     err,
			}).Warn("risk reveal handler failed")
		}
	}
	return nil
}

// State reports where a risk event is in its lifecycle.
func (f *RiskFeed) State(riskID int) (domain.RiskState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.states[riskID]
	return s, ok
}

// Revealed lists the revealed or selected events in reveal order.
func (f *RiskFeed) Revealed() []domain.RiskEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.RiskEvent, 0, len(f.events))
	for _, ev := range f.events {
		if f.states[ev.ID] != domain.RiskPending {
			out = append(out, ev)
		}
	}
	return out
}

// Select starts the replay for a revealed risk event and blocks until it
// finishes. It returns ErrReplayInFlight without running anything when
// another replay holds the single-flight lock.
func (f *RiskFeed) Select(
	ctx context.Context,
	riskID int,
	replay func(context.Context, domain.RiskEvent) error,
) error {
	ev, err := f.revealedEvent(riskID)
	if err != nil {
		return err
	}

	release, ok, err := f.gate.TryAcquire(ctx)
	if err != nil {
		return fmt.Errorf("select risk %d: acquire replay slot: %w", riskID, err)
	}
	if !ok {
		return fmt.Errorf("select risk %d: %w", riskID, ErrReplayInFlight)
	}
	defer release()

	// The event may have been selected since the first check.
	f.mu.Lock()
	if f.states[riskID] != domain.RiskRevealed {
		f.mu.Unlock()
		return fmt.Errorf("select risk %d: %w", riskID, ErrAlreadySelected)
	}
	f.states[riskID] = domain.RiskSelected
	f.mu.Unlock()

	if err := replay(ctx, ev); err != nil {
		return fmt.Errorf("select risk %d: %w", riskID, err)
	}
	return nil
}

func (f *RiskFeed) revealedEvent(riskID int) (domain.RiskEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, ok := f.states[riskID]
	if !ok {
		return domain.RiskEvent{}, fmt.Errorf("select risk %d: %w", riskID, ErrRiskNotFound)
	}
	switch state {
	case domain.RiskPending:
		return domain.RiskEvent{}, fmt.Errorf("select risk %d: %w", riskID, ErrNotRevealed)
	case domain.RiskSelected:
		return domain.RiskEvent{}, fmt.Errorf("select risk %d: %w", riskID, ErrAlreadySelected)
	}

	for _, ev := range f.events {
		if ev.ID == riskID {
			return ev, nil
		}
	}
	return domain.RiskEvent{}, fmt.Errorf("select risk %d: %w", riskID, ErrRiskNotFound)
}
