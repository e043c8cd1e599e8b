package services

import (
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/platform/obs"
	"disruption-replay-service/internal/ports"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Pacing holds the narrative delays of a replay.
type Pacing struct {
	LogInterval time.Duration // between consecutive log entries
	CardDelay   time.Duration // after the last log entry, before the decision card
	RouteDelay  time.Duration // after the cancellation, before the new route(s)
}

func DefaultPacing() Pacing {
	return Pacing{
		LogInterval: 1500 * time.Millisecond,
		CardDelay:   1000 * time.Millisecond,
		RouteDelay:  2000 * time.Millisecond,
	}
}

// Step is one timed action of a replay. Delay elapses before Run is called.
type Step struct {
	Name  string
	Delay time.Duration
	Run   func(ctx context.Context) error
}

// ReplayResult describes what a finished replay changed on its scene.
type ReplayResult struct {
	RunID     string
	Scenario  string
	Decision  domain.Decision
	Cancelled *domain.Shipment
	Derived   []domain.Shipment
	// Skipped is set when the impacted shipment is not on the scene; only the
	// log and decision card were played.
	Skipped bool
}

// ReplayEngine turns a dispatch outcome into an ordered list of steps and
// executes them one after another on a single goroutine.
type ReplayEngine struct {
	clock  clockwork.Clock
	pacing Pacing
}

func NewReplayEngine(clock clockwork.Clock, pacing Pacing) *ReplayEngine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReplayEngine{clock: clock, pacing: pacing}
}

// Plan builds the step list for an outcome. The returned result is filled in
// as the steps run.
func (e *ReplayEngine) Plan(scene *Scene, panel ports.OperatorPanel, o domain.DispatchOutcome) ([]Step, *ReplayResult) {
	res := &ReplayResult{
		RunID:    uuid.NewString(),
		Scenario: o.Scenario,
		Decision: o.Decision,
	}

	steps := make([]Step, 0, len(o.Log)+3)
	for i, entry := range o.Log {
		var delay time.Duration
		if i > 0 {
			delay = e.pacing.LogInterval
		}
		steps = append(steps, Step{
			Name:  "log-" + strconv.Itoa(i+1),
			Delay: delay,
			Run: func(ctx context.Context) error {
				return panel.AppendLog(ctx, entry)
			},
		})
	}

	card := o.Card
	steps = append(steps, Step{
		Name:  "decision-card",
		Delay: e.pacing.CardDelay,
		Run: func(ctx context.Context) error {
			return panel.ShowDecisionCard(ctx, card)
		},
	})

	if _, ok := scene.Shipment(strconv.Itoa(o.ImpactedShipmentID)); !ok {
		logrus.WithFields(logrus.Fields{
			"run_id":      res.RunID,
			"scenario":    o.Scenario,
			"shipment_id": o.ImpactedShipmentID,
		}).Warn("impacted shipment not on scene; skipping route changes")
		res.Skipped = true
		return steps, res
	}

	shipmentID := o.ImpactedShipmentID
	steps = append(steps, Step{
		Name: "cancel-original",
		Run: func(ctx context.Context) error {
			sh, err := scene.Cancel(ctx, shipmentID)
			if err != nil {
				return err
			}
			res.Cancelled = &sh
			return nil
		},
	})

	outcome := o.Clone()
	steps = append(steps, Step{
		Name:  "materialize-routes",
		Delay: e.pacing.RouteDelay,
		Run: func(ctx context.Context) error {
			derived, err := scene.Materialize(ctx, outcome)
			if err != nil {
				return err
			}
			res.Derived = derived
			return nil
		},
	})

	return steps, res
}

// Replay plays an outcome against a scene to completion. Once started there is
// no way to abort it; ctx only ends it early when the process or the transport
// goes away.
func (e *ReplayEngine) Replay(
	ctx context.Context,
	scene *Scene,
	panel ports.OperatorPanel,
	o domain.DispatchOutcome,
) (_ ReplayResult, err error) {
	defer obs.Time(ctx, "replay.Run")(&err)

	steps, res := e.Plan(scene, panel, o)

	entry := logrus.WithFields(logrus.Fields{
		"run_id":   res.RunID,
		"scenario": o.Scenario,
		"decision": o.Decision,
		"steps":    len(steps),
	})
	entry.Info("replay started")

	if err := RunSteps(ctx, e.clock, steps); err != nil {
		return *res, fmt.Errorf("replay %s: %w", o.Scenario, err)
	}

	entry.WithField("derived", len(res.Derived)).Info("replay finished")
	return *res, nil
}

// RunSteps executes steps in order, waiting each step's delay on clock.
func RunSteps(ctx context.Context, clock clockwork.Clock, steps []Step) error {
	for i, st := range steps {
		if st.Delay > 0 {
			select {
			case <-clock.After(st.Delay):
			case <-ctx.Done():
				return fmt.Errorf("run steps: step %d (%s): %w", i+1, st.Name, ctx.Err())
			}
		}

		if err := st.Run(ctx); err != nil {
			return fmt.Errorf("run steps: step %d (%s): %w", i+1, st.Name, err)
		}
	}
	return nil
}
