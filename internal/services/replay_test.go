package services

import (
	"context"
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/domain"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replayRun struct {
	res ReplayResult
	err error
}

// startReplay runs a replay on its own goroutine and returns its result channel.
func startReplay(ctx context.Context, e *ReplayEngine, scene *Scene, rec *mapsurface.Recorder, o domain.DispatchOutcome) <-chan replayRun {
	out := make(chan replayRun, 1)
	go func() {
		res, err := e.Replay(ctx, scene, rec, o)
		out <- replayRun{res: res, err: err}
	}()
	return out
}

// advance lets each pending delay elapse in turn.
func advance(clock clockwork.FakeClock, delays ...time.Duration) {
	for _, d := range delays {
		clock.BlockUntil(1)
		clock.Advance(d)
	}
}

func opsOfKind(ops []mapsurface.Op, kinds ...string) []mapsurface.Op {
	var out []mapsurface.Op
	for _, op := range ops {
		for _, k := range kinds {
			if op.Kind == k {
				out = append(out, op)
			}
		}
	}
	return out
}

func TestReplayPlan(t *testing.T) {
	scene, rec, _ := newTestScene(t)
	e := NewReplayEngine(clockwork.NewFakeClock(), DefaultPacing())

	steps, res := e.Plan(scene, rec, newTestDispatcher(t).Dispatch(ScenarioSplit))

	names := make([]string, 0, len(steps))
	delays := make([]time.Duration, 0, len(steps))
	for _, st := range steps {
		names = append(names, st.Name)
		delays = append(delays, st.Delay)
	}

	assert.Equal(t, []string{"log-1", "log-2", "log-3", "log-4", "decision-card", "cancel-original", "materialize-routes"}, names)
	assert.Equal(t, []time.Duration{
		0,
		1500 * time.Millisecond,
		1500 * time.Millisecond,
		1500 * time.Millisecond,
		1000 * time.Millisecond,
		0,
		2000 * time.Millisecond,
	}, delays)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.Skipped)
}

func TestReplaySplitTimeline(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)

	store := newTestStore(t)
	rec := mapsurface.NewRecorder(clock, nil)
	scene := NewScene(store, rec)
	require.NoError(t, scene.DrawInitial(ctx))

	e := NewReplayEngine(clock, DefaultPacing())
	done := startReplay(ctx, e, scene, rec, newTestDispatcher(t).Dispatch(ScenarioSplit))

	// call the method under test
	advance(clock,
		1500*time.Millisecond, 1500*time.Millisecond, 1500*time.Millisecond,
		1000*time.Millisecond,
		2000*time.Millisecond,
	)
	run := <-done
	require.NoError(t, run.err)

	// verify behavior
	at := func(op mapsurface.Op) time.Duration { return op.At.Sub(start) }

	logs := opsOfKind(rec.Ops(), "log")
	require.Len(t, logs, 4)
	assert.Equal(t, time.Duration(0), at(logs[0]))
	assert.Equal(t, 4500*time.Millisecond, at(logs[3]))

	cards := opsOfKind(rec.Ops(), "decision_card")
	require.Len(t, cards, 1)
	assert.Equal(t, 5500*time.Millisecond, at(cards[0]))

	cancels := opsOfKind(rec.Ops(), "update_line", "set_paint")
	require.Len(t, cancels, 2)
	assert.Equal(t, 5500*time.Millisecond, at(cancels[0]))

	added := opsOfKind(rec.Ops(), "add_line")
	require.Len(t, added, 5)
	assert.Equal(t, 7500*time.Millisecond, at(added[3]))
	assert.Equal(t, "route-new-g-1001", added[3].Target)
	assert.Equal(t, "route-new-m-1001", added[4].Target)

	require.NotNil(t, run.res.Cancelled)
	assert.Equal(t, domain.StatusCancelled, run.res.Cancelled.Status)
	assert.Len(t, run.res.Derived, 2)
	assert.Equal(t, domain.DecisionSplit, run.res.Decision)
}

func TestReplayResourceNeverFromOriginalDC(t *testing.T) {
	ctx := context.Background()
	scene, rec, _ := newTestScene(t)
	o := newTestDispatcher(t).Dispatch(ScenarioResource)

	res, err := NewReplayEngine(nil, Pacing{}).Replay(ctx, scene, rec, o)
	require.NoError(t, err)

	require.Len(t, res.Derived, 1)
	assert.Equal(t, o.Details.NewDC, res.Derived[0].OriginDCID)
	assert.NotEqual(t, o.Details.OriginalDC, res.Derived[0].OriginDCID)

	card, ok := rec.Card()
	require.True(t, ok)
	assert.Equal(t, o.Card, card)
}

func TestReplayMissingShipmentSkipsRoutes(t *testing.T) {
	ctx := context.Background()
	scene, rec, _ := newTestScene(t)

	o := newTestDispatcher(t).Dispatch(ScenarioReroute)
	o.ImpactedShipmentID = 4242

	res, err := NewReplayEngine(nil, Pacing{}).Replay(ctx, scene, rec, o)
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Nil(t, res.Cancelled)
	assert.Empty(t, res.Derived)
	assert.Len(t, rec.Logs(), 3)
	_, ok := rec.Card()
	assert.True(t, ok)
	assert.Len(t, rec.Features(), 3, "no line is added or changed")
}

func TestReplayStopsOnContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	scene, rec, _ := newTestScene(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := startReplay(ctx, NewReplayEngine(clock, DefaultPacing()), scene, rec, newTestDispatcher(t).Dispatch(ScenarioSplit))

	clock.BlockUntil(1)
	cancel()

	run := <-done
	require.Error(t, run.err)
	assert.True(t, errors.Is(run.err, context.Canceled))
	assert.Len(t, rec.Logs(), 1)
}

func TestReplayFailureLoggedOnce(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })

	clock := clockwork.NewFakeClock()
	scene, rec, _ := newTestScene(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := startReplay(ctx, NewReplayEngine(clock, DefaultPacing()), scene, rec, newTestDispatcher(t).Dispatch(ScenarioReroute))

	clock.BlockUntil(1)
	cancel()
	require.Error(t, (<-done).err)

	var failures int
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "a failed replay is reported by exactly one log entry")
}

func TestRunStepsStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string

	steps := []Step{
		{Name: "a", Run: func(context.Context) error { ran = append(ran, "a"); return nil }},
		{Name: "b", Run: func(context.Context) error { ran = append(ran, "b"); return boom }},
		{Name: "c", Run: func(context.Context) error { ran = append(ran, "c"); return nil }},
	}

	err := RunSteps(context.Background(), clockwork.NewFakeClock(), steps)

	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"a", "b"}, ran)
}
