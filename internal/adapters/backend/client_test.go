package backend

import (
	"context"
	"disruption-replay-service/internal/adapters/lock"
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/adapters/repositories"
	"disruption-replay-service/internal/api"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/services"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	dispatcher, err := services.NewDispatcher()
	require.NoError(t, err)

	f, err := repositories.NewJSONFixtureSource("").LoadFixtures(context.Background())
	require.NoError(t, err)

	store, err := domain.NewFixtureStore(f, dispatcher.Scenarios())
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Store:      store,
		Dispatcher: dispatcher,
		Engine:     services.NewReplayEngine(nil, services.Pacing{}),
		Gate:       lock.NewLocalSingleFlight(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoadFixtures(t *testing.T) {
	srv := newBackend(t)
	client, err := NewClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)

	f, err := client.LoadFixtures(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.DCs, 4)
	assert.Len(t, f.Stores, 3)
	assert.Len(t, f.Shipments, 3)
	assert.Len(t, f.RiskEvents, 3)
	assert.Empty(t, f.Trucks)
}

func TestClient_TriggerDisruption(t *testing.T) {
	srv := newBackend(t)
	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	o, err := client.TriggerDisruption(context.Background(), "resource")
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionResource, o.Decision)
	assert.Equal(t, 1003, o.ImpactedShipmentID)
	assert.Equal(t, 1, o.Details.NewDC)
	assert.Equal(t, 3, o.Details.OriginalDC)
	assert.Len(t, o.Log, 4)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.RiskFeed(context.Background())
	require.Error(t, err)

	var se *HTTPStatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	assert.Error(t, err)
}

// Full client flow: fixtures from the backend, risk feed reveal, selecting the
// split risk, then the replay against a client-side scene.
func TestEndToEnd_SelectSplitRisk(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	// build test data
	f, err := client.LoadFixtures(ctx)
	require.NoError(t, err)

	store, err := domain.NewFixtureStore(f, []string{services.ScenarioReroute, services.ScenarioResource, services.ScenarioSplit})
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	surface := mapsurface.NewRecorder(clock, nil)
	scene := services.NewScene(store, surface)
	require.NoError(t, scene.DrawInitial(ctx))

	feed := services.NewRiskFeed(store.RiskEvents(), lock.NewLocalSingleFlight(), clock, 4*time.Second)

	ran := make(chan error, 1)
	go func() { ran <- feed.Run(ctx, scene.RevealRisk) }()
	for i := 0; i < 2; i++ {
		clock.BlockUntil(1)
		clock.Advance(4 * time.Second)
	}
	require.NoError(t, <-ran)
	require.Len(t, feed.Revealed(), 3)

	engine := services.NewReplayEngine(clock, services.Pacing{})

	// call the method under test
	var result services.ReplayResult
	err = feed.Select(ctx, 1, func(ctx context.Context, ev domain.RiskEvent) error {
		o, err := client.TriggerDisruption(ctx, ev.ScenarioKey)
		if err != nil {
			return err
		}
		result, err = engine.Replay(ctx, scene, surface, o)
		return err
	})
	require.NoError(t, err)

	// verify behavior
	orig, ok := scene.Shipment("1001")
	require.True(t, ok)
	assert.Equal(t, domain.StatusCancelled, orig.Status)

	cancelled, ok := surface.Feature("route-1001")
	require.True(t, ok)
	assert.Equal(t, services.ColorCancelled, cancelled.Paint.Color)
	assert.True(t, cancelled.Paint.Dashed)

	grocery, ok := surface.Feature("route-new-g-1001")
	require.True(t, ok)
	assert.Equal(t, services.LabelSplitGrocery, grocery.Status)
	assert.Equal(t, "Orlando, FL Grocery", grocery.OriginName)

	general, ok := surface.Feature("route-new-m-1001")
	require.True(t, ok)
	assert.Equal(t, services.LabelSplitGeneral, general.Status)
	assert.Equal(t, "Atlanta, GA GM", general.OriginName)

	require.Len(t, result.Derived, 2)
	assert.Equal(t, 15, result.Derived[0].Cargo.Total())
	assert.Equal(t, 30, result.Derived[1].Cargo.Total())

	// The fixture tables are untouched.
	fixture, _ := store.Shipment(1001)
	assert.Equal(t, domain.StatusScheduled, fixture.Status)

	state, _ := feed.State(1)
	assert.Equal(t, domain.RiskSelected, state)
	assert.Len(t, surface.Logs(), 4)
	assert.Len(t, surface.Popups(), 3)
}

func TestClient_SimulateRisk(t *testing.T) {
	srv := newBackend(t)
	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	res, err := client.SimulateRisk(context.Background(), 1003)
	require.NoError(t, err)
	assert.Equal(t, "Standard", res.Priority)

	_, err = client.SimulateRisk(context.Background(), 9999)
	var se *HTTPStatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}
