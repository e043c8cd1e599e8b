package services

import (
	"context"
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) (*Scene, *mapsurface.Recorder, *domain.FixtureStore) {
	t.Helper()

	store := newTestStore(t)
	rec := mapsurface.NewRecorder(nil, nil)
	scene := NewScene(store, rec)
	require.NoError(t, scene.DrawInitial(context.Background()))
	return scene, rec, store
}

func TestSceneDrawInitial(t *testing.T) {
	_, rec, _ := newTestScene(t)

	markers := rec.Markers()
	assert.Len(t, markers, 7)
	assert.Equal(t, ColorDC, markers["dc-2"].Color)
	assert.Equal(t, "Macon, GA Combined", markers["dc-2"].PopupText)
	assert.Equal(t, ColorStore, markers["store-501"].Color)

	features := rec.Features()
	require.Len(t, features, 3)

	f := features["route-1001"]
	assert.Equal(t, "1001", f.ShipmentKey)
	assert.Equal(t, "Macon, GA Combined", f.OriginName)
	assert.Equal(t, "Savannah, GA Store", f.DestinationName)
	assert.Equal(t, domain.CargoCombined, f.Cargo)
	assert.Equal(t, "Scheduled", f.Status)
	assert.Equal(t, "General: 30 units, Grocery: 15 units", f.Details)
	assert.Equal(t, domain.Paint{Color: ColorScheduled, Width: 3, Dashed: true}, f.Paint)
	assert.Equal(t, []domain.Coordinates{{Lon: -83.63, Lat: 32.84}, {Lon: -81.09, Lat: 32.08}}, f.Path)
}

func TestSceneDrawInitialIsIdempotent(t *testing.T) {
	scene, rec, _ := newTestScene(t)
	before := len(rec.Ops())

	require.NoError(t, scene.DrawInitial(context.Background()))

	added := 0
	for _, op := range rec.Ops()[before:] {
		if op.Kind == "add_line" {
			added++
		}
	}
	assert.Zero(t, added, "lines already drawn are not added again")
}

func TestSceneRevealRisk(t *testing.T) {
	scene, rec, store := newTestScene(t)

	ev, ok := store.RiskEvent(1)
	require.True(t, ok)
	require.NoError(t, scene.RevealRisk(context.Background(), ev))

	m, ok := rec.Markers()["risk-1"]
	require.True(t, ok)
	assert.Equal(t, ColorRisk, m.Color)

	popups := rec.Popups()
	require.Len(t, popups, 1)
	assert.Equal(t, ev.Title, popups[0].Title)
	assert.Equal(t, []string{"Walmart DC, Macon, GA", "Source: Associated Press"}, popups[0].Lines)
}

func TestSceneCancel(t *testing.T) {
	ctx := context.Background()
	scene, rec, store := newTestScene(t)

	// call the method under test
	sh, err := scene.Cancel(ctx, 1003)
	require.NoError(t, err)

	// verify behavior
	assert.Equal(t, domain.StatusCancelled, sh.Status)

	f, ok := rec.Feature("route-1003")
	require.True(t, ok)
	assert.Equal(t, "Cancelled", f.Status)
	assert.Equal(t, domain.Paint{Color: ColorCancelled, Width: 3, Dashed: true}, f.Paint)

	_, err = scene.Cancel(ctx, 1003)
	assert.Error(t, err, "cancellation is one-way")

	_, err = scene.Cancel(ctx, 4242)
	assert.True(t, errors.Is(err, ErrShipmentNotFound))

	fixture, _ := store.Shipment(1003)
	assert.Equal(t, domain.StatusScheduled, fixture.Status, "fixtures are never mutated")
}

func TestSceneMaterialize(t *testing.T) {
	d := newTestDispatcher(t)

	t.Run("reroute keeps origin and truck", func(t *testing.T) {
		scene, rec, _ := newTestScene(t)

		derived, err := scene.Materialize(context.Background(), d.Dispatch(ScenarioReroute))
		require.NoError(t, err)
		require.Len(t, derived, 1)

		sh := derived[0]
		assert.Equal(t, "new-r-1002", sh.Ref)
		assert.Equal(t, 4, sh.OriginDCID)
		assert.Equal(t, 503, sh.DestinationStoreID)
		assert.Equal(t, domain.StatusRerouted, sh.Status)
		require.NotNil(t, sh.TruckID)
		assert.Equal(t, 7002, *sh.TruckID)

		f, ok := rec.Feature("route-new-r-1002")
		require.True(t, ok)
		assert.Equal(t, domain.Paint{Color: ColorPrimary, Width: 3}, f.Paint)
	})

	t.Run("resource comes from the new dc", func(t *testing.T) {
		scene, rec, _ := newTestScene(t)
		o := d.Dispatch(ScenarioResource)

		derived, err := scene.Materialize(context.Background(), o)
		require.NoError(t, err)
		require.Len(t, derived, 1)

		sh := derived[0]
		assert.Equal(t, "new-1003", sh.Ref)
		assert.Equal(t, o.Details.NewDC, sh.OriginDCID)
		assert.NotEqual(t, o.Details.OriginalDC, sh.OriginDCID)
		assert.Equal(t, domain.CargoDetail{GeneralUnits: 100}, sh.Cargo)
		assert.Equal(t, domain.StatusResourced, sh.Status)
		assert.Nil(t, sh.TruckID)

		f, ok := rec.Feature("route-new-1003")
		require.True(t, ok)
		assert.Equal(t, "Atlanta, GA GM", f.OriginName)
		assert.Equal(t, "Resourced", f.Status)
	})

	t.Run("split partitions the cargo", func(t *testing.T) {
		scene, rec, store := newTestScene(t)
		o := d.Dispatch(ScenarioSplit)

		derived, err := scene.Materialize(context.Background(), o)
		require.NoError(t, err)
		require.Len(t, derived, 2)

		grocery, general := derived[0], derived[1]
		assert.Equal(t, "new-g-1001", grocery.Ref)
		assert.Equal(t, o.Details.NewGroceryDC, grocery.OriginDCID)
		assert.Equal(t, domain.CargoDetail{GroceryUnits: 15}, grocery.Cargo)
		assert.Equal(t, domain.CargoGrocery, grocery.CargoType)

		assert.Equal(t, "new-m-1001", general.Ref)
		assert.Equal(t, o.Details.NewGeneralDC, general.OriginDCID)
		assert.Equal(t, domain.CargoDetail{GeneralUnits: 30}, general.Cargo)
		assert.Equal(t, domain.CargoGeneral, general.CargoType)

		orig, _ := store.Shipment(1001)
		assert.Equal(t, orig.Cargo.Total(), grocery.Cargo.Total()+general.Cargo.Total())

		g, _ := rec.Feature("route-new-g-1001")
		m, _ := rec.Feature("route-new-m-1001")
		assert.Equal(t, LabelSplitGrocery, g.Status)
		assert.Equal(t, ColorPrimary, g.Paint.Color)
		assert.Equal(t, LabelSplitGeneral, m.Status)
		assert.Equal(t, ColorSecondary, m.Paint.Color)

		assert.Len(t, scene.Shipments(), 5)
		_, ok := scene.Shipment("new-g-1001")
		assert.True(t, ok)
		_, ok = store.Shipment(0)
		assert.False(t, ok)
	})

	t.Run("unknown shipment", func(t *testing.T) {
		scene, _, _ := newTestScene(t)
		o := d.Dispatch(ScenarioSplit)
		o.ImpactedShipmentID = 4242

		_, err := scene.Materialize(context.Background(), o)
		assert.True(t, errors.Is(err, ErrShipmentNotFound))
	})
}

func TestSceneInspectRoute(t *testing.T) {
	scene, rec, _ := newTestScene(t)

	require.NoError(t, scene.InspectRoute(context.Background(), "1002"))

	popups := rec.Popups()
	require.Len(t, popups, 1)
	assert.Equal(t, "Shipment #1002", popups[0].Title)
	assert.Contains(t, popups[0].Lines, "From: Orlando, FL Grocery")
	assert.Contains(t, popups[0].Lines, "Status: Scheduled")
	assert.InDelta(t, (28.53+30.33)/2, popups[0].Position.Lat, 1e-9)

	err := scene.InspectRoute(context.Background(), "new-g-1001")
	assert.True(t, errors.Is(err, ErrShipmentNotFound), "not drawn yet")
}
