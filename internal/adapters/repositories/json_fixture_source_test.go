package repositories

import (
	"context"
	"disruption-replay-service/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFixtureSource_DefaultSeed(t *testing.T) {
	// call the method under test
	f, err := NewJSONFixtureSource("").LoadFixtures(context.Background())
	require.NoError(t, err)

	// verify behavior
	assert.Len(t, f.DCs, 4)
	assert.Len(t, f.Stores, 3)
	assert.Len(t, f.Trucks, 3)
	assert.Len(t, f.Shipments, 3)
	assert.Len(t, f.RiskEvents, 3)

	store, err := domain.NewFixtureStore(f, []string{"reroute", "resource", "split"})
	require.NoError(t, err)

	sh, ok := store.Shipment(1001)
	require.True(t, ok)
	assert.Equal(t, 2, sh.OriginDCID)
	assert.Equal(t, 501, sh.DestinationStoreID)
	assert.Equal(t, domain.CargoDetail{GeneralUnits: 30, GroceryUnits: 15}, sh.Cargo)
	require.NotNil(t, sh.TruckID)
	assert.Equal(t, 7001, *sh.TruckID)

	keys := make([]string, 0, len(f.RiskEvents))
	for _, ev := range f.RiskEvents {
		keys = append(keys, ev.ScenarioKey)
	}
	assert.Equal(t, []string{"split", "resource", "reroute"}, keys)
}

func TestJSONFixtureSource_Path(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads override file", func(t *testing.T) {
		// build test data
		path := filepath.Join(dir, "one.json")
		doc := `{
			"dcs": [{"dc_id": 9, "dc_name": "Test DC", "dc_type": "General", "latitude": 1, "longitude": 2}],
			"stores": [], "trucks": [], "shipments": [], "risk_events": []
		}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		// call the method under test
		f, err := NewJSONFixtureSource(path).LoadFixtures(context.Background())

		// verify behavior
		require.NoError(t, err)
		require.Len(t, f.DCs, 1)
		assert.Equal(t, domain.Coordinates{Lon: 2, Lat: 1}, f.DCs[0].Location)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewJSONFixtureSource(filepath.Join(dir, "nope.json")).LoadFixtures(context.Background())
		assert.Error(t, err)
	})
}

func TestDecodeSeed_Strict(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", `{"dcs": [], "warehouses": []}`},
		{"trailing data", `{"dcs": []} {"dcs": []}`},
		{"malformed", `{"dcs": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSeed([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDefaultSeedIsACopy(t *testing.T) {
	b := DefaultSeed()
	b[0] = 'x'
	assert.NotEqual(t, byte('x'), DefaultSeed()[0])
}
