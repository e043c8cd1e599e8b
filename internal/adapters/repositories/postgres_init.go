package repositories

import (
	"context"
	"database/sql"
	"disruption-replay-service/internal/domain"
	"errors"
	"fmt"
)

// Initialize the Postgres fixture schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDCsQuery := `
	CREATE TABLE IF NOT EXISTS distribution_centers (
		dc_id INTEGER PRIMARY KEY,
		dc_name TEXT NOT NULL,
		dc_type TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

	createStoresQuery := `
	CREATE TABLE IF NOT EXISTS stores (
		store_id INTEGER PRIMARY KEY,
		store_name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

	createTrucksQuery := `
	CREATE TABLE IF NOT EXISTS trucks (
		truck_id INTEGER PRIMARY KEY,
		driver_name TEXT NOT NULL,
		status TEXT NOT NULL
	);
	`

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id INTEGER PRIMARY KEY,
		origin_dc_id INTEGER NOT NULL REFERENCES distribution_centers(dc_id),
		destination_store_id INTEGER NOT NULL REFERENCES stores(store_id),
		truck_id INTEGER REFERENCES trucks(truck_id),
		cargo_type TEXT NOT NULL,
		general_units INTEGER NOT NULL DEFAULT 0,
		grocery_units INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);
	`

	createRiskEventsQuery := `
	CREATE TABLE IF NOT EXISTS risk_events (
		risk_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		location_name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		source TEXT NOT NULL,
		scenario_id TEXT NOT NULL,
		affected_shipment_id INTEGER NOT NULL REFERENCES shipments(shipment_id)
	);
	`

	statements := []string{
		createDCsQuery,
		createStoresQuery,
		createTrucksQuery,
		createShipmentsQuery,
		createRiskEventsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type seedInsert struct {
	table string
	query string
	rows  [][]any
}

// Populate the fixture tables. Existing rows with the same id are replaced.
func SeedFixtures(ctx context.Context, db *sql.DB, f domain.Fixtures) error {
	if db == nil {
		return errors.New("seed fixtures: DB is nil")
	}

	inserts := []seedInsert{
		{
			table: "distribution_centers",
			query: `
			INSERT INTO distribution_centers (dc_id, dc_name, dc_type, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (dc_id) DO UPDATE SET
				dc_name = EXCLUDED.dc_name,
				dc_type = EXCLUDED.dc_type,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude;
			`,
		},
		{
			table: "stores",
			query: `
			INSERT INTO stores (store_id, store_name, latitude, longitude)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id) DO UPDATE SET
				store_name = EXCLUDED.store_name,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude;
			`,
		},
		{
			table: "trucks",
			query: `
			INSERT INTO trucks (truck_id, driver_name, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (truck_id) DO UPDATE SET
				driver_name = EXCLUDED.driver_name,
				status = EXCLUDED.status;
			`,
		},
		{
			table: "shipments",
			query: `
			INSERT INTO shipments (
				shipment_id, origin_dc_id, destination_store_id, truck_id,
				cargo_type, general_units, grocery_units, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (shipment_id) DO UPDATE SET
				origin_dc_id = EXCLUDED.origin_dc_id,
				destination_store_id = EXCLUDED.destination_store_id,
				truck_id = EXCLUDED.truck_id,
				cargo_type = EXCLUDED.cargo_type,
				general_units = EXCLUDED.general_units,
				grocery_units = EXCLUDED.grocery_units,
				status = EXCLUDED.status;
			`,
		},
		{
			table: "risk_events",
			query: `
			INSERT INTO risk_events (
				risk_id, title, location_name, latitude, longitude,
				source, scenario_id, affected_shipment_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (risk_id) DO UPDATE SET
				title = EXCLUDED.title,
				location_name = EXCLUDED.location_name,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				source = EXCLUDED.source,
				scenario_id = EXCLUDED.scenario_id,
				affected_shipment_id = EXCLUDED.affected_shipment_id;
			`,
		},
	}

	for _, dc := range f.DCs {
		inserts[0].rows = append(inserts[0].rows, []any{dc.ID, dc.Name, string(dc.Type), dc.Location.Lat, dc.Location.Lon})
	}
	for _, st := range f.Stores {
		inserts[1].rows = append(inserts[1].rows, []any{st.ID, st.Name, st.Location.Lat, st.Location.Lon})
	}
	for _, tr := range f.Trucks {
		inserts[2].rows = append(inserts[2].rows, []any{tr.ID, tr.Driver, string(tr.Status)})
	}
	for _, sh := range f.Shipments {
		var truckID sql.NullInt64
		if sh.TruckID != nil {
			truckID = sql.NullInt64{Int64: int64(*sh.TruckID), Valid: true}
		}
		inserts[3].rows = append(inserts[3].rows, []any{
			sh.ID, sh.OriginDCID, sh.DestinationStoreID, truckID,
			string(sh.CargoType), sh.Cargo.GeneralUnits, sh.Cargo.GroceryUnits, string(sh.Status),
		})
	}
	for _, ev := range f.RiskEvents {
		inserts[4].rows = append(inserts[4].rows, []any{
			ev.ID, ev.Title, ev.Location.Name, ev.Location.Coordinates.Lat, ev.Location.Coordinates.Lon,
			ev.Source, ev.ScenarioKey, ev.AffectedShipmentID,
		})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed fixtures: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Parents before children so foreign keys resolve.
	for _, ins := range inserts {
		if err := execRows(ctx, tx, ins); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fixtures: commit tx: %w", err)
	}

	return nil
}

func execRows(ctx context.Context, tx *sql.Tx, ins seedInsert) error {
	stmt, err := tx.PrepareContext(ctx, ins.query)
	if err != nil {
		return fmt.Errorf("seed fixtures: prepare insert %s: %w", ins.table, err)
	}
	defer stmt.Close()

	for _, row := range ins.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("seed fixtures: insert %s id=%v: %w", ins.table, row[0], err)
		}
	}
	return nil
}
