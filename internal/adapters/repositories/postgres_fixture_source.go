package repositories

import (
	"context"
	"database/sql"
	"disruption-replay-service/internal/domain"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the FixtureSource port.
type PostgresFixtureSource struct{ DB *sql.DB }

func NewPostgresFixtureSource(db *sql.DB) *PostgresFixtureSource {
	return &PostgresFixtureSource{DB: db}
}

// Read every fixture table, ordered by id.
func (s *PostgresFixtureSource) LoadFixtures(ctx context.Context) (domain.Fixtures, error) {
	if s.DB == nil {
		return domain.Fixtures{}, errors.New("postgres fixture source: DB is nil")
	}

	var f domain.Fixtures
	var err error

	if f.DCs, err = s.listDCs(ctx); err != nil {
		return domain.Fixtures{}, err
	}
	if f.Stores, err = s.listStores(ctx); err != nil {
		return domain.Fixtures{}, err
	}
	if f.Trucks, err = s.listTrucks(ctx); err != nil {
		return domain.Fixtures{}, err
	}
	if f.Shipments, err = s.listShipments(ctx); err != nil {
		return domain.Fixtures{}, err
	}
	if f.RiskEvents, err = s.listRiskEvents(ctx); err != nil {
		return domain.Fixtures{}, err
	}

	return f, nil
}

// queryRows runs query and calls scan once per row.
func queryRows(ctx context.Context, db *sql.DB, op, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%s: scan row: %w", op, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return nil
}

func (s *PostgresFixtureSource) listDCs(ctx context.Context) ([]domain.DistributionCenter, error) {
	query := `
	SELECT dc_id, dc_name, dc_type, latitude, longitude
	FROM distribution_centers
	ORDER BY dc_id;
	`
	out := make([]domain.DistributionCenter, 0, 8)
	err := queryRows(ctx, s.DB, "list dcs", query, func(rows *sql.Rows) error {
		var dc domain.DistributionCenter
		var dcType string
		if err := rows.Scan(&dc.ID, &dc.Name, &dcType, &dc.Location.Lat, &dc.Location.Lon); err != nil {
			return err
		}
		dc.Type = domain.DCType(dcType)
		out = append(out, dc)
		return nil
	})
	return out, err
}

func (s *PostgresFixtureSource) listStores(ctx context.Context) ([]domain.Store, error) {
	query := `
	SELECT store_id, store_name, latitude, longitude
	FROM stores
	ORDER BY store_id;
	`
	out := make([]domain.Store, 0, 8)
	err := queryRows(ctx, s.DB, "list stores", query, func(rows *sql.Rows) error {
		var st domain.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Location.Lat, &st.Location.Lon); err != nil {
			return err
		}
		out = append(out, st)
		return nil
	})
	return out, err
}

func (s *PostgresFixtureSource) listTrucks(ctx context.Context) ([]domain.Truck, error) {
	query := `
	SELECT truck_id, driver_name, status
	FROM trucks
	ORDER BY truck_id;
	`
	out := make([]domain.Truck, 0, 8)
	err := queryRows(ctx, s.DB, "list trucks", query, func(rows *sql.Rows) error {
		var tr domain.Truck
		var status string
		if err := rows.Scan(&tr.ID, &tr.Driver, &status); err != nil {
			return err
		}
		tr.Status = domain.TruckStatus(status)
		out = append(out, tr)
		return nil
	})
	return out, err
}

func (s *PostgresFixtureSource) listShipments(ctx context.Context) ([]domain.Shipment, error) {
	query := `
	SELECT
		shipment_id,
		origin_dc_id,
		destination_store_id,
		truck_id,
		cargo_type,
		general_units,
		grocery_units,
		status
	FROM shipments
	ORDER BY shipment_id;
	`
	out := make([]domain.Shipment, 0, 8)
	err := queryRows(ctx, s.DB, "list shipments", query, func(rows *sql.Rows) error {
		var sh domain.Shipment
		var truckID sql.NullInt64
		var cargoType, status string
		err := rows.Scan(
			&sh.ID, &sh.OriginDCID, &sh.DestinationStoreID, &truckID,
			&cargoType, &sh.Cargo.GeneralUnits, &sh.Cargo.GroceryUnits, &status,
		)
		if err != nil {
			return err
		}
		if truckID.Valid {
			id := int(truckID.Int64)
			sh.TruckID = &id
		}
		sh.CargoType = domain.CargoType(cargoType)
		sh.Status = domain.ShipmentStatus(status)
		out = append(out, sh)
		return nil
	})
	return out, err
}

func (s *PostgresFixtureSource) listRiskEvents(ctx context.Context) ([]domain.RiskEvent, error) {
	query := `
	SELECT
		risk_id,
		title,
		location_name,
		latitude,
		longitude,
		source,
		scenario_id,
		affected_shipment_id
	FROM risk_events
	ORDER BY risk_id;
	`
	out := make([]domain.RiskEvent, 0, 8)
	err := queryRows(ctx, s.DB, "list risk events", query, func(rows *sql.Rows) error {
		var ev domain.RiskEvent
		err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Location.Name,
			&ev.Location.Coordinates.Lat, &ev.Location.Coordinates.Lon,
			&ev.Source, &ev.ScenarioKey, &ev.AffectedShipmentID,
		)
		if err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	return out, err
}
