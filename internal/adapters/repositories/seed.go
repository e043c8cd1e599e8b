package repositories

import (
	"bytes"
	"disruption-replay-service/internal/domain"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed seed/fixtures.json
var defaultSeed []byte

type dcSeed struct {
	DCID      int     `json:"dc_id"`
	DCName    string  `json:"dc_name"`
	DCType    string  `json:"dc_type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type storeSeed struct {
	StoreID   int     `json:"store_id"`
	StoreName string  `json:"store_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type truckSeed struct {
	TruckID    int    `json:"truck_id"`
	DriverName string `json:"driver_name"`
	Status     string `json:"status"`
}

type cargoSeed struct {
	GeneralUnits int `json:"general_units"`
	GroceryUnits int `json:"grocery_units"`
}

type shipmentSeed struct {
	ShipmentID         int       `json:"shipment_id"`
	OriginDCID         int       `json:"origin_dc_id"`
	DestinationStoreID int       `json:"destination_store_id"`
	TruckID            *int      `json:"truck_id"`
	CargoType          string    `json:"cargo_type"`
	CargoDetails       cargoSeed `json:"cargo_details"`
	Status             string    `json:"status"`
}

type locationSeed struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type riskEventSeed struct {
	ID                 int          `json:"id"`
	Title              string       `json:"title"`
	Location           locationSeed `json:"location"`
	Source             string       `json:"source"`
	ScenarioID         string       `json:"scenarioId"`
	AffectedShipmentID int          `json:"affected_shipment_id"`
}

// FixtureSeed is the JSON layout of a fixture file.
type FixtureSeed struct {
	DCs        []dcSeed        `json:"dcs"`
	Stores     []storeSeed     `json:"stores"`
	Trucks     []truckSeed     `json:"trucks"`
	Shipments  []shipmentSeed  `json:"shipments"`
	RiskEvents []riskEventSeed `json:"risk_events"`
}

// DefaultSeed returns the fixture file compiled into the binary.
func DefaultSeed() []byte {
	return append([]byte(nil), defaultSeed...)
}

// ReadSeed returns the fixture file at path, or the compiled-in one when path is empty.
func ReadSeed(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: read %q: %w", path, err)
	}
	return b, nil
}

// DecodeSeed parses a fixture file. Unknown fields and trailing data are rejected.
func DecodeSeed(b []byte) (domain.Fixtures, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var doc FixtureSeed
	if err := dec.Decode(&doc); err != nil {
		return domain.Fixtures{}, fmt.Errorf("decode seed: parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Fixtures{}, errors.New("decode seed: trailing data after fixture document")
	}

	return doc.toFixtures(), nil
}

func (doc FixtureSeed) toFixtures() domain.Fixtures {
	f := domain.Fixtures{
		DCs:        make([]domain.DistributionCenter, 0, len(doc.DCs)),
		Stores:     make([]domain.Store, 0, len(doc.Stores)),
		Trucks:     make([]domain.Truck, 0, len(doc.Trucks)),
		Shipments:  make([]domain.Shipment, 0, len(doc.Shipments)),
		RiskEvents: make([]domain.RiskEvent, 0, len(doc.RiskEvents)),
	}

	for _, dc := range doc.DCs {
		f.DCs = append(f.DCs, domain.DistributionCenter{
			ID:       dc.DCID,
			Name:     strings.TrimSpace(dc.DCName),
			Type:     domain.DCType(dc.DCType),
			Location: domain.Coordinates{Lon: dc.Longitude, Lat: dc.Latitude},
		})
	}
	for _, st := range doc.Stores {
		f.Stores = append(f.Stores, domain.Store{
			ID:       st.StoreID,
			Name:     strings.TrimSpace(st.StoreName),
			Location: domain.Coordinates{Lon: st.Longitude, Lat: st.Latitude},
		})
	}
	for _, tr := range doc.Trucks {
		f.Trucks = append(f.Trucks, domain.Truck{
			ID:     tr.TruckID,
			Driver: strings.TrimSpace(tr.DriverName),
			Status: domain.TruckStatus(tr.Status),
		})
	}
	for _, sh := range doc.Shipments {
		f.Shipments = append(f.Shipments, domain.Shipment{
			ID:                 sh.ShipmentID,
			OriginDCID:         sh.OriginDCID,
			DestinationStoreID: sh.DestinationStoreID,
			TruckID:            sh.TruckID,
			CargoType:          domain.CargoType(sh.CargoType),
			Cargo: domain.CargoDetail{
				GeneralUnits: sh.CargoDetails.GeneralUnits,
				GroceryUnits: sh.CargoDetails.GroceryUnits,
			},
			Status: domain.ShipmentStatus(sh.Status),
		})
	}
	for _, ev := range doc.RiskEvents {
		f.RiskEvents = append(f.RiskEvents, domain.RiskEvent{
			ID:    ev.ID,
			Title: ev.Title,
			Location: domain.Location{
				Name:        ev.Location.Name,
				Coordinates: domain.Coordinates{Lon: ev.Location.Longitude, Lat: ev.Location.Latitude},
			},
			Source:             ev.Source,
			ScenarioKey:        ev.ScenarioID,
			AffectedShipmentID: ev.AffectedShipmentID,
		})
	}
	return f
}
