package domain

import (
	"fmt"
	"strconv"
)

type CargoType string

const (
	CargoGeneral  CargoType = "General"
	CargoGrocery  CargoType = "Grocery"
	CargoCombined CargoType = "Combined"
)

type ShipmentStatus string

const (
	StatusScheduled ShipmentStatus = "Scheduled"
	StatusRerouted  ShipmentStatus = "Rerouted"
	StatusResourced ShipmentStatus = "Resourced"
	StatusSplit     ShipmentStatus = "Split"
	StatusCancelled ShipmentStatus = "Cancelled"
)

// CargoDetail counts units per cargo category.
type CargoDetail struct {
	GeneralUnits int `validate:"gte=0"`
	GroceryUnits int `validate:"gte=0"`
}

func (c CargoDetail) Total() int { return c.GeneralUnits + c.GroceryUnits }

// Partition separates the grocery units from the general units.
// No unit is shared between the two halves.
func (c CargoDetail) Partition() (grocery CargoDetail, general CargoDetail) {
	return CargoDetail{GroceryUnits: c.GroceryUnits}, CargoDetail{GeneralUnits: c.GeneralUnits}
}

func (c CargoDetail) String() string {
	return fmt.Sprintf("General: %d units, Grocery: %d units", c.GeneralUnits, c.GroceryUnits)
}

// Shipment moves cargo from a distribution center to a store.
//
// Fixture shipments are identified by ID alone. Records derived during a
// replay (rerouted, resourced or split legs) keep the parent's ID and carry
// a Ref such as "new-g-1001" so they can be drawn next to the original.
type Shipment struct {
	ID                 int `validate:"gt=0"`
	Ref                string
	OriginDCID         int       `validate:"gt=0"`
	DestinationStoreID int       `validate:"gt=0"`
	TruckID            *int      `validate:"omitempty,gt=0"`
	CargoType          CargoType `validate:"oneof=General Grocery Combined"`
	Cargo              CargoDetail
	Status             ShipmentStatus `validate:"oneof=Scheduled Rerouted Resourced Split Cancelled"`
}

// Key identifies the shipment record on a map surface.
func (s Shipment) Key() string {
	if s.Ref != "" {
		return s.Ref
	}
	return strconv.Itoa(s.ID)
}

// Transition moves the shipment to a new status.
// Only a Scheduled shipment may change; there is no way back to Scheduled.
func (s *Shipment) Transition(to ShipmentStatus) error {
	if s.Status == to {
		return fmt.Errorf("shipment transition: shipment %s is already %s", s.Key(), to)
	}
	if s.Status != StatusScheduled {
		return fmt.Errorf("shipment transition: shipment %s cannot move from %s to %s", s.Key(), s.Status, to)
	}
	if to == StatusScheduled {
		return fmt.Errorf("shipment transition: shipment %s cannot return to %s", s.Key(), to)
	}
	s.Status = to
	return nil
}

// Derive builds a replacement shipment record that originates elsewhere.
// The copy is never written back to the fixture tables. A leg sourced from a
// different DC does not inherit the original truck.
func (s Shipment) Derive(ref string, originDCID int, cargoType CargoType, cargo CargoDetail, status ShipmentStatus) Shipment {
	var truckID *int
	if originDCID == s.OriginDCID && s.TruckID != nil {
		id := *s.TruckID
		truckID = &id
	}
	return Shipment{
		ID:                 s.ID,
		Ref:                ref,
		OriginDCID:         originDCID,
		DestinationStoreID: s.DestinationStoreID,
		TruckID:            truckID,
		CargoType:          cargoType,
		Cargo:              cargo,
		Status:             status,
	}
}
