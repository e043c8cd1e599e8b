package domain

// DCType classifies which cargo a distribution center can ship.
type DCType string

const (
	DCTypeGeneral  DCType = "General"
	DCTypeGrocery  DCType = "Grocery"
	DCTypeCombined DCType = "Combined"
)

// A fixed supply node.
type DistributionCenter struct {
	ID       int    `validate:"gt=0"`
	Name     string `validate:"required"`
	Type     DCType `validate:"oneof=General Grocery Combined"`
	Location Coordinates
}

// A fixed delivery destination.
type Store struct {
	ID       int    `validate:"gt=0"`
	Name     string `validate:"required"`
	Location Coordinates
}

type TruckStatus string

const (
	TruckAvailable TruckStatus = "Available"
	TruckInTransit TruckStatus = "In Transit"
	TruckLoading   TruckStatus = "Loading"
)

// Truck is a delivery vehicle with an assigned driver.
type Truck struct {
	ID     int         `validate:"gt=0"`
	Driver string      `validate:"required"`
	Status TruckStatus `validate:"oneof=Available 'In Transit' Loading"`
}
