package dto

type DCResponse struct {
	DCID      int     `json:"dc_id"`
	DCName    string  `json:"dc_name"`
	DCType    string  `json:"dc_type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StoreResponse struct {
	StoreID   int     `json:"store_id"`
	StoreName string  `json:"store_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TruckResponse struct {
	TruckID    int    `json:"truck_id"`
	DriverName string `json:"driver_name"`
	Status     string `json:"status"`
}

type CargoDetailsResponse struct {
	GeneralUnits int `json:"general_units,omitempty"`
	GroceryUnits int `json:"grocery_units,omitempty"`
}

type ShipmentResponse struct {
	ShipmentID         int                  `json:"shipment_id"`
	Ref                string               `json:"ref,omitempty"`
	OriginDCID         int                  `json:"origin_dc_id"`
	DestinationStoreID int                  `json:"destination_store_id"`
	TruckID            *int                 `json:"truck_id,omitempty"`
	CargoType          string               `json:"cargo_type"`
	CargoDetails       CargoDetailsResponse `json:"cargo_details"`
	Status             string               `json:"status"`
}

type InitialStateResponse struct {
	DCs       []DCResponse       `json:"dcs"`
	Stores    []StoreResponse    `json:"stores"`
	Shipments []ShipmentResponse `json:"shipments"`
}

type LocationResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RiskEventResponse struct {
	ID                 int              `json:"id"`
	Title              string           `json:"title"`
	Location           LocationResponse `json:"location"`
	Source             string           `json:"source"`
	ScenarioID         string           `json:"scenarioId"`
	AffectedShipmentID int              `json:"affected_shipment_id"`
}
