package dto

// Replay stream event names.
const (
	EventLog          = "log"
	EventDecisionCard = "decision_card"
	EventRouteAdded   = "route_added"
	EventRouteUpdated = "route_updated"
	EventPaint        = "paint"
	EventMarker       = "marker"
	EventPopup        = "popup"
	EventDone         = "done"
	EventError        = "error"
)

// PaintResponse uses map-library paint property names.
type PaintResponse struct {
	LineColor     string `json:"line-color"`
	LineWidth     int    `json:"line-width"`
	LineDashArray []int  `json:"line-dasharray"`
}

type RouteFeatureResponse struct {
	ID              string        `json:"id"`
	ShipmentRef     string        `json:"shipment_ref"`
	OriginName      string        `json:"origin_name"`
	DestinationName string        `json:"destination_name"`
	Cargo           string        `json:"cargo"`
	Status          string        `json:"status"`
	Details         string        `json:"details"`
	Coordinates     [][]float64   `json:"coordinates"`
	Paint           PaintResponse `json:"paint"`
}

type PaintEvent struct {
	ID    string        `json:"id"`
	Paint PaintResponse `json:"paint"`
}

type MarkerResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color"`
	LngLat    []float64 `json:"lnglat"`
	PopupText string    `json:"popup_text"`
}

type PopupResponse struct {
	LngLat []float64 `json:"lnglat"`
	Title  string    `json:"title"`
	Lines  []string  `json:"lines"`
}

type ReplayDoneResponse struct {
	RunID               string             `json:"run_id"`
	Scenario            string             `json:"scenario"`
	Decision            string             `json:"decision"`
	CancelledShipmentID int                `json:"cancelled_shipment_id,omitempty"`
	Derived             []ShipmentResponse `json:"derived"`
	Skipped             bool               `json:"skipped"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
