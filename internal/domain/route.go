package domain

// Paint describes how a route line is drawn.
type Paint struct {
	Color  string
	Width  int
	Dashed bool
}

// RouteFeature is a straight line from a shipment's origin DC to its
// destination store, with the properties shown in its popup.
type RouteFeature struct {
	ID              string
	ShipmentKey     string
	OriginName      string
	DestinationName string
	Cargo           CargoType
	Status          string
	Details         string
	Path            []Coordinates
	Paint           Paint
}

type MarkerKind string

const (
	MarkerDC    MarkerKind = "dc"
	MarkerStore MarkerKind = "store"
	MarkerRisk  MarkerKind = "risk"
)

// Marker is a pin on the map with popup text.
type Marker struct {
	ID        string
	Kind      MarkerKind
	Color     string
	Position  Coordinates
	PopupText string
}

// Popup is a free-standing info bubble.
type Popup struct {
	Position Coordinates
	Title    string
	Lines    []string
}

// RouteID returns the map feature id used for a shipment's line.
func RouteID(shipmentKey string) string { return "route-" + shipmentKey }

// Popup builds the info bubble shown when a route line is clicked, placed
// halfway along the line.
func (f RouteFeature) Popup() Popup {
	var pos Coordinates
	if len(f.Path) > 0 {
		pos = f.Path[0].Midpoint(f.Path[len(f.Path)-1])
	}
	return Popup{
		Position: pos,
		Title:    "Shipment #" + f.ShipmentKey,
		Lines: []string{
			"From: " + f.OriginName,
			"To: " + f.DestinationName,
			"Cargo: " + string(f.Cargo),
			"Details: " + f.Details,
			"Status: " + f.Status,
		},
	}
}
