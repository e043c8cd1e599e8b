package domain

// A named place on the map where a risk was reported.
type Location struct {
	Name        string `validate:"required"`
	Coordinates Coordinates
}

// RiskEvent is a news-style disruption report shown in the risk feed.
// ScenarioKey selects the canned dispatcher outcome played when it is selected.
type RiskEvent struct {
	ID                 int    `validate:"gt=0"`
	Title              string `validate:"required"`
	Location           Location
	Source             string `validate:"required"`
	ScenarioKey        string `validate:"required"`
	AffectedShipmentID int    `validate:"gt=0"`
}

// RiskState is a risk event's position in the feed lifecycle.
type RiskState int

const (
	RiskPending RiskState = iota
	RiskRevealed
	RiskSelected
)

func (s RiskState) String() string {
	switch s {
	case RiskPending:
		return "Pending"
	case RiskRevealed:
		return "Revealed"
	case RiskSelected:
		return "Selected"
	default:
		return "Unknown"
	}
}
