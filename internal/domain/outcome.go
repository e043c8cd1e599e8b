package domain

// Decision is the kind of corrective action a dispatch outcome describes.
type Decision string

const (
	DecisionReroute  Decision = "REROUTE"
	DecisionResource Decision = "RESOURCE"
	DecisionSplit    Decision = "SPLIT"
)

// LogEntry is one line of the operator log, as authored.
type LogEntry struct {
	Time    string
	Message string
}

func (e LogEntry) String() string { return e.Time + " " + e.Message }

// DecisionCard summarizes the alternatives and the chosen action.
type DecisionCard struct {
	Title   string
	OptionA string
	OptionB string
	Result  string
}

// OutcomeDetails carries the routing deltas of an outcome.
// Which fields are set depends on the decision kind; zero means unset.
type OutcomeDetails struct {
	NewRouteOriginDC int // REROUTE
	OriginalDC       int // RESOURCE, SPLIT
	NewDC            int // RESOURCE
	NewGroceryDC     int // SPLIT
	NewGeneralDC     int // SPLIT
	DestinationStore int
}

// DispatchOutcome is a precomputed disruption outcome returned by the dispatcher.
type DispatchOutcome struct {
	Scenario           string
	Decision           Decision
	ImpactedShipmentID int
	Log                []LogEntry
	Card               DecisionCard
	Details            OutcomeDetails
}

// Clone returns a copy that shares no memory with o.
func (o DispatchOutcome) Clone() DispatchOutcome {
	out := o
	out.Log = append([]LogEntry(nil), o.Log...)
	return out
}

type Priority string

const (
	PriorityHigh     Priority = "High"
	PriorityStandard Priority = "Standard"
)

// Recommendation is the canned priority-based advice for a single shipment.
type Recommendation struct {
	ShipmentID int
	Priority   Priority
	Action     string
	Rationale  string
}
