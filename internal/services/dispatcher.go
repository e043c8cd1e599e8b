package services

import (
	"disruption-replay-service/internal/domain"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultCatalog []byte

// Scenario keys understood by the dispatcher.
const (
	ScenarioReroute  = "reroute"
	ScenarioResource = "resource"
	ScenarioSplit    = "split"
)

// DefaultScenario is applied to any key the catalog does not know,
// including the empty key. Unknown keys are not an error.
const DefaultScenario = ScenarioSplit

type catalogDoc struct {
	Default         string                 `yaml:"default"`
	Scenarios       map[string]scenarioDoc `yaml:"scenarios"`
	Recommendations map[string]adviceDoc   `yaml:"recommendations"`
}

type scenarioDoc struct {
	Decision           string     `yaml:"decision"`
	ImpactedShipmentID int        `yaml:"impacted_shipment_id"`
	Log                []logDoc   `yaml:"log"`
	Details            detailsDoc `yaml:"details"`
	Card               cardDoc    `yaml:"decision_card"`
}

type logDoc struct {
	Time    string `yaml:"time"`
	Message string `yaml:"message"`
}

type detailsDoc struct {
	NewRouteOriginDC int `yaml:"new_route_origin_dc"`
	OriginalDC       int `yaml:"original_dc"`
	NewDC            int `yaml:"new_dc"`
	NewGroceryDC     int `yaml:"new_grocery_dc"`
	NewGeneralDC     int `yaml:"new_general_dc"`
	DestinationStore int `yaml:"destination_store"`
}

type cardDoc struct {
	Title   string `yaml:"title"`
	OptionA string `yaml:"optionA"`
	OptionB string `yaml:"optionB"`
	Result  string `yaml:"result"`
}

type adviceDoc struct {
	Action    string `yaml:"action"`
	Rationale string `yaml:"rationale"`
}

// Dispatcher maps a scenario key to one of a fixed set of precomputed
// disruption outcomes. It is safe for concurrent use: the catalog is never
// modified after construction and every call returns a fresh copy.
type Dispatcher struct {
	outcomes   map[string]domain.DispatchOutcome
	fallback   string
	highAdvice adviceDoc
	stdAdvice  adviceDoc
}

// NewDispatcher builds a dispatcher from the embedded scenario catalog.
func NewDispatcher() (*Dispatcher, error) {
	return NewDispatcherFromYAML(defaultCatalog)
}

// NewDispatcherFromYAML parses and checks a scenario catalog document.
func NewDispatcherFromYAML(doc []byte) (*Dispatcher, error) {
	var c catalogDoc
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("new dispatcher: parse catalog: %w", err)
	}

	if len(c.Scenarios) == 0 {
		return nil, errors.New("new dispatcher: catalog has no scenarios")
	}

	d := &Dispatcher{
		outcomes:   make(map[string]domain.DispatchOutcome, len(c.Scenarios)),
		fallback:   c.Default,
		highAdvice: c.Recommendations["high"],
		stdAdvice:  c.Recommendations["standard"],
	}

	for key, s := range c.Scenarios {
		o, err := s.toOutcome(key)
		if err != nil {
			return nil, fmt.Errorf("new dispatcher: scenario %q: %w", key, err)
		}
		d.outcomes[key] = o
	}

	if _, ok := d.outcomes[d.fallback]; !ok {
		return nil, fmt.Errorf("new dispatcher: default scenario %q is not defined", d.fallback)
	}

	return d, nil
}

func (s scenarioDoc) toOutcome(key string) (domain.DispatchOutcome, error) {
	decision := domain.Decision(strings.ToUpper(strings.TrimSpace(s.Decision)))
	det := domain.OutcomeDetails{
		NewRouteOriginDC: s.Details.NewRouteOriginDC,
		OriginalDC:       s.Details.OriginalDC,
		NewDC:            s.Details.NewDC,
		NewGroceryDC:     s.Details.NewGroceryDC,
		NewGeneralDC:     s.Details.NewGeneralDC,
		DestinationStore: s.Details.DestinationStore,
	}

	// The decision kind decides which detail fields must be present.
	switch decision {
	case domain.DecisionReroute:
		if det.NewRouteOriginDC == 0 {
			return domain.DispatchOutcome{}, errors.New("REROUTE requires new_route_origin_dc")
		}
	case domain.DecisionResource:
		if det.NewDC == 0 {
			return domain.DispatchOutcome{}, errors.New("RESOURCE requires new_dc")
		}
		if det.NewDC == det.OriginalDC {
			return domain.DispatchOutcome{}, errors.New("RESOURCE new_dc must differ from original_dc")
		}
	case domain.DecisionSplit:
		if det.NewGroceryDC == 0 || det.NewGeneralDC == 0 {
			return domain.DispatchOutcome{}, errors.New("SPLIT requires new_grocery_dc and new_general_dc")
		}
	default:
		return domain.DispatchOutcome{}, fmt.Errorf("unknown decision %q", s.Decision)
	}

	if s.ImpactedShipmentID <= 0 {
		return domain.DispatchOutcome{}, errors.New("impacted_shipment_id must be positive")
	}
	if det.DestinationStore == 0 {
		return domain.DispatchOutcome{}, errors.New("destination_store is required")
	}
	if len(s.Log) == 0 {
		return domain.DispatchOutcome{}, errors.New("log must not be empty")
	}

	entries := make([]domain.LogEntry, 0, len(s.Log))
	for _, l := range s.Log {
		entries = append(entries, domain.LogEntry{Time: l.Time, Message: l.Message})
	}

	return domain.DispatchOutcome{
		Scenario:           key,
		Decision:           decision,
		ImpactedShipmentID: s.ImpactedShipmentID,
		Log:                entries,
		Card: domain.DecisionCard{
			Title:   s.Card.Title,
			OptionA: s.Card.OptionA,
			OptionB: s.Card.OptionB,
			Result:  s.Card.Result,
		},
		Details: det,
	}, nil
}

// Dispatch returns the outcome for scenarioKey, or the default scenario's
// outcome when the key is unknown. Keys must match exactly: "REROUTE" or
// " reroute " fall back like any other unknown key.
func (d *Dispatcher) Dispatch(scenarioKey string) domain.DispatchOutcome {
	o, ok := d.outcomes[scenarioKey]
	if !ok {
		o = d.outcomes[d.fallback]
	}
	return o.Clone()
}

// Scenarios lists the known keys in sorted order.
func (d *Dispatcher) Scenarios() []string {
	keys := make([]string, 0, len(d.outcomes))
	for k := range d.outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every outcome against the fixture tables so a replay can
// never reference a DC or store that does not exist.
func (d *Dispatcher) Validate(store *domain.FixtureStore) error {
	for _, key := range d.Scenarios() {
		o := d.outcomes[key]
		if _, ok := store.Shipment(o.ImpactedShipmentID); !ok {
			return fmt.Errorf("validate scenario %q: unknown impacted shipment %d", key, o.ImpactedShipmentID)
		}
		if _, ok := store.Store(o.Details.DestinationStore); !ok {
			return fmt.Errorf("validate scenario %q: unknown destination store %d", key, o.Details.DestinationStore)
		}

		dcs := []int{o.Details.NewRouteOriginDC, o.Details.OriginalDC, o.Details.NewDC, o.Details.NewGroceryDC, o.Details.NewGeneralDC}
		for _, id := range dcs {
			if id == 0 {
				continue
			}
			if _, ok := store.DC(id); !ok {
				return fmt.Errorf("validate scenario %q: unknown dc %d", key, id)
			}
		}
	}
	return nil
}

// Recommend returns the canned two-branch advice for a shipment.
// Anything carrying grocery units is treated as high priority.
func (d *Dispatcher) Recommend(sh domain.Shipment) domain.Recommendation {
	if sh.Cargo.GroceryUnits > 0 {
		return domain.Recommendation{
			ShipmentID: sh.ID,
			Priority:   domain.PriorityHigh,
			Action:     d.highAdvice.Action,
			Rationale:  d.highAdvice.Rationale,
		}
	}
	return domain.Recommendation{
		ShipmentID: sh.ID,
		Priority:   domain.PriorityStandard,
		Action:     d.stdAdvice.Action,
		Rationale:  d.stdAdvice.Rationale,
	}
}
