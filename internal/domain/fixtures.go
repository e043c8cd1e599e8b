package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Fixtures is the raw content of the demo tables, as loaded from a source.
type Fixtures struct {
	DCs        []DistributionCenter
	Stores     []Store
	Trucks     []Truck
	Shipments  []Shipment
	RiskEvents []RiskEvent
}

// FixtureStore is a read-only, indexed view over validated fixtures.
// Accessors hand out copies; nothing can change the tables after construction.
type FixtureStore struct {
	f          Fixtures
	dcs        map[int]DistributionCenter
	stores     map[int]Store
	trucks     map[int]Truck
	shipments  map[int]Shipment
	riskEvents map[int]RiskEvent
}

// NewFixtureStore validates the fixtures and fails fast on the first problem:
// field constraints, duplicate ids, dangling references, or a risk event whose
// scenario key is not in knownScenarios.
func NewFixtureStore(f Fixtures, knownScenarios []string) (*FixtureStore, error) {
	s := &FixtureStore{
		dcs:        make(map[int]DistributionCenter, len(f.DCs)),
		stores:     make(map[int]Store, len(f.Stores)),
		trucks:     make(map[int]Truck, len(f.Trucks)),
		shipments:  make(map[int]Shipment, len(f.Shipments)),
		riskEvents: make(map[int]RiskEvent, len(f.RiskEvents)),
	}

	for i, dc := range f.DCs {
		if err := validate.Struct(dc); err != nil {
			return nil, fmt.Errorf("fixture store: dc at index %d: %w", i, err)
		}
		if _, dup := s.dcs[dc.ID]; dup {
			return nil, fmt.Errorf("fixture store: duplicate dc_id %d", dc.ID)
		}
		s.dcs[dc.ID] = dc
	}

	for i, st := range f.Stores {
		if err := validate.Struct(st); err != nil {
			return nil, fmt.Errorf("fixture store: store at index %d: %w", i, err)
		}
		if _, dup := s.stores[st.ID]; dup {
			return nil, fmt.Errorf("fixture store: duplicate store_id %d", st.ID)
		}
		s.stores[st.ID] = st
	}

	for i, tr := range f.Trucks {
		if err := validate.Struct(tr); err != nil {
			return nil, fmt.Errorf("fixture store: truck at index %d: %w", i, err)
		}
		if _, dup := s.trucks[tr.ID]; dup {
			return nil, fmt.Errorf("fixture store: duplicate truck_id %d", tr.ID)
		}
		s.trucks[tr.ID] = tr
	}

	for i, sh := range f.Shipments {
		if err := validate.Struct(sh); err != nil {
			return nil, fmt.Errorf("fixture store: shipment at index %d: %w", i, err)
		}
		if sh.Ref != "" {
			return nil, fmt.Errorf("fixture store: shipment %d: derived records cannot be fixtures", sh.ID)
		}
		if _, dup := s.shipments[sh.ID]; dup {
			return nil, fmt.Errorf("fixture store: duplicate shipment_id %d", sh.ID)
		}
		if _, ok := s.dcs[sh.OriginDCID]; !ok {
			return nil, fmt.Errorf("fixture store: shipment %d: unknown origin_dc_id %d", sh.ID, sh.OriginDCID)
		}
		if _, ok := s.stores[sh.DestinationStoreID]; !ok {
			return nil, fmt.Errorf("fixture store: shipment %d: unknown destination_store_id %d", sh.ID, sh.DestinationStoreID)
		}
		if sh.TruckID != nil {
			if _, ok := s.trucks[*sh.TruckID]; !ok {
				return nil, fmt.Errorf("fixture store: shipment %d: unknown truck_id %d", sh.ID, *sh.TruckID)
			}
		}
		s.shipments[sh.ID] = cloneShipment(sh)
	}

	known := make(map[string]struct{}, len(knownScenarios))
	for _, k := range knownScenarios {
		known[k] = struct{}{}
	}

	for i, ev := range f.RiskEvents {
		if err := validate.Struct(ev); err != nil {
			return nil, fmt.Errorf("fixture store: risk event at index %d: %w", i, err)
		}
		if _, dup := s.riskEvents[ev.ID]; dup {
			return nil, fmt.Errorf("fixture store: duplicate risk event id %d", ev.ID)
		}
		if _, ok := known[ev.ScenarioKey]; !ok {
			return nil, fmt.Errorf("fixture store: risk event %d: unknown scenario key %q", ev.ID, ev.ScenarioKey)
		}
		if _, ok := s.shipments[ev.AffectedShipmentID]; !ok {
			return nil, fmt.Errorf("fixture store: risk event %d: unknown affected_shipment_id %d", ev.ID, ev.AffectedShipmentID)
		}
		s.riskEvents[ev.ID] = ev
	}

	s.f = f.clone()
	return s, nil
}

func (s *FixtureStore) DC(id int) (DistributionCenter, bool) {
	dc, ok := s.dcs[id]
	return dc, ok
}

func (s *FixtureStore) Store(id int) (Store, bool) {
	st, ok := s.stores[id]
	return st, ok
}

func (s *FixtureStore) Truck(id int) (Truck, bool) {
	tr, ok := s.trucks[id]
	return tr, ok
}

func (s *FixtureStore) Shipment(id int) (Shipment, bool) {
	sh, ok := s.shipments[id]
	if !ok {
		return Shipment{}, false
	}
	return cloneShipment(sh), true
}

func (s *FixtureStore) RiskEvent(id int) (RiskEvent, bool) {
	ev, ok := s.riskEvents[id]
	return ev, ok
}

// Snapshot returns a deep copy of every table, in load order.
func (s *FixtureStore) Snapshot() Fixtures { return s.f.clone() }

func (s *FixtureStore) DCs() []DistributionCenter {
	return append([]DistributionCenter(nil), s.f.DCs...)
}
func (s *FixtureStore) Stores() []Store         { return append([]Store(nil), s.f.Stores...) }
func (s *FixtureStore) Trucks() []Truck         { return append([]Truck(nil), s.f.Trucks...) }
func (s *FixtureStore) RiskEvents() []RiskEvent { return append([]RiskEvent(nil), s.f.RiskEvents...) }

func (s *FixtureStore) Shipments() []Shipment {
	out := make([]Shipment, 0, len(s.f.Shipments))
	for _, sh := range s.f.Shipments {
		out = append(out, cloneShipment(sh))
	}
	return out
}

func (f Fixtures) clone() Fixtures {
	out := Fixtures{
		DCs:        append([]DistributionCenter(nil), f.DCs...),
		Stores:     append([]Store(nil), f.Stores...),
		Trucks:     append([]Truck(nil), f.Trucks...),
		Shipments:  make([]Shipment, 0, len(f.Shipments)),
		RiskEvents: append([]RiskEvent(nil), f.RiskEvents...),
	}
	for _, sh := range f.Shipments {
		out.Shipments = append(out.Shipments, cloneShipment(sh))
	}
	return out
}

func cloneShipment(sh Shipment) Shipment {
	if sh.TruckID != nil {
		id := *sh.TruckID
		sh.TruckID = &id
	}
	return sh
}
