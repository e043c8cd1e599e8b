package services

import (
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/ports"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Map colors used by the demo.
const (
	ColorDC        = "#0071ce"
	ColorStore     = "#d9534f"
	ColorRisk      = "#f0ad4e"
	ColorScheduled = "#0071ce"
	ColorCancelled = "#9e9e9e"
	ColorPrimary   = "#28a745"
	ColorSecondary = "#fd7e14"

	routeLineWidth = 3
)

// Route status labels for split legs.
const (
	LabelSplitGrocery = "Split (Grocery)"
	LabelSplitGeneral = "Split (General)"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// Scene is the application state behind one map: the fixture tables, the
// shipment records drawn on it (fixture copies plus derived legs) and the
// surface they are drawn on. Shipment changes stay inside the scene.
type Scene struct {
	mu        sync.Mutex
	store     *domain.FixtureStore
	surface   ports.MapSurface
	shipments map[string]*domain.Shipment
	order     []string
	features  map[string]domain.RouteFeature
}

func NewScene(store *domain.FixtureStore, surface ports.MapSurface) *Scene {
	s := &Scene{
		store:     store,
		surface:   surface,
		shipments: make(map[string]*domain.Shipment),
		features:  make(map[string]domain.RouteFeature),
	}
	for _, sh := range store.Shipments() {
		s.shipments[sh.Key()] = &sh
		s.order = append(s.order, sh.Key())
	}
	return s
}

// DrawInitial places DC and store markers and a dashed line per shipment.
func (s *Scene) DrawInitial(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dc := range s.store.DCs() {
		m := domain.Marker{
			ID:        "dc-" + strconv.Itoa(dc.ID),
			Kind:      domain.MarkerDC,
			Color:     ColorDC,
			Position:  dc.Location,
			PopupText: dc.Name,
		}
		if err := s.surface.AddMarker(ctx, m); err != nil {
			return fmt.Errorf("draw initial: dc %d marker: %w", dc.ID, err)
		}
	}

	for _, st := range s.store.Stores() {
		m := domain.Marker{
			ID:        "store-" + strconv.Itoa(st.ID),
			Kind:      domain.MarkerStore,
			Color:     ColorStore,
			Position:  st.Location,
			PopupText: st.Name,
		}
		if err := s.surface.AddMarker(ctx, m); err != nil {
			return fmt.Errorf("draw initial: store %d marker: %w", st.ID, err)
		}
	}

	for _, key := range s.order {
		sh := s.shipments[key]
		paint := domain.Paint{Color: ColorScheduled, Width: routeLineWidth, Dashed: true}
		if err := s.drawLocked(ctx, *sh, string(sh.Status), paint); err != nil {
			return fmt.Errorf("draw initial: %w", err)
		}
	}

	return nil
}

// RevealRisk pins a risk event on the map and opens its popup.
func (s *Scene) RevealRisk(ctx context.Context, ev domain.RiskEvent) error {
	m := domain.Marker{
		ID:        "risk-" + strconv.Itoa(ev.ID),
		Kind:      domain.MarkerRisk,
		Color:     ColorRisk,
		Position:  ev.Location.Coordinates,
		PopupText: ev.Title,
	}
	if err := s.surface.AddMarker(ctx, m); err != nil {
		return fmt.Errorf("reveal risk %d: add marker: %w", ev.ID, err)
	}

	p := domain.Popup{
		Position: ev.Location.Coordinates,
		Title:    ev.Title,
		Lines:    []string{ev.Location.Name, "Source: " + ev.Source},
	}
	if err := s.surface.OpenPopup(ctx, p); err != nil {
		return fmt.Errorf("reveal risk %d: open popup: %w", ev.ID, err)
	}
	return nil
}

// Shipment returns a copy of the record drawn under key.
func (s *Scene) Shipment(key string) (domain.Shipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shipments[key]
	if !ok {
		return domain.Shipment{}, false
	}
	return *sh, true
}

// Shipments returns every record in draw order.
func (s *Scene) Shipments() []domain.Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Shipment, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.shipments[k])
	}
	return out
}

// Route returns the line currently drawn for a shipment key.
func (s *Scene) Route(key string) (domain.RouteFeature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.features[domain.RouteID(key)]
	return f, ok
}

// InspectRoute opens the popup of a drawn route line.
func (s *Scene) InspectRoute(ctx context.Context, key string) error {
	f, ok := s.Route(key)
	if !ok {
		return fmt.Errorf("inspect route %s: %w", key, ErrShipmentNotFound)
	}
	if err := s.surface.OpenPopup(ctx, f.Popup()); err != nil {
		return fmt.Errorf("inspect route %s: %w", key, err)
	}
	return nil
}

// Cancel marks a fixture shipment Cancelled and greys out its line.
func (s *Scene) Cancel(ctx context.Context, shipmentID int) (domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.Itoa(shipmentID)
	sh, ok := s.shipments[key]
	if !ok {
		return domain.Shipment{}, fmt.Errorf("cancel shipment %d: %w", shipmentID, ErrShipmentNotFound)
	}

	if err := sh.Transition(domain.StatusCancelled); err != nil {
		return domain.Shipment{}, fmt.Errorf("cancel shipment %d: %w", shipmentID, err)
	}

	paint := domain.Paint{Color: ColorCancelled, Width: routeLineWidth, Dashed: true}
	f, err := s.featureLocked(*sh, string(sh.Status), paint)
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("cancel shipment %d: %w", shipmentID, err)
	}

	if err := s.surface.UpdateLine(ctx, f); err != nil {
		return domain.Shipment{}, fmt.Errorf("cancel shipment %d: update line: %w", shipmentID, err)
	}
	if err := s.surface.SetPaint(ctx, f.ID, paint); err != nil {
		return domain.Shipment{}, fmt.Errorf("cancel shipment %d: set paint: %w", shipmentID, err)
	}
	s.features[f.ID] = f

	return *sh, nil
}

type leg struct {
	shipment domain.Shipment
	label    string
	color    string
}

// Materialize draws the replacement route(s) an outcome calls for and returns
// the derived shipment records.
//
//	REROUTE  one leg, same origin and destination, Rerouted
//	RESOURCE one leg from the designated DC, Resourced
//	SPLIT    a grocery-only leg and a general-only leg, both to the original store
func (s *Scene) Materialize(ctx context.Context, o domain.DispatchOutcome) ([]domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.Itoa(o.ImpactedShipmentID)
	orig, ok := s.shipments[key]
	if !ok {
		return nil, fmt.Errorf("materialize %s: shipment %d: %w", o.Decision, o.ImpactedShipmentID, ErrShipmentNotFound)
	}

	var legs []leg
	switch o.Decision {
	case domain.DecisionReroute:
		sh := orig.Derive("new-r-"+key, orig.OriginDCID, orig.CargoType, orig.Cargo, domain.StatusRerouted)
		legs = append(legs, leg{shipment: sh, label: string(domain.StatusRerouted), color: ColorPrimary})
	case domain.DecisionResource:
		sh := orig.Derive("new-"+key, o.Details.NewDC, orig.CargoType, orig.Cargo, domain.StatusResourced)
		legs = append(legs, leg{shipment: sh, label: string(domain.StatusResourced), color: ColorPrimary})
	case domain.DecisionSplit:
		grocery, general := orig.Cargo.Partition()
		g := orig.Derive("new-g-"+key, o.Details.NewGroceryDC, domain.CargoGrocery, grocery, domain.StatusSplit)
		m := orig.Derive("new-m-"+key, o.Details.NewGeneralDC, domain.CargoGeneral, general, domain.StatusSplit)
		legs = append(legs,
			leg{shipment: g, label: LabelSplitGrocery, color: ColorPrimary},
			leg{shipment: m, label: LabelSplitGeneral, color: ColorSecondary},
		)
	default:
		return nil, fmt.Errorf("materialize: unknown decision %q", o.Decision)
	}

	out := make([]domain.Shipment, 0, len(legs))
	for _, l := range legs {
		paint := domain.Paint{Color: l.color, Width: routeLineWidth}
		if err := s.drawLocked(ctx, l.shipment, l.label, paint); err != nil {
			return nil, fmt.Errorf("materialize %s: %w", o.Decision, err)
		}
		sh := l.shipment
		if _, exists := s.shipments[sh.Key()]; !exists {
			s.order = append(s.order, sh.Key())
		}
		s.shipments[sh.Key()] = &sh
		out = append(out, sh)
	}

	return out, nil
}

// drawLocked adds a line unless one is already drawn for the shipment.
func (s *Scene) drawLocked(ctx context.Context, sh domain.Shipment, label string, paint domain.Paint) error {
	id := domain.RouteID(sh.Key())
	if _, exists := s.features[id]; exists {
		return nil
	}

	f, err := s.featureLocked(sh, label, paint)
	if err != nil {
		return err
	}
	if err := s.surface.AddLine(ctx, f); err != nil {
		return fmt.Errorf("add line %s: %w", f.ID, err)
	}
	s.features[f.ID] = f
	return nil
}

func (s *Scene) featureLocked(sh domain.Shipment, label string, paint domain.Paint) (domain.RouteFeature, error) {
	origin, ok := s.store.DC(sh.OriginDCID)
	if !ok {
		return domain.RouteFeature{}, fmt.Errorf("route %s: unknown origin dc %d", sh.Key(), sh.OriginDCID)
	}
	dest, ok := s.store.Store(sh.DestinationStoreID)
	if !ok {
		return domain.RouteFeature{}, fmt.Errorf("route %s: unknown destination store %d", sh.Key(), sh.DestinationStoreID)
	}

	return domain.RouteFeature{
		ID:              domain.RouteID(sh.Key()),
		ShipmentKey:     sh.Key(),
		OriginName:      origin.Name,
		DestinationName: dest.Name,
		Cargo:           sh.CargoType,
		Status:          label,
		Details:         sh.Cargo.String(),
		Path:            []domain.Coordinates{origin.Location, dest.Location},
		Paint:           paint,
	}, nil
}
