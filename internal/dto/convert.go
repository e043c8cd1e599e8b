package dto

import "disruption-replay-service/internal/domain"

func FromDC(dc domain.DistributionCenter) DCResponse {
	return DCResponse{
		DCID:      dc.ID,
		DCName:    dc.Name,
		DCType:    string(dc.Type),
		Latitude:  dc.Location.Lat,
		Longitude: dc.Location.Lon,
	}
}

func FromStore(st domain.Store) StoreResponse {
	return StoreResponse{
		StoreID:   st.ID,
		StoreName: st.Name,
		Latitude:  st.Location.Lat,
		Longitude: st.Location.Lon,
	}
}

func FromTruck(tr domain.Truck) TruckResponse {
	return TruckResponse{TruckID: tr.ID, DriverName: tr.Driver, Status: string(tr.Status)}
}

func FromShipment(sh domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ShipmentID:         sh.ID,
		Ref:                sh.Ref,
		OriginDCID:         sh.OriginDCID,
		DestinationStoreID: sh.DestinationStoreID,
		TruckID:            sh.TruckID,
		CargoType:          string(sh.CargoType),
		CargoDetails: CargoDetailsResponse{
			GeneralUnits: sh.Cargo.GeneralUnits,
			GroceryUnits: sh.Cargo.GroceryUnits,
		},
		Status: string(sh.Status),
	}
}

func FromRiskEvent(ev domain.RiskEvent) RiskEventResponse {
	return RiskEventResponse{
		ID:    ev.ID,
		Title: ev.Title,
		Location: LocationResponse{
			Name:      ev.Location.Name,
			Latitude:  ev.Location.Coordinates.Lat,
			Longitude: ev.Location.Coordinates.Lon,
		},
		Source:             ev.Source,
		ScenarioID:         ev.ScenarioKey,
		AffectedShipmentID: ev.AffectedShipmentID,
	}
}

func FromOutcome(o domain.DispatchOutcome) DispatchOutcomeResponse {
	logs := make([]LogEntryResponse, 0, len(o.Log))
	for _, l := range o.Log {
		logs = append(logs, FromLogEntry(l))
	}
	return DispatchOutcomeResponse{
		Scenario:           o.Scenario,
		Decision:           string(o.Decision),
		ImpactedShipmentID: o.ImpactedShipmentID,
		Log:                logs,
		Details: OutcomeDetailsResponse{
			NewRouteOriginDC: o.Details.NewRouteOriginDC,
			OriginalDC:       o.Details.OriginalDC,
			NewDC:            o.Details.NewDC,
			NewGroceryDC:     o.Details.NewGroceryDC,
			NewGeneralDC:     o.Details.NewGeneralDC,
			DestinationStore: o.Details.DestinationStore,
		},
		DecisionCard: FromDecisionCard(o.Card),
	}
}

func FromLogEntry(e domain.LogEntry) LogEntryResponse {
	return LogEntryResponse{Time: e.Time, Message: e.Message}
}

func FromDecisionCard(c domain.DecisionCard) DecisionCardResponse {
	return DecisionCardResponse{Title: c.Title, OptionA: c.OptionA, OptionB: c.OptionB, Result: c.Result}
}

func FromRecommendation(r domain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ShipmentID:     r.ShipmentID,
		Priority:       string(r.Priority),
		Recommendation: r.Action,
		Rationale:      r.Rationale,
	}
}

func FromPaint(p domain.Paint) PaintResponse {
	dash := []int{}
	if p.Dashed {
		dash = []int{2, 2}
	}
	return PaintResponse{LineColor: p.Color, LineWidth: p.Width, LineDashArray: dash}
}

func FromRouteFeature(f domain.RouteFeature) RouteFeatureResponse {
	coords := make([][]float64, 0, len(f.Path))
	for _, c := range f.Path {
		coords = append(coords, c.CoordsToList())
	}
	return RouteFeatureResponse{
		ID:              f.ID,
		ShipmentRef:     f.ShipmentKey,
		OriginName:      f.OriginName,
		DestinationName: f.DestinationName,
		Cargo:           string(f.Cargo),
		Status:          f.Status,
		Details:         f.Details,
		Coordinates:     coords,
		Paint:           FromPaint(f.Paint),
	}
}

func FromMarker(m domain.Marker) MarkerResponse {
	return MarkerResponse{
		ID:        m.ID,
		Kind:      string(m.Kind),
		Color:     m.Color,
		LngLat:    m.Position.CoordsToList(),
		PopupText: m.PopupText,
	}
}

func FromPopup(p domain.Popup) PopupResponse {
	return PopupResponse{LngLat: p.Position.CoordsToList(), Title: p.Title, Lines: p.Lines}
}

// ToFixtures rebuilds fixture tables from the backend's initial state and
// risk feed. The backend does not expose trucks on this path, so a shipment's
// truck reference is dropped.
func (s InitialStateResponse) ToFixtures(risks []RiskEventResponse) domain.Fixtures {
	f := domain.Fixtures{
		DCs:        make([]domain.DistributionCenter, 0, len(s.DCs)),
		Stores:     make([]domain.Store, 0, len(s.Stores)),
		Shipments:  make([]domain.Shipment, 0, len(s.Shipments)),
		RiskEvents: make([]domain.RiskEvent, 0, len(risks)),
	}

	for _, dc := range s.DCs {
		f.DCs = append(f.DCs, domain.DistributionCenter{
			ID:       dc.DCID,
			Name:     dc.DCName,
			Type:     domain.DCType(dc.DCType),
			Location: domain.Coordinates{Lon: dc.Longitude, Lat: dc.Latitude},
		})
	}
	for _, st := range s.Stores {
		f.Stores = append(f.Stores, domain.Store{
			ID:       st.StoreID,
			Name:     st.StoreName,
			Location: domain.Coordinates{Lon: st.Longitude, Lat: st.Latitude},
		})
	}
	for _, sh := range s.Shipments {
		f.Shipments = append(f.Shipments, domain.Shipment{
			ID:                 sh.ShipmentID,
			OriginDCID:         sh.OriginDCID,
			DestinationStoreID: sh.DestinationStoreID,
			CargoType:          domain.CargoType(sh.CargoType),
			Cargo: domain.CargoDetail{
				GeneralUnits: sh.CargoDetails.GeneralUnits,
				GroceryUnits: sh.CargoDetails.GroceryUnits,
			},
			Status: domain.ShipmentStatus(sh.Status),
		})
	}
	for _, r := range risks {
		f.RiskEvents = append(f.RiskEvents, r.ToDomain())
	}
	return f
}

func (r RiskEventResponse) ToDomain() domain.RiskEvent {
	return domain.RiskEvent{
		ID:    r.ID,
		Title: r.Title,
		Location: domain.Location{
			Name:        r.Location.Name,
			Coordinates: domain.Coordinates{Lon: r.Location.Longitude, Lat: r.Location.Latitude},
		},
		Source:             r.Source,
		ScenarioKey:        r.ScenarioID,
		AffectedShipmentID: r.AffectedShipmentID,
	}
}

func (o DispatchOutcomeResponse) ToDomain() domain.DispatchOutcome {
	logs := make([]domain.LogEntry, 0, len(o.Log))
	for _, l := range o.Log {
		logs = append(logs, domain.LogEntry{Time: l.Time, Message: l.Message})
	}
	return domain.DispatchOutcome{
		Scenario:           o.Scenario,
		Decision:           domain.Decision(o.Decision),
		ImpactedShipmentID: o.ImpactedShipmentID,
		Log:                logs,
		Card: domain.DecisionCard{
			Title:   o.DecisionCard.Title,
			OptionA: o.DecisionCard.OptionA,
			OptionB: o.DecisionCard.OptionB,
			Result:  o.DecisionCard.Result,
		},
		Details: domain.OutcomeDetails{
			NewRouteOriginDC: o.Details.NewRouteOriginDC,
			OriginalDC:       o.Details.OriginalDC,
			NewDC:            o.Details.NewDC,
			NewGroceryDC:     o.Details.NewGroceryDC,
			NewGeneralDC:     o.Details.NewGeneralDC,
			DestinationStore: o.Details.DestinationStore,
		},
	}
}
