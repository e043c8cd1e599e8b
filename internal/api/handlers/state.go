package handlers

import (
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/dto"
	"net/http"
)

// StateHandler serves the map's initial data and the risk feed.
type StateHandler struct {
	Store *domain.FixtureStore
}

func (h *StateHandler) InitialState(w http.ResponseWriter, r *http.Request) {
	dcs := h.Store.DCs()
	stores := h.Store.Stores()
	shipments := h.Store.Shipments()

	res := dto.InitialStateResponse{
		DCs:       make([]dto.DCResponse, 0, len(dcs)),
		Stores:    make([]dto.StoreResponse, 0, len(stores)),
		Shipments: make([]dto.ShipmentResponse, 0, len(shipments)),
	}
	for _, dc := range dcs {
		res.DCs = append(res.DCs, dto.FromDC(dc))
	}
	for _, st := range stores {
		res.Stores = append(res.Stores, dto.FromStore(st))
	}
	for _, sh := range shipments {
		res.Shipments = append(res.Shipments, dto.FromShipment(sh))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *StateHandler) RiskFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, riskEvents(h.Store))
}

func riskEvents(store *domain.FixtureStore) []dto.RiskEventResponse {
	events := store.RiskEvents()
	res := make([]dto.RiskEventResponse, 0, len(events))
	for _, ev := range events {
		res = append(res, dto.FromRiskEvent(ev))
	}
	return res
}
