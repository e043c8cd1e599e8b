package handlers

import (
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/dto"
	"disruption-replay-service/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ResourceHandler exposes read-only fixture tables and the canned
// per-shipment recommendation.
type ResourceHandler struct {
	Store      *domain.FixtureStore
	Dispatcher *services.Dispatcher
}

func (h *ResourceHandler) DCs(w http.ResponseWriter, r *http.Request) {
	dcs := h.Store.DCs()
	res := make([]dto.DCResponse, 0, len(dcs))
	for _, dc := range dcs {
		res = append(res, dto.FromDC(dc))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ResourceHandler) Stores(w http.ResponseWriter, r *http.Request) {
	stores := h.Store.Stores()
	res := make([]dto.StoreResponse, 0, len(stores))
	for _, st := range stores {
		res = append(res, dto.FromStore(st))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ResourceHandler) Trucks(w http.ResponseWriter, r *http.Request) {
	trucks := h.Store.Trucks()
	res := make([]dto.TruckResponse, 0, len(trucks))
	for _, tr := range trucks {
		res = append(res, dto.FromTruck(tr))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ResourceHandler) Shipments(w http.ResponseWriter, r *http.Request) {
	shipments := h.Store.Shipments()
	res := make([]dto.ShipmentResponse, 0, len(shipments))
	for _, sh := range shipments {
		res = append(res, dto.FromShipment(sh))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ResourceHandler) Events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, riskEvents(h.Store))
}

func (h *ResourceHandler) SimulateRisk(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "shipmentId"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid shipment id")
		return
	}

	sh, ok := h.Store.Shipment(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "shipment not found")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRecommendation(h.Dispatcher.Recommend(sh)))
}
