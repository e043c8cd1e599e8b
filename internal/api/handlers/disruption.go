package handlers

import (
	"disruption-replay-service/internal/dto"
	"disruption-replay-service/internal/services"
	"net/http"

	"github.com/sirupsen/logrus"
)

// DisruptionHandler maps a scenario key to its canned outcome.
type DisruptionHandler struct {
	Dispatcher *services.Dispatcher
}

// Trigger accepts {"scenario": "..."}; an empty body or an unknown key
// yields the default scenario.
func (h *DisruptionHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req dto.TriggerDisruptionRequest
	if err := decodeStrict(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	outcome := h.Dispatcher.Dispatch(req.Scenario)

	logrus.WithFields(logrus.Fields{
		"requested": req.Scenario,
		"scenario":  outcome.Scenario,
		"decision":  outcome.Decision,
	}).Info("disruption triggered")

	writeJSON(w, r, http.StatusOK, dto.FromOutcome(outcome))
}
