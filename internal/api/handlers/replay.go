package handlers

import (
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/dto"
	"disruption-replay-service/internal/ports"
	"disruption-replay-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// ReplayHandler plays a scenario's outcome as a Server-Sent Events stream.
// Each stream draws on a fresh scene built from the fixtures, so replays never
// change what other clients see. Only one replay runs at a time.
type ReplayHandler struct {
	Store      *domain.FixtureStore
	Dispatcher *services.Dispatcher
	Engine     *services.ReplayEngine
	Gate       ports.SingleFlight
}

func (h *ReplayHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := logrus.WithField("req_id", middleware.GetReqID(ctx))

	release, ok, err := h.Gate.TryAcquire(ctx)
	if err != nil {
		entry.WithError(err).Error("acquire replay slot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, r, http.StatusConflict, services.ErrReplayInFlight.Error())
		return
	}
	defer release()

	outcome := h.Dispatcher.Dispatch(chi.URLParam(r, "scenario"))

	stream, err := mapsurface.NewEventStream(w)
	if err != nil {
		entry.WithError(err).Error("open event stream failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	scene := services.NewScene(h.Store, stream)
	if err := scene.DrawInitial(ctx); err != nil {
		entry.WithError(err).Warn("draw initial scene failed")
		_ = stream.Send(ctx, dto.EventError, dto.ErrorResponse{Error: "replay failed"})
		return
	}

	res, err := h.Engine.Replay(ctx, scene, stream, outcome)
	if err != nil {
		// A gone client surfaces as a context error; nothing left to tell it.
		if ctx.Err() == nil {
			_ = stream.Send(ctx, dto.EventError, dto.ErrorResponse{Error: "replay failed"})
		}
		return
	}

	done := dto.ReplayDoneResponse{
		RunID:    res.RunID,
		Scenario: res.Scenario,
		Decision: string(res.Decision),
		Derived:  make([]dto.ShipmentResponse, 0, len(res.Derived)),
		Skipped:  res.Skipped,
	}
	if res.Cancelled != nil {
		done.CancelledShipmentID = res.Cancelled.ID
	}
	for _, sh := range res.Derived {
		done.Derived = append(done.Derived, dto.FromShipment(sh))
	}

	if err := stream.Send(ctx, dto.EventDone, done); err != nil {
		entry.WithError(err).Debug("send done event failed")
	}
}
