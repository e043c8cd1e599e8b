package mapsurface

import (
	"context"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/dto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// EventStream writes surface and panel calls as Server-Sent Events.
// A browser map client applies them to its own map.
type EventStream struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
	seq     int
}

// NewEventStream prepares w for streaming. It fails when w cannot flush.
func NewEventStream(w http.ResponseWriter) (*EventStream, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("event stream: response writer does not support flushing")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	f.Flush()

	return &EventStream{w: w, flusher: f}, nil
}

// Send writes one event. It honors ctx so a gone client ends the replay.
func (s *EventStream) Send(ctx context.Context, event string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("event stream: encode %s: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, b); err != nil {
		return fmt.Errorf("event stream: write %s: %w", event, err)
	}
	s.flusher.Flush()
	return nil
}

func (s *EventStream) AddLine(ctx context.Context, f domain.RouteFeature) error {
	return s.Send(ctx, dto.EventRouteAdded, dto.FromRouteFeature(f))
}

func (s *EventStream) UpdateLine(ctx context.Context, f domain.RouteFeature) error {
	return s.Send(ctx, dto.EventRouteUpdated, dto.FromRouteFeature(f))
}

func (s *EventStream) SetPaint(ctx context.Context, id string, p domain.Paint) error {
	return s.Send(ctx, dto.EventPaint, dto.PaintEvent{ID: id, Paint: dto.FromPaint(p)})
}

func (s *EventStream) AddMarker(ctx context.Context, m domain.Marker) error {
	return s.Send(ctx, dto.EventMarker, dto.FromMarker(m))
}

func (s *EventStream) OpenPopup(ctx context.Context, p domain.Popup) error {
	return s.Send(ctx, dto.EventPopup, dto.FromPopup(p))
}

func (s *EventStream) AppendLog(ctx context.Context, e domain.LogEntry) error {
	return s.Send(ctx, dto.EventLog, dto.FromLogEntry(e))
}

func (s *EventStream) ShowDecisionCard(ctx context.Context, c domain.DecisionCard) error {
	return s.Send(ctx, dto.EventDecisionCard, dto.FromDecisionCard(c))
}
