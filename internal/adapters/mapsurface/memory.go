package mapsurface

import (
	"context"
	"disruption-replay-service/internal/domain"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Op is one recorded surface or panel call.
type Op struct {
	At     time.Time
	Kind   string
	Target string
	Detail string
}

// Recorder keeps the state a map surface and operator panel would show, and
// a journal of every call. It backs tests and the terminal demo.
type Recorder struct {
	clock clockwork.Clock
	log   *logrus.Entry

	mu       sync.Mutex
	features map[string]domain.RouteFeature
	markers  map[string]domain.Marker
	popups   []domain.Popup
	logs     []domain.LogEntry
	card     *domain.DecisionCard
	ops      []Op
}

// NewRecorder builds an empty recorder. log may be nil to stay silent.
func NewRecorder(clock clockwork.Clock, log *logrus.Entry) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recorder{
		clock:    clock,
		log:      log,
		features: make(map[string]domain.RouteFeature),
		markers:  make(map[string]domain.Marker),
	}
}

func (r *Recorder) record(kind, target, detail string) {
	r.ops = append(r.ops, Op{At: r.clock.Now(), Kind: kind, Target: target, Detail: detail})
	if r.log != nil {
		r.log.WithFields(logrus.Fields{"op": kind, "target": target}).Info(detail)
	}
}

func (r *Recorder) AddLine(ctx context.Context, f domain.RouteFeature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.features[f.ID]; ok {
		return nil
	}
	r.features[f.ID] = f
	r.record("add_line", f.ID, fmt.Sprintf("%s -> %s [%s] %s", f.OriginName, f.DestinationName, f.Status, f.Details))
	return nil
}

func (r *Recorder) UpdateLine(ctx context.Context, f domain.RouteFeature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.features[f.ID]; !ok {
		return fmt.Errorf("update line: unknown feature %q", f.ID)
	}
	r.features[f.ID] = f
	r.record("update_line", f.ID, "status "+f.Status)
	return nil
}

func (r *Recorder) SetPaint(ctx context.Context, id string, p domain.Paint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.features[id]
	if !ok {
		return fmt.Errorf("set paint: unknown feature %q", id)
	}
	f.Paint = p
	r.features[id] = f
	r.record("set_paint", id, fmt.Sprintf("color=%s dashed=%t", p.Color, p.Dashed))
	return nil
}

func (r *Recorder) AddMarker(ctx context.Context, m domain.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markers[m.ID] = m
	r.record("add_marker", m.ID, m.PopupText)
	return nil
}

func (r *Recorder) OpenPopup(ctx context.Context, p domain.Popup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.popups = append(r.popups, p)
	r.record("open_popup", p.Title, fmt.Sprint(p.Lines))
	return nil
}

func (r *Recorder) AppendLog(ctx context.Context, e domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, e)
	r.record("log", e.Time, e.Message)
	return nil
}

func (r *Recorder) ShowDecisionCard(ctx context.Context, c domain.DecisionCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.card = &c
	r.record("decision_card", c.Title, c.Result)
	return nil
}

// Feature returns the current state of a line.
func (r *Recorder) Feature(id string) (domain.RouteFeature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.features[id]
	return f, ok
}

func (r *Recorder) Features() map[string]domain.RouteFeature {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]domain.RouteFeature, len(r.features))
	for k, v := range r.features {
		out[k] = v
	}
	return out
}

func (r *Recorder) Markers() map[string]domain.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]domain.Marker, len(r.markers))
	for k, v := range r.markers {
		out[k] = v
	}
	return out
}

func (r *Recorder) Popups() []domain.Popup {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Popup(nil), r.popups...)
}

func (r *Recorder) Logs() []domain.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LogEntry(nil), r.logs...)
}

func (r *Recorder) Card() (domain.DecisionCard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.card == nil {
		return domain.DecisionCard{}, false
	}
	return *r.card, true
}

// Ops returns the call journal in call order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}
