package ports

import (
	"context"
	"disruption-replay-service/internal/domain"
)

// MapSurface is the subset of map-library operations the replay needs.
// Implementations render, record or stream them; none compute routes.
type MapSurface interface {
	// Add a line feature. Adding an id that already exists is a no-op.
	AddLine(ctx context.Context, feature domain.RouteFeature) error
	// Replace the properties of an existing line feature.
	UpdateLine(ctx context.Context, feature domain.RouteFeature) error
	// Change how an existing line is drawn.
	SetPaint(ctx context.Context, featureID string, paint domain.Paint) error
	AddMarker(ctx context.Context, marker domain.Marker) error
	OpenPopup(ctx context.Context, popup domain.Popup) error
}

// OperatorPanel is the log list and decision card next to the map.
type OperatorPanel interface {
	AppendLog(ctx context.Context, entry domain.LogEntry) error
	ShowDecisionCard(ctx context.Context, card domain.DecisionCard) error
}
