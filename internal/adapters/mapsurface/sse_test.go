package mapsurface

import (
	"context"
	"disruption-replay-service/internal/domain"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStream(t *testing.T) {
	rec := httptest.NewRecorder()

	stream, err := NewEventStream(rec)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, stream.AppendLog(ctx, domain.LogEntry{Time: "10:01 AM", Message: "[ALERT] Bridge Collapse"}))
	require.NoError(t, stream.SetPaint(ctx, "route-1001", domain.Paint{Color: "#9e9e9e", Width: 3, Dashed: true}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "id: 1\nevent: log\ndata: {\"time\":\"10:01 AM\",\"message\":\"[ALERT] Bridge Collapse\"}\n\n")
	assert.Contains(t, body, "id: 2\nevent: paint\n")
	assert.Contains(t, body, `"line-dasharray":[2,2]`)
	assert.Equal(t, 2, strings.Count(body, "event: "))
}

func TestEventStreamStopsOnCancelledContext(t *testing.T) {
	stream, err := NewEventStream(httptest.NewRecorder())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, stream.AppendLog(ctx, domain.LogEntry{}), context.Canceled)
}
