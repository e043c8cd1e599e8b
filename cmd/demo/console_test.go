package main

import (
	"bytes"
	"context"
	"disruption-replay-service/internal/adapters/mapsurface"
	"disruption-replay-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleForwardsToPanel(t *testing.T) {
	var out bytes.Buffer
	rec := mapsurface.NewRecorder(nil, nil)
	c := newConsole(&out, rec)
	ctx := context.Background()

	require.NoError(t, c.AppendLog(ctx, domain.LogEntry{Time: "10:01 AM", Message: "[ALERT] Bridge Collapse"}))
	require.NoError(t, c.ShowDecisionCard(ctx, domain.DecisionCard{
		Title:   "System Recommendation: Split Shipment #1001",
		OptionA: "Reroute",
		OptionB: "Split",
		Result:  "ACTION: Splitting shipment",
	}))

	assert.Contains(t, out.String(), "[ALERT] Bridge Collapse")
	assert.Contains(t, out.String(), "System Recommendation: Split Shipment #1001")
	assert.Contains(t, out.String(), "ACTION: Splitting shipment")

	assert.Len(t, rec.Logs(), 1)
	card, ok := rec.Card()
	require.True(t, ok)
	assert.Equal(t, "Split", card.OptionB)
}
