package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickRangeByLabel(t *testing.T) {
	qr, ok := QuickRangeByLabel("Last 1 hour")
	require.True(t, ok)
	assert.Equal(t, Range{From: "now-1h", To: "now", Enabled: true}, qr.Range)

	_, ok = QuickRangeByLabel("Last eon")
	assert.False(t, ok)
}

func TestQuickRanges_AllResolvable(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	for _, qr := range QuickRanges {
		t.Run(qr.Label, func(t *testing.T) {
			resolved, err := ResolveAt(qr.Range, time.UTC, now)
			require.NoError(t, err)
			assert.False(t, resolved.To.Before(resolved.From), "from %v is after to %v", resolved.From, resolved.To)
		})
	}
}
