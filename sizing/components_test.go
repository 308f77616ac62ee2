package sizing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxsim/news"
)

func TestSessionComponent(t *testing.T) {
	t.Parallel()

	overlap := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	a := SessionComponent{}.Advise(overlap)
	assert.False(t, a.Block)
	assert.InDelta(t, 1.2, a.Multiplier, 1e-9)
	assert.Equal(t, "london+newyork", a.Reason)

	// Overlap trades tight: base spread scaled by 0.75.
	a = SessionComponent{BaseSpread: 0.0002}.Advise(overlap)
	assert.Equal(t, "london+newyork spread=0.00015", a.Reason)

	dead := time.Date(2024, 3, 6, 23, 0, 0, 0, time.UTC)
	a = SessionComponent{}.Advise(dead)
	assert.True(t, a.Block)
	assert.Equal(t, "dead hours", a.Reason)

	xmas := time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	a = SessionComponent{}.Advise(xmas)
	assert.True(t, a.Block)
	assert.Equal(t, "uk+us holiday", a.Reason)
}

func TestNewsComponent(t *testing.T) {
	t.Parallel()

	release := time.Date(2024, 3, 8, 13, 30, 0, 0, time.UTC)
	tracker, err := news.NewTracker([]news.Event{
		{Time: release, Currency: "USD", Impact: news.Extreme, Name: "Non-Farm Payrolls"},
	}, news.DefaultConfig())
	require.NoError(t, err)

	c := NewsComponent{Tracker: tracker}

	a := c.Advise(release.Add(-30*time.Minute), "EUR_USD")
	assert.True(t, a.Block)
	assert.InDelta(t, 0.05, a.Multiplier, 1e-9)
	assert.Equal(t, "USD Non-Farm Payrolls (extreme)", a.Reason)

	a = c.Advise(release.Add(-30*time.Minute), "EUR_JPY")
	assert.False(t, a.Block)
	assert.InDelta(t, 1.0, a.Multiplier, 1e-9)
	assert.Empty(t, a.Reason)
}
