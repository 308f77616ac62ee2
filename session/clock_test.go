package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-03-06 is a plain Wednesday with no holidays anywhere.
func plainDay(hour int) time.Time {
	return time.Date(2024, 3, 6, hour, 30, 0, 0, time.UTC)
}

func TestActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hour int
		want []string
	}{
		{"midnight sydney and tokyo", 0, []string{"sydney", "tokyo"}},
		{"tokyo only", 7, []string{"tokyo"}},
		{"tokyo and london", 8, []string{"tokyo", "london"}},
		{"london only", 10, []string{"london"}},
		{"london and newyork", 14, []string{"london", "newyork"}},
		{"newyork only", 18, []string{"newyork"}},
		{"sydney and newyork", 21, []string{"sydney", "newyork"}},
		{"dead zone", 22, []string{"sydney"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Active(plainDay(tt.hour)))
		})
	}
}

func TestLondonNYOverlap(t *testing.T) {
	t.Parallel()

	assert.False(t, IsLondonNYOverlap(plainDay(12)))
	assert.True(t, IsLondonNYOverlap(plainDay(13)))
	assert.True(t, IsLondonNYOverlap(plainDay(16)))
	assert.False(t, IsLondonNYOverlap(plainDay(17)))
}

func TestLiquidityAndVolatility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hour    int
		wantLiq float64
		wantVol float64
	}{
		{"overlap is the deepest window", 14, 1.0, 1.3},
		{"london outside overlap", 10, 0.8, 1.2},
		{"newyork after london close", 18, 0.7, 1.1},
		{"tokyo and sydney pool", 5, 0.7, 0.7},
		{"tokyo and london cap at one", 8, 1.0, 1.2},
		{"sydney and newyork cap at one", 21, 1.0, 1.1},
		{"sydney alone", 23, 0.3, 0.6},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			at := plainDay(tt.hour)
			assert.InDelta(t, tt.wantLiq, LiquidityScore(at), 1e-9)
			assert.InDelta(t, tt.wantVol, VolatilityMultiplier(at), 1e-9)
		})
	}
}

func TestSpreadMultiplier(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.75, SpreadMultiplier(plainDay(15)), 1e-9)
	assert.InDelta(t, 1.2, SpreadMultiplier(plainDay(10)), 1e-9)
	assert.InDelta(t, 1.0, SpreadMultiplier(plainDay(18)), 1e-9)
	assert.InDelta(t, 2.5, SpreadMultiplier(plainDay(4)), 1e-9)
	assert.InDelta(t, 1.8, SpreadMultiplier(plainDay(23)), 1e-9)
}

func TestPositionMultiplier(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.2, PositionMultiplier(plainDay(14)), 1e-9)
	assert.InDelta(t, 1.0, PositionMultiplier(plainDay(10)), 1e-9)

	// Holiday damping feeds the thin-liquidity branch: UK+US out during
	// London hours crushes 0.8 to 0.24 and halves the size.
	xmas := time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.5, PositionMultiplier(xmas), 1e-9)

	// A single-region holiday during the overlap suppresses the boost.
	july4 := time.Date(2024, 7, 4, 14, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.0, PositionMultiplier(july4), 1e-9)

	// The four standard windows cover every UTC hour, so the quiet
	// fallback only fires if the window table shrinks.
	for h := 0; h < 24; h++ {
		assert.NotEmpty(t, Active(plainDay(h)), "hour %d", h)
	}
}

func TestShouldAvoid(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldAvoid(plainDay(22)), "dead hours after NY close")
	assert.True(t, ShouldAvoid(plainDay(0)), "dead hours before Sydney settles")
	assert.False(t, ShouldAvoid(plainDay(14)), "overlap on a plain day")

	// 2024-12-25: UK and US both closed.
	xmas := time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	assert.True(t, ShouldAvoid(xmas))
}

func TestHolidayAdjustedLiquidity(t *testing.T) {
	t.Parallel()

	// Plain day: no damping.
	assert.InDelta(t, 1.0, HolidayAdjustedLiquidity(plainDay(14)), 1e-9)

	// 2024-07-04: US only. Overlap liquidity 1.0 damped by 0.6.
	july4 := time.Date(2024, 7, 4, 14, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.6, HolidayAdjustedLiquidity(july4), 1e-9)

	// 2024-12-25: UK and US both out, 1.0 * 0.3.
	xmas := time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.3, HolidayAdjustedLiquidity(xmas), 1e-9)

	// 2025-01-01: UK, US and JP all out during Tokyo/Sydney. Only the
	// worst factor applies: 0.7 * 0.3, the JP damp does not stack.
	newYear := time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.21, HolidayAdjustedLiquidity(newYear), 1e-9)

	// 2025-02-11: JP alone, 0.7 * 0.8.
	jpOnly := time.Date(2025, 2, 11, 3, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.56, HolidayAdjustedLiquidity(jpOnly), 1e-9)
}

func TestIsHoliday(t *testing.T) {
	t.Parallel()

	assert.True(t, IsHoliday(time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC), "US"))
	assert.True(t, IsHoliday(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "JP"))
	assert.False(t, IsHoliday(time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC), "UK"))
	assert.False(t, IsHoliday(plainDay(9), "XX"), "unknown region is never a holiday")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	snap := At(plainDay(14))
	assert.True(t, snap.LondonNYOverlap)
	assert.InDelta(t, 1.0, snap.Liquidity, 1e-9)
	assert.InDelta(t, 1.3, snap.Volatility, 1e-9)
	assert.InDelta(t, 1.2, snap.PositionMultiplier, 1e-9)
	assert.False(t, snap.ShouldAvoid)
	assert.Equal(t, []string{"london", "newyork"}, snap.Sessions)
}
