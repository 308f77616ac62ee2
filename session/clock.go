// Package session scores trading hours. All decisions are pure
// functions of a UTC timestamp so replays are deterministic; session
// boundaries are fixed UTC hours and deliberately ignore DST shifts.
package session

import "time"

// Window is one named trading session. Hours are UTC; a window with
// StartHour > EndHour wraps midnight.
type Window struct {
	Name       string
	StartHour  int
	EndHour    int
	Liquidity  float64
	Volatility float64
}

var windows = []Window{
	{Name: "sydney", StartHour: 21, EndHour: 6, Liquidity: 0.3, Volatility: 0.6},
	{Name: "tokyo", StartHour: 0, EndHour: 9, Liquidity: 0.4, Volatility: 0.7},
	{Name: "london", StartHour: 8, EndHour: 17, Liquidity: 0.8, Volatility: 1.2},
	{Name: "newyork", StartHour: 13, EndHour: 22, Liquidity: 0.7, Volatility: 1.1},
}

// Scores used when no session window covers the hour (the weekend-like
// dead zone between New York close and Sydney open).
const (
	quietLiquidity  = 0.1
	quietVolatility = 0.5
)

// Overlap scores for the London/New York overlap, the deepest part of
// the trading day.
const (
	overlapLiquidity  = 1.0
	overlapVolatility = 1.3
)

func (w Window) contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// Active returns the names of all sessions open at t.
func Active(t time.Time) []string {
	hour := t.UTC().Hour()
	var names []string
	for _, w := range windows {
		if w.contains(hour) {
			names = append(names, w.Name)
		}
	}
	return names
}

// IsLondonNYOverlap reports whether t falls in the 13:00-17:00 UTC
// window where both London and New York are open.
func IsLondonNYOverlap(t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= 13 && hour < 17
}

// LiquidityScore rates available liquidity at t on [0.1, 1.0].
// Overlapping sessions pool their liquidity, capped at 1.0; the
// London/NY overlap pins it to 1.0 regardless.
func LiquidityScore(t time.Time) float64 {
	if IsLondonNYOverlap(t) {
		return overlapLiquidity
	}
	hour := t.UTC().Hour()
	score := 0.0
	for _, w := range windows {
		if w.contains(hour) {
			score += w.Liquidity
		}
	}
	if score == 0 {
		return quietLiquidity
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// VolatilityMultiplier rates expected volatility at t relative to the
// daily average (1.0).
func VolatilityMultiplier(t time.Time) float64 {
	if IsLondonNYOverlap(t) {
		return overlapVolatility
	}
	hour := t.UTC().Hour()
	mult := 0.0
	for _, w := range windows {
		if w.contains(hour) && w.Volatility > mult {
			mult = w.Volatility
		}
	}
	if mult == 0 {
		return quietVolatility
	}
	return mult
}

// SpreadMultiplier scales a baseline spread for the session. Thin
// sessions trade wide.
func SpreadMultiplier(t time.Time) float64 {
	if IsLondonNYOverlap(t) {
		return 0.75
	}
	hour := t.UTC().Hour()
	switch {
	case windows[2].contains(hour): // london
		return 1.2
	case windows[3].contains(hour): // newyork
		return 1.0
	case windows[1].contains(hour): // tokyo
		return 2.5
	case windows[0].contains(hour): // sydney
		return 1.8
	default:
		return 3.0
	}
}

// Snapshot is every session-derived score for one instant.
type Snapshot struct {
	Time               time.Time
	Sessions           []string
	LondonNYOverlap    bool
	Liquidity          float64
	Volatility         float64
	Spread             float64
	AdjustedLiquidity  float64
	PositionMultiplier float64
	ShouldAvoid        bool
}

// At evaluates every session score at t in one pass.
func At(t time.Time) Snapshot {
	return Snapshot{
		Time:               t.UTC(),
		Sessions:           Active(t),
		LondonNYOverlap:    IsLondonNYOverlap(t),
		Liquidity:          LiquidityScore(t),
		Volatility:         VolatilityMultiplier(t),
		Spread:             SpreadMultiplier(t),
		AdjustedLiquidity:  HolidayAdjustedLiquidity(t),
		PositionMultiplier: PositionMultiplier(t),
		ShouldAvoid:        ShouldAvoid(t),
	}
}

// PositionMultiplier scales a proposed position for session quality:
// halved when holiday-adjusted liquidity is thin, boosted when
// liquidity and volatility are both elevated (in practice the
// London/NY overlap), unchanged otherwise.
func PositionMultiplier(t time.Time) float64 {
	liq := HolidayAdjustedLiquidity(t)
	switch {
	case liq < 0.3:
		return 0.5
	case liq > 0.8 && VolatilityMultiplier(t) > 1.0:
		return 1.2
	default:
		return 1.0
	}
}

// ShouldAvoid reports whether t is a time to stand aside: both the UK
// and US on holiday, liquidity crushed by holidays, or the dead hours
// around the New York close.
func ShouldAvoid(t time.Time) bool {
	if IsHoliday(t, "UK") && IsHoliday(t, "US") {
		return true
	}
	if HolidayAdjustedLiquidity(t) < 0.2 {
		return true
	}
	hour := t.UTC().Hour()
	return hour >= 22 || hour < 1
}
