package session

import "time"

// Bank holiday calendars by region, keyed "YYYY-MM-DD". Static tables
// covering the replay years; extend as new data files are added.
var holidays = map[string]map[string]bool{
	"UK": {
		"2024-01-01": true, "2024-03-29": true, "2024-04-01": true,
		"2024-05-06": true, "2024-05-27": true, "2024-08-26": true,
		"2024-12-25": true, "2024-12-26": true,
		"2025-01-01": true, "2025-04-18": true, "2025-04-21": true,
		"2025-05-05": true, "2025-05-26": true, "2025-08-25": true,
		"2025-12-25": true, "2025-12-26": true,
		"2026-01-01": true, "2026-04-03": true, "2026-04-06": true,
		"2026-05-04": true, "2026-05-25": true, "2026-08-31": true,
		"2026-12-25": true, "2026-12-28": true,
	},
	"US": {
		"2024-01-01": true, "2024-01-15": true, "2024-02-19": true,
		"2024-05-27": true, "2024-06-19": true, "2024-07-04": true,
		"2024-09-02": true, "2024-11-28": true, "2024-12-25": true,
		"2025-01-01": true, "2025-01-20": true, "2025-02-17": true,
		"2025-05-26": true, "2025-06-19": true, "2025-07-04": true,
		"2025-09-01": true, "2025-11-27": true, "2025-12-25": true,
		"2026-01-01": true, "2026-01-19": true, "2026-02-16": true,
		"2026-05-25": true, "2026-06-19": true, "2026-07-03": true,
		"2026-09-07": true, "2026-11-26": true, "2026-12-25": true,
	},
	"JP": {
		"2024-01-01": true, "2024-02-12": true, "2024-03-20": true,
		"2024-04-29": true, "2024-05-03": true, "2024-05-06": true,
		"2024-07-15": true, "2024-08-12": true, "2024-09-16": true,
		"2024-10-14": true, "2024-11-04": true, "2024-12-31": true,
		"2025-01-01": true, "2025-02-11": true, "2025-03-20": true,
		"2025-04-29": true, "2025-05-05": true, "2025-05-06": true,
		"2025-07-21": true, "2025-08-11": true, "2025-09-15": true,
		"2025-10-13": true, "2025-11-03": true, "2025-12-31": true,
		"2026-01-01": true, "2026-02-11": true, "2026-03-20": true,
		"2026-04-29": true, "2026-05-04": true, "2026-05-06": true,
		"2026-07-20": true, "2026-08-11": true, "2026-09-21": true,
		"2026-10-12": true, "2026-11-03": true, "2026-12-31": true,
	},
}

// Liquidity damping: both UK and US out guts the deepest sessions,
// one of them still hurts, Japan thins the Asian hours. Exactly one
// factor applies, worst case first.
const (
	bothUKUSDamping = 0.3
	oneUKUSDamping  = 0.6
	jpDamping       = 0.8
)

// IsHoliday reports whether the UTC date of t is a bank holiday in the
// given region ("UK", "US", "JP").
func IsHoliday(t time.Time, region string) bool {
	cal, ok := holidays[region]
	if !ok {
		return false
	}
	return cal[t.UTC().Format("2006-01-02")]
}

// HolidayAdjustedLiquidity is the session liquidity score damped for
// whichever regions are on holiday.
func HolidayAdjustedLiquidity(t time.Time) float64 {
	liq := LiquidityScore(t)
	uk, us := IsHoliday(t, "UK"), IsHoliday(t, "US")
	switch {
	case uk && us:
		liq *= bothUKUSDamping
	case uk || us:
		liq *= oneUKUSDamping
	case IsHoliday(t, "JP"):
		liq *= jpDamping
	}
	return liq
}
