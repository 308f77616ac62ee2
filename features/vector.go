// Package features flattens one simulation step into the fixed-order
// observation vector handed to a learning agent.
package features

import (
	"math"
	"time"

	"github.com/quantfold/fxsim/correlation"
	"github.com/quantfold/fxsim/crossmarket"
	"github.com/quantfold/fxsim/market"
	"github.com/quantfold/fxsim/news"
	"github.com/quantfold/fxsim/session"
	"github.com/quantfold/fxsim/sizing"
)

// Order is the fixed feature layout. Consumers index by position, so
// this list only ever grows at the end.
var order = []string{
	"session_liquidity",
	"session_volatility",
	"london_ny_overlap",
	"news_event_risk",
	"news_multiplier",
	"unified_confidence",
	"correlation_exposure",
	"crossmarket_confidence",
	"principles_score",
	"scenario_score",
	"net_currency_strength",
}

// Names returns the feature labels in vector order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Inputs carries everything one vector build needs.
type Inputs struct {
	Time       time.Time
	Instrument string
	News       news.Decision
	Report     crossmarket.Report
	Decision   sizing.Decision
	Strength   *correlation.CurrencyStrengthIndex
}

// eventRisk grades news proximity on [0, 1]. Inside a damped window
// risk is already realized; outside it decays with distance to the
// next high-impact release.
func eventRisk(d news.Decision) float64 {
	if d.Event != nil {
		if d.Event.Impact >= news.High {
			return 1.0
		}
		return 0.75
	}
	switch {
	case d.MinutesToNextHighImpact <= 60:
		return 0.75
	case d.MinutesToNextHighImpact <= 240:
		return 0.5
	default:
		return 0.25
	}
}

// Build assembles the observation vector, same length and order as
// Names.
func Build(in Inputs) []float64 {
	overlap := 0.0
	if session.IsLondonNYOverlap(in.Time) {
		overlap = 1.0
	}

	var exposure float64
	if c, ok := in.Decision.Component(sizing.SlotCorrelation); ok {
		exposure = c.Score
	}

	var strength float64
	if in.Strength != nil {
		if meta, ok := market.Lookup(in.Instrument); ok {
			strength = in.Strength.Strength(meta.BaseCurrency) - in.Strength.Strength(meta.QuoteCurrency)
		}
	}

	newsMult := in.News.Multiplier
	if math.IsNaN(newsMult) {
		newsMult = 1.0
	}

	return []float64{
		session.HolidayAdjustedLiquidity(in.Time),
		session.VolatilityMultiplier(in.Time),
		overlap,
		eventRisk(in.News),
		newsMult,
		in.Report.Confidence,
		exposure,
		confidenceOf(in.Report),
		in.Report.PrinciplesScore,
		in.Report.ScenarioScore,
		strength,
	}
}

// confidenceOf isolates the cross-market read used for the
// crossmarket_confidence slot: the report confidence scaled by how
// many detectors agree.
func confidenceOf(rep crossmarket.Report) float64 {
	if len(rep.Signals) == 0 || rep.ActiveCount == 0 {
		return 0
	}
	ratio := float64(rep.ActiveCount) / float64(len(rep.Signals))
	return rep.Confidence * math.Sqrt(ratio)
}
