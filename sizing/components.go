package sizing

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantfold/fxsim/correlation"
	"github.com/quantfold/fxsim/crossmarket"
	"github.com/quantfold/fxsim/market"
	"github.com/quantfold/fxsim/news"
	"github.com/quantfold/fxsim/session"
)

// SessionComponent adapts the session clock to the pipeline.
type SessionComponent struct {
	// BaseSpread is the instrument's typical spread in price units;
	// when set, the journaled reason carries the session-scaled
	// spread estimate.
	BaseSpread float64
}

func (c SessionComponent) Advise(t time.Time) Advice {
	snap := session.At(t)
	if snap.ShouldAvoid {
		return Advice{
			Multiplier: snap.PositionMultiplier,
			Block:      true,
			Score:      snap.AdjustedLiquidity,
			Reason:     avoidReason(snap),
		}
	}
	reason := strings.Join(snap.Sessions, "+")
	if c.BaseSpread > 0 {
		reason = fmt.Sprintf("%s spread=%.5f", reason, c.BaseSpread*snap.Spread)
	}
	return Advice{
		Multiplier: snap.PositionMultiplier,
		Score:      snap.AdjustedLiquidity,
		Reason:     reason,
	}
}

func avoidReason(snap session.Snapshot) string {
	switch {
	case session.IsHoliday(snap.Time, "UK") && session.IsHoliday(snap.Time, "US"):
		return "uk+us holiday"
	case snap.AdjustedLiquidity < 0.2:
		return "holiday liquidity"
	default:
		return "dead hours"
	}
}

// NewsComponent adapts the event tracker to the pipeline.
type NewsComponent struct {
	Tracker *news.Tracker
}

func (c NewsComponent) Advise(t time.Time, instrument string) Advice {
	d := c.Tracker.Decide(t, instrument)
	a := Advice{
		Multiplier: d.Multiplier,
		Block:      d.ShouldAvoid,
		Score:      d.MinutesToNextHighImpact,
	}
	if d.Event != nil {
		a.Reason = fmt.Sprintf("%s %s (%s)", d.Event.Currency, d.Event.Name, d.Event.Impact)
	}
	return a
}

// CorrelationComponent adapts the correlation tracker to the pipeline.
type CorrelationComponent struct {
	Tracker *correlation.Tracker
}

func (c CorrelationComponent) Advise(instrument string, proposedUnits float64, positions []market.Position) Advice {
	exposure := c.Tracker.Exposure(instrument, proposedUnits, positions)
	m := c.Tracker.Multiplier(instrument, proposedUnits, positions)
	a := Advice{Multiplier: m, Score: exposure}
	if m < 1.0 {
		a.Reason = fmt.Sprintf("correlated exposure %.2f", exposure)
	}
	return a
}

// CrossMarketComponent adapts the detector aggregator to the pipeline.
type CrossMarketComponent struct {
	Store *crossmarket.MultiStore
	Agg   *crossmarket.Aggregator
}

func (c CrossMarketComponent) Report(t time.Time) crossmarket.Report {
	return c.Agg.Evaluate(c.Store, t)
}
