package crossmarket

import (
	"math"
	"time"
)

// Lookback for the scenario detectors. Regimes build over more bars
// than the standing principles need.
const scenarioWindow = 30

// A scenario fires when its weighted condition score clears this.
const scenarioThreshold = 0.6

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// gradedUp scores how decisively the window is rising, 1.0 at or
// beyond the reference move.
func gradedUp(closes []float64, ref float64) float64 {
	if ref <= 0 {
		return 0
	}
	return clamp01(trend(closes) / ref)
}

func gradedDown(closes []float64, ref float64) float64 {
	if ref <= 0 {
		return 0
	}
	return clamp01(-trend(closes) / ref)
}

// volatility is the standard deviation of the window's returns.
func volatility(closes []float64) float64 {
	r := returns(closes)
	if len(r) < 2 {
		return 0
	}
	var mean float64
	for _, v := range r {
		mean += v
	}
	mean /= float64(len(r))
	var ss float64
	for _, v := range r {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(r)-1))
}

// usdTrend averages the majors into one dollar direction, positive for
// a strengthening dollar.
func usdTrend(store *MultiStore, t time.Time, n int) float64 {
	r := usdIndexReturns(store, t, n)
	if r == nil {
		return 0
	}
	var sum float64
	for _, v := range r {
		sum += v
	}
	return sum
}

// LongGold looks for the classic gold accumulation regime: a falling
// dollar, rising gold, commodities confirming, and yields easing.
type LongGold struct{}

func (LongGold) Name() string { return "long_gold" }

func (d LongGold) Evaluate(store *MultiStore, t time.Time) Signal {
	usd := usdTrend(store, t, scenarioWindow)
	score := 0.3*clamp01(-usd/0.02) +
		0.3*gradedUp(store.Window(keyGold, t, scenarioWindow), 0.02) +
		0.2*gradedUp(store.Window(keyCommodities, t, scenarioWindow), 0.02) +
		0.2*gradedDown(store.Window(keyBonds10Y, t, scenarioWindow), 0.03)

	return Signal{
		Name:       d.Name(),
		Kind:       Scenario,
		Active:     score > scenarioThreshold,
		Confidence: score,
		Bias:       Bullish,
		Risk:       RiskMedium,
	}
}

// NFPRateHike looks for the tightening regime that follows strong US
// employment: dollar bid, yields rising, gold sold.
type NFPRateHike struct{}

func (NFPRateHike) Name() string { return "nfp_rate_hike" }

func (d NFPRateHike) Evaluate(store *MultiStore, t time.Time) Signal {
	usd := usdTrend(store, t, scenarioWindow)
	score := 0.25*clamp01(usd/0.02) +
		0.25*gradedUp(store.Window(keyBonds10Y, t, scenarioWindow), 0.03) +
		0.25*gradedDown(store.Window(keyGold, t, scenarioWindow), 0.02) +
		0.15*gradedUp(store.Window(keyEquities, t, scenarioWindow), 0.01)

	// Weights sum to 0.9: the remaining tenth belonged to the release
	// surprise itself, which a bar-replay simulator cannot observe.
	return Signal{
		Name:       d.Name(),
		Kind:       Scenario,
		Active:     score > scenarioThreshold,
		Confidence: score,
		Bias:       Bearish,
		Risk:       RiskHigh,
	}
}

// QEEarnings looks for the easy-money melt-up: equities grinding
// higher while yields fall and the dollar softens.
type QEEarnings struct{}

func (QEEarnings) Name() string { return "qe_earnings_season" }

func (d QEEarnings) Evaluate(store *MultiStore, t time.Time) Signal {
	usd := usdTrend(store, t, scenarioWindow)
	score := 0.4*gradedUp(store.Window(keyEquities, t, scenarioWindow), 0.03) +
		0.3*gradedDown(store.Window(keyBonds10Y, t, scenarioWindow), 0.03) +
		0.3*clamp01(-usd/0.02)

	return Signal{
		Name:       d.Name(),
		Kind:       Scenario,
		Active:     score > scenarioThreshold,
		Confidence: score,
		Bias:       Bullish,
		Risk:       RiskLow,
	}
}

// DeflationFear looks for everything falling at once: yields,
// commodities, and equities all lower is a flight from risk.
type DeflationFear struct{}

func (DeflationFear) Name() string { return "deflation_fear" }

func (d DeflationFear) Evaluate(store *MultiStore, t time.Time) Signal {
	comms := store.Window(keyCommodities, t, scenarioWindow)
	if comms == nil {
		comms = store.Window(keyGold, t, scenarioWindow)
	}
	score := 0.35*gradedDown(store.Window(keyBonds10Y, t, scenarioWindow), 0.03) +
		0.35*gradedDown(comms, 0.02) +
		0.3*gradedDown(store.Window(keyEquities, t, scenarioWindow), 0.03)

	return Signal{
		Name:       d.Name(),
		Kind:       Scenario,
		Active:     score > scenarioThreshold,
		Confidence: score,
		Bias:       Bearish,
		Risk:       RiskHigh,
	}
}

// PolicyAmbiguity looks for a directionless dollar with elevated
// equity volatility, the signature of markets waiting on a central
// bank.
type PolicyAmbiguity struct{}

func (PolicyAmbiguity) Name() string { return "policy_ambiguity" }

func (d PolicyAmbiguity) Evaluate(store *MultiStore, t time.Time) Signal {
	usdRet := usdIndexReturns(store, t, scenarioWindow)
	equities := store.Window(keyEquities, t, scenarioWindow)
	if usdRet == nil || len(equities) < 2 {
		return Signal{Name: d.Name(), Kind: Scenario, Confidence: 0, Bias: Neutral, Risk: RiskLow}
	}

	var net, gross float64
	for _, v := range usdRet {
		net += v
		gross += math.Abs(v)
	}
	// Chop: lots of movement, nowhere to show for it.
	chop := 0.0
	if gross > 0 {
		chop = 1 - math.Abs(net)/gross
	}

	equityVol := volatility(equities)
	score := 0.5*clamp01(chop) + 0.5*clamp01(equityVol/0.01)

	return Signal{
		Name:       d.Name(),
		Kind:       Scenario,
		Active:     score > scenarioThreshold,
		Confidence: score,
		Bias:       Neutral,
		Risk:       RiskHigh,
	}
}
