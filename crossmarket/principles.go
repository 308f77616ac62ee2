package crossmarket

import (
	"math"
	"time"

	"github.com/quantfold/fxsim/correlation"
)

// Default lookback for the principle detectors, in aligned bars.
const principleWindow = 20

// Series keys the principle detectors read. The store may track any
// subset; detectors report inactive when their inputs are missing.
const (
	keyBonds10Y    = "bonds/US10Y"
	keyBondsCA10Y  = "bonds/CA10Y"
	keyBondsUK10Y  = "bonds/UK10Y"
	keyCommodities = "commodities/CRB"
	keyGold        = "commodities/XAU_USD"
	keyEquities    = "equities/SPX"
	keyUSDCAD      = "forex/USD_CAD"
	keyGBPUSD      = "forex/GBP_USD"
	keyEURUSD      = "forex/EUR_USD"
	keyUSDJPY      = "forex/USD_JPY"
	keyAUDUSD      = "forex/AUD_USD"
)

func inactive(name string, kind Kind) Signal {
	return Signal{Name: name, Kind: kind, Confidence: 0.2, Bias: Neutral, Risk: RiskLow}
}

// BondsCommodities tracks the classic inverse relationship: rising
// yields pressure commodities. A strong inverse correlation with
// bonds trending up reads bearish for commodity-linked risk.
type BondsCommodities struct{}

func (BondsCommodities) Name() string { return "bonds_commodities_inverse" }

func (d BondsCommodities) Evaluate(store *MultiStore, t time.Time) Signal {
	bonds := store.Window(keyBonds10Y, t, principleWindow)
	comms := store.Window(keyCommodities, t, principleWindow)
	if comms == nil {
		comms = store.Window(keyGold, t, principleWindow)
	}
	corr, ok := correlation.Pearson(returns(bonds), returns(comms))
	if !ok {
		return inactive(d.Name(), Principle)
	}

	inv := -corr
	if inv <= 0.3 {
		return inactive(d.Name(), Principle)
	}

	bias := Bullish
	risk := RiskLow
	if trend(bonds) > 0 {
		bias = Bearish
		risk = RiskMedium
	}
	return Signal{
		Name:       d.Name(),
		Kind:       Principle,
		Active:     true,
		Confidence: math.Min(1, inv*2),
		Bias:       bias,
		Risk:       risk,
	}
}

// BondsLeadEquities checks whether bond moves lead equity moves at
// lags of one to five bars. Bonds turning down ahead of equities is a
// warning.
type BondsLeadEquities struct{}

func (BondsLeadEquities) Name() string { return "bonds_lead_equities" }

func (d BondsLeadEquities) Evaluate(store *MultiStore, t time.Time) Signal {
	bonds := returns(store.Window(keyBonds10Y, t, principleWindow+5))
	equities := returns(store.Window(keyEquities, t, principleWindow+5))
	if len(bonds) < 10 || len(equities) < 10 {
		return inactive(d.Name(), Principle)
	}

	var best float64
	bestLag := 0
	for lag := 1; lag <= 5; lag++ {
		if lag >= len(bonds) {
			break
		}
		// Bond returns lagged behind equities: bonds[0:n-lag] vs
		// equities[lag:n].
		n := len(bonds) - lag
		if len(equities)-lag < n {
			n = len(equities) - lag
		}
		if n < 5 {
			continue
		}
		corr, ok := correlation.Pearson(bonds[:n], equities[lag:lag+n])
		if ok && math.Abs(corr) > math.Abs(best) {
			best = corr
			bestLag = lag
		}
	}
	if bestLag == 0 || math.Abs(best) <= 0.3 {
		return inactive(d.Name(), Principle)
	}

	strength := math.Abs(best)
	bondTrend := trend(store.Window(keyBonds10Y, t, principleWindow))
	equityTrend := trend(store.Window(keyEquities, t, principleWindow))
	// A positive lead relationship with both markets already moving
	// the same way is the textbook confirmation.
	match := (best > 0) == ((bondTrend > 0) == (equityTrend > 0))
	conf := strength * 0.8
	if match {
		conf = math.Min(1, strength*1.2)
	}

	bias := Bullish
	risk := RiskLow
	if bondTrend < 0 && best > 0 {
		bias = Bearish
		risk = RiskMedium
	}
	return Signal{Name: d.Name(), Kind: Principle, Active: true, Confidence: conf, Bias: bias, Risk: risk}
}

// CommoditiesCurrencies relates gold strength to broad dollar
// weakness: gold rallying while the dollar index falls confirms a
// risk-on, dollar-bearish regime.
type CommoditiesCurrencies struct{}

func (CommoditiesCurrencies) Name() string { return "commodities_currencies" }

// usdIndexReturns proxies a dollar index from the majors, inverting
// pairs where USD is the quote currency.
func usdIndexReturns(store *MultiStore, t time.Time, n int) []float64 {
	legs := []struct {
		key    string
		invert bool
	}{
		{keyEURUSD, true},
		{keyGBPUSD, true},
		{keyAUDUSD, true},
		{keyUSDJPY, false},
		{keyUSDCAD, false},
	}

	var acc []float64
	count := 0
	for _, leg := range legs {
		r := returns(store.Window(leg.key, t, n))
		if r == nil {
			continue
		}
		if acc == nil {
			acc = make([]float64, len(r))
		}
		if len(r) != len(acc) {
			continue
		}
		for i, v := range r {
			if leg.invert {
				v = -v
			}
			acc[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range acc {
		acc[i] /= float64(count)
	}
	return acc
}

func (d CommoditiesCurrencies) Evaluate(store *MultiStore, t time.Time) Signal {
	gold := store.Window(keyGold, t, principleWindow)
	usd := usdIndexReturns(store, t, principleWindow)
	corr, ok := correlation.Pearson(returns(gold), usd)
	if !ok {
		return inactive(d.Name(), Principle)
	}

	// Expect gold and the dollar to move inversely.
	s := -corr
	if s <= 0.3 {
		return inactive(d.Name(), Principle)
	}

	bias := Neutral
	if trend(gold) > 0.01 {
		bias = Bullish
	} else if trend(gold) < -0.01 {
		bias = Bearish
	}
	return Signal{
		Name:       d.Name(),
		Kind:       Principle,
		Active:     true,
		Confidence: math.Min(1, s*1.5),
		Bias:       bias,
		Risk:       RiskLow,
	}
}

// RateDifferential checks that yield spreads drive their currency
// pairs: US-CA 10y spread with USD_CAD and UK-US 10y spread with
// GBP_USD.
type RateDifferential struct{}

func (RateDifferential) Name() string { return "rate_differential" }

func spreadSeries(a, b []float64) []float64 {
	if len(a) != len(b) || len(a) == 0 {
		return nil
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func diffs(vals []float64) []float64 {
	if len(vals) < 2 {
		return nil
	}
	out := make([]float64, len(vals)-1)
	for i := 1; i < len(vals); i++ {
		out[i-1] = vals[i] - vals[i-1]
	}
	return out
}

func (d RateDifferential) Evaluate(store *MultiStore, t time.Time) Signal {
	type pairing struct {
		spread []float64
		pair   []float64
	}
	pairings := []pairing{
		{
			spread: spreadSeries(
				store.Window(keyBonds10Y, t, principleWindow),
				store.Window(keyBondsCA10Y, t, principleWindow)),
			pair: store.Window(keyUSDCAD, t, principleWindow),
		},
		{
			spread: spreadSeries(
				store.Window(keyBondsUK10Y, t, principleWindow),
				store.Window(keyBonds10Y, t, principleWindow)),
			pair: store.Window(keyGBPUSD, t, principleWindow),
		},
	}

	var sum float64
	var count int
	for _, p := range pairings {
		corr, ok := correlation.Pearson(diffs(p.spread), returns(p.pair))
		if !ok {
			continue
		}
		sum += math.Abs(corr)
		count++
	}
	if count == 0 {
		return Signal{Name: d.Name(), Kind: Principle, Confidence: 0.3, Bias: Neutral, Risk: RiskLow}
	}

	avg := sum / float64(count)
	if avg <= 0.4 {
		return Signal{Name: d.Name(), Kind: Principle, Confidence: 0.3, Bias: Neutral, Risk: RiskLow}
	}
	return Signal{
		Name:       d.Name(),
		Kind:       Principle,
		Active:     true,
		Confidence: math.Min(1, avg*1.2),
		Bias:       Neutral,
		Risk:       RiskLow,
	}
}

// Confirmation is the meta principle: the more of the other standing
// relationships hold at once, the more weight any one of them
// deserves.
type Confirmation struct {
	// Peers are the detectors being confirmed; usually the other four
	// principles.
	Peers []Detector
}

func (Confirmation) Name() string { return "cross_market_confirmation" }

func (d Confirmation) Evaluate(store *MultiStore, t time.Time) Signal {
	if len(d.Peers) == 0 {
		return inactive(d.Name(), Principle)
	}

	var active int
	var confSum float64
	var biasSum int
	var maxRisk RiskLevel
	for _, peer := range d.Peers {
		sig := peer.Evaluate(store, t)
		if !sig.Active {
			continue
		}
		active++
		confSum += sig.Confidence
		biasSum += int(sig.Bias)
		if sig.Risk > maxRisk {
			maxRisk = sig.Risk
		}
	}
	if active == 0 {
		return inactive(d.Name(), Principle)
	}

	ratio := float64(active) / float64(len(d.Peers))
	conf := ratio * (confSum / float64(active))

	bias := Neutral
	if biasSum > 0 {
		bias = Bullish
	} else if biasSum < 0 {
		bias = Bearish
	}
	return Signal{
		Name:       d.Name(),
		Kind:       Principle,
		Active:     ratio >= 0.5,
		Confidence: conf,
		Bias:       bias,
		Risk:       maxRisk,
	}
}
