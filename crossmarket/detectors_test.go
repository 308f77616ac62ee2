package crossmarket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxsim/market"
)

// geo builds a series compounding at rate per bar, so its returns are
// constant and trends are easy to dial in.
func geo(n int, start, rate float64) []float64 {
	out := make([]float64, n)
	px := start
	for i := range out {
		out[i] = px
		px *= 1 + rate
	}
	return out
}

// wiggle overlays a small alternating move so two series' returns
// correlate (or anti-correlate) instead of being constant.
func wiggle(closes []float64, amp float64, flip bool) []float64 {
	out := make([]float64, len(closes))
	sign := 1.0
	if flip {
		sign = -1
	}
	for i, c := range closes {
		if i%2 == 1 {
			out[i] = c * (1 + sign*amp)
		} else {
			out[i] = c * (1 - sign*amp)
		}
	}
	return out
}

func multiStore(t *testing.T, data map[string][]float64) *MultiStore {
	t.Helper()
	stores := make(map[string]*market.BarStore, len(data))
	for key, closes := range data {
		stores[key] = series(t, key, t0, closes)
	}
	m, err := NewMultiStore(stores)
	require.NoError(t, err)
	return m
}

func at(h int) time.Time { return t0.Add(time.Duration(h) * time.Hour) }

func TestBondsCommoditiesInverse(t *testing.T) {
	t.Parallel()

	// Bonds rising while commodities mirror every move downward.
	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    wiggle(geo(40, 4.0, 0.002), 0.004, false),
		keyCommodities: wiggle(geo(40, 300, -0.002), 0.004, true),
	})

	sig := BondsCommodities{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Greater(t, sig.Confidence, 0.9)
	assert.Equal(t, Bearish, sig.Bias, "rising yields pressure risk")
	assert.Equal(t, RiskMedium, sig.Risk)
	assert.Equal(t, Principle, sig.Kind)
}

func TestBondsCommoditiesFallsBackToGold(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyBonds10Y: wiggle(geo(40, 4.0, -0.002), 0.004, false),
		keyGold:     wiggle(geo(40, 2300, 0.002), 0.004, true),
	})

	sig := BondsCommodities{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Equal(t, Bullish, sig.Bias, "falling yields with the inverse holding")
}

func TestBondsCommoditiesInactiveWithoutRelationship(t *testing.T) {
	t.Parallel()

	// Same-direction wiggles: positive correlation, inverse absent.
	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    wiggle(geo(40, 4.0, 0.001), 0.004, false),
		keyCommodities: wiggle(geo(40, 300, 0.001), 0.004, false),
	})

	sig := BondsCommodities{}.Evaluate(m, at(39))
	assert.False(t, sig.Active)
	assert.InDelta(t, 0.2, sig.Confidence, 1e-9)
	assert.Equal(t, Neutral, sig.Bias)
}

func TestRateDifferential(t *testing.T) {
	t.Parallel()

	// Widening US-CA spread with USD_CAD tracking it bar for bar.
	spread := wiggle(geo(40, 4.0, 0.002), 0.01, false)
	caYield := geo(40, 3.5, 0)
	usdcad := make([]float64, 40)
	for i := range usdcad {
		// Pair level follows the spread level directly.
		usdcad[i] = 1.30 + (spread[i]-caYield[i])*0.1
	}

	m := multiStore(t, map[string][]float64{
		keyBonds10Y:   spread,
		keyBondsCA10Y: caYield,
		keyUSDCAD:     usdcad,
	})

	sig := RateDifferential{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Greater(t, sig.Confidence, 0.4)
}

func TestRateDifferentialNoData(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyEquities: geo(40, 5000, 0.001),
	})

	sig := RateDifferential{}.Evaluate(m, at(39))
	assert.False(t, sig.Active)
	assert.InDelta(t, 0.3, sig.Confidence, 1e-9)
}

func TestDeflationFear(t *testing.T) {
	t.Parallel()

	// Everything down hard: yields, commodities, equities.
	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    geo(40, 4.0, -0.003),
		keyCommodities: geo(40, 300, -0.003),
		keyEquities:    geo(40, 5000, -0.003),
	})

	sig := DeflationFear{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Greater(t, sig.Confidence, 0.9)
	assert.Equal(t, Bearish, sig.Bias)
	assert.Equal(t, RiskHigh, sig.Risk)
	assert.Equal(t, Scenario, sig.Kind)
}

func TestDeflationFearQuietMarkets(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    geo(40, 4.0, 0.0001),
		keyCommodities: geo(40, 300, 0.0001),
		keyEquities:    geo(40, 5000, 0.0001),
	})

	sig := DeflationFear{}.Evaluate(m, at(39))
	assert.False(t, sig.Active)
	assert.Less(t, sig.Confidence, 0.1)
}

func TestLongGold(t *testing.T) {
	t.Parallel()

	// Dollar sliding, gold and commodities bid, yields easing.
	m := multiStore(t, map[string][]float64{
		keyEURUSD:      geo(40, 1.08, 0.001),
		keyGBPUSD:      geo(40, 1.27, 0.001),
		keyAUDUSD:      geo(40, 0.66, 0.001),
		keyUSDJPY:      geo(40, 150, -0.001),
		keyUSDCAD:      geo(40, 1.35, -0.001),
		keyGold:        geo(40, 2300, 0.002),
		keyCommodities: geo(40, 300, 0.002),
		keyBonds10Y:    geo(40, 4.0, -0.002),
	})

	sig := LongGold{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Greater(t, sig.Confidence, scenarioThreshold)
	assert.Equal(t, Bullish, sig.Bias)
}

func TestNFPRateHike(t *testing.T) {
	t.Parallel()

	// Dollar bid, yields up, gold sold, equities steady-to-firm.
	m := multiStore(t, map[string][]float64{
		keyEURUSD:   geo(40, 1.08, -0.001),
		keyGBPUSD:   geo(40, 1.27, -0.001),
		keyAUDUSD:   geo(40, 0.66, -0.001),
		keyUSDJPY:   geo(40, 150, 0.001),
		keyUSDCAD:   geo(40, 1.35, 0.001),
		keyBonds10Y: geo(40, 4.0, 0.002),
		keyGold:     geo(40, 2300, -0.002),
		keyEquities: geo(40, 5000, 0.001),
	})

	sig := NFPRateHike{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Equal(t, Bearish, sig.Bias)
	assert.Equal(t, RiskHigh, sig.Risk)
}

func TestPolicyAmbiguity(t *testing.T) {
	t.Parallel()

	// Dollar chopping sideways, equities volatile.
	m := multiStore(t, map[string][]float64{
		keyEURUSD:   wiggle(geo(40, 1.08, 0), 0.005, false),
		keyGBPUSD:   wiggle(geo(40, 1.27, 0), 0.005, true),
		keyUSDJPY:   wiggle(geo(40, 150, 0), 0.005, false),
		keyEquities: wiggle(geo(40, 5000, 0), 0.01, false),
	})

	sig := PolicyAmbiguity{}.Evaluate(m, at(39))
	assert.True(t, sig.Active)
	assert.Equal(t, Neutral, sig.Bias)
	assert.Equal(t, RiskHigh, sig.Risk)
}

func TestConfirmation(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    wiggle(geo(40, 4.0, 0.002), 0.004, false),
		keyCommodities: wiggle(geo(40, 300, -0.002), 0.004, true),
	})

	always := BondsCommodities{}
	never := RateDifferential{} // no inputs in this store, stays inactive

	sig := Confirmation{Peers: []Detector{always, never}}.Evaluate(m, at(39))
	// One of two peers active: ratio 0.5, confirmation fires at the
	// boundary.
	assert.True(t, sig.Active)
	assert.Greater(t, sig.Confidence, 0.4)

	none := Confirmation{Peers: []Detector{never}}.Evaluate(m, at(39))
	assert.False(t, none.Active)

	empty := Confirmation{}.Evaluate(m, at(39))
	assert.False(t, empty.Active)
}

func TestAggregatorReport(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyBonds10Y:    geo(40, 4.0, -0.003),
		keyCommodities: geo(40, 300, -0.003),
		keyEquities:    geo(40, 5000, -0.003),
	})

	agg := NewAggregator(DefaultDetectors()...)
	rep := agg.Evaluate(m, at(39))

	require.Len(t, rep.Signals, 10)
	assert.GreaterOrEqual(t, rep.ActiveCount, 1, "deflation fear fires on this tape")
	assert.Equal(t, RiskHigh, rep.Risk)
	assert.Equal(t, Bearish, rep.Bias)
	assert.Greater(t, rep.ScenarioScore, 0.9)
	assert.Greater(t, rep.Confidence, 0.0)
	assert.Greater(t, rep.PrinciplesScore, 0.0)
}

func TestAggregatorQuietTape(t *testing.T) {
	t.Parallel()

	m := multiStore(t, map[string][]float64{
		keyBonds10Y: geo(40, 4.0, 0.0001),
		keyEquities: geo(40, 5000, 0.0001),
	})

	rep := NewAggregator(DefaultDetectors()...).Evaluate(m, at(39))
	assert.Equal(t, Neutral, rep.Bias)
}
