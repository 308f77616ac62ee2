package correlation

import (
	"math"
	"strings"
)

// Liquidity weights for the strength index, roughly tracking global FX
// turnover share.
var strengthWeights = map[string]float64{
	"USD": 0.25,
	"EUR": 0.20,
	"GBP": 0.15,
	"JPY": 0.12,
	"CHF": 0.08,
	"CAD": 0.08,
	"AUD": 0.07,
	"NZD": 0.05,
}

// CurrencyStrengthIndex scores single currencies from recent pair
// returns. A currency strengthens when pairs quoting it as base rise
// and pairs quoting it as quote fall.
type CurrencyStrengthIndex struct {
	// latest return per pair, keyed "EUR_USD"
	returns map[string]float64
}

func NewCurrencyStrengthIndex() *CurrencyStrengthIndex {
	return &CurrencyStrengthIndex{returns: make(map[string]float64)}
}

// ObserveReturn records the latest single-bar return for a pair.
func (c *CurrencyStrengthIndex) ObserveReturn(pair string, ret float64) {
	c.returns[pair] = ret
}

// Strength scores a currency on roughly [-1, 1] from the weighted
// average of its pairs' latest returns, scaled so typical hourly moves
// register. Zero when no pair involving the currency has been seen.
func (c *CurrencyStrengthIndex) Strength(ccy string) float64 {
	ccy = strings.ToUpper(ccy)
	var sum, weight float64
	for pair, ret := range c.returns {
		base, quote, ok := splitPair(pair)
		if !ok {
			continue
		}
		var signed float64
		switch ccy {
		case base:
			signed = ret
		case quote:
			signed = -ret
		default:
			continue
		}
		w := strengthWeights[otherLeg(base, quote, ccy)]
		if w == 0 {
			w = 0.05
		}
		sum += signed * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	scaled := (sum / weight) * 100
	return math.Max(-1, math.Min(1, scaled))
}

func splitPair(pair string) (base, quote string, ok bool) {
	parts := strings.Split(pair, "_")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func otherLeg(base, quote, ccy string) string {
	if base == ccy {
		return quote
	}
	return base
}
