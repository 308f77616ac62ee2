package market

import "strings"

// AssetClass groups instruments for cross-market analysis.
type AssetClass string

const (
	Forex       AssetClass = "forex"
	Commodities AssetClass = "commodities"
	Bonds       AssetClass = "bonds"
	Equities    AssetClass = "equities"
)

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	Class         AssetClass
}

// Instruments is the static catalogue of everything the simulator
// knows how to trade or track. Bonds and equity indexes carry the
// currency they are denominated in as quote currency so news filtering
// works uniformly.
var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {Name: "EUR_USD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipLocation: -4, Class: Forex},
	"GBP_USD": {Name: "GBP_USD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipLocation: -4, Class: Forex},
	"USD_JPY": {Name: "USD_JPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipLocation: -2, Class: Forex},
	"USD_CHF": {Name: "USD_CHF", BaseCurrency: "USD", QuoteCurrency: "CHF", PipLocation: -4, Class: Forex},
	"USD_CAD": {Name: "USD_CAD", BaseCurrency: "USD", QuoteCurrency: "CAD", PipLocation: -4, Class: Forex},
	"AUD_USD": {Name: "AUD_USD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipLocation: -4, Class: Forex},
	"NZD_USD": {Name: "NZD_USD", BaseCurrency: "NZD", QuoteCurrency: "USD", PipLocation: -4, Class: Forex},
	"EUR_JPY": {Name: "EUR_JPY", BaseCurrency: "EUR", QuoteCurrency: "JPY", PipLocation: -2, Class: Forex},

	"XAU_USD": {Name: "XAU_USD", BaseCurrency: "XAU", QuoteCurrency: "USD", PipLocation: -2, Class: Commodities},
	"WTI_USD": {Name: "WTI_USD", BaseCurrency: "WTI", QuoteCurrency: "USD", PipLocation: -2, Class: Commodities},
	"CRB":     {Name: "CRB", QuoteCurrency: "USD", PipLocation: -2, Class: Commodities},

	"US10Y": {Name: "US10Y", QuoteCurrency: "USD", PipLocation: -3, Class: Bonds},
	"CA10Y": {Name: "CA10Y", QuoteCurrency: "CAD", PipLocation: -3, Class: Bonds},
	"UK10Y": {Name: "UK10Y", QuoteCurrency: "GBP", PipLocation: -3, Class: Bonds},
	"DE10Y": {Name: "DE10Y", QuoteCurrency: "EUR", PipLocation: -3, Class: Bonds},
	"JP10Y": {Name: "JP10Y", QuoteCurrency: "JPY", PipLocation: -3, Class: Bonds},

	"SPX":    {Name: "SPX", QuoteCurrency: "USD", PipLocation: 0, Class: Equities},
	"DAX":    {Name: "DAX", QuoteCurrency: "EUR", PipLocation: 0, Class: Equities},
	"FTSE":   {Name: "FTSE", QuoteCurrency: "GBP", PipLocation: 0, Class: Equities},
	"NIKKEI": {Name: "NIKKEI", QuoteCurrency: "JPY", PipLocation: 0, Class: Equities},
}

// Lookup resolves instrument metadata. Names are normalized so
// "EUR/USD" and "eur_usd" both resolve to EUR_USD.
func Lookup(name string) (InstrumentMeta, bool) {
	m, ok := Instruments[NormalizeName(name)]
	return m, ok
}

// NormalizeName maps display forms ("EUR/USD") to catalogue keys
// ("EUR_USD").
func NormalizeName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "/", "_"))
}

// HasCurrency reports whether ccy is one of the instrument's legs.
func (m InstrumentMeta) HasCurrency(ccy string) bool {
	ccy = strings.ToUpper(ccy)
	return ccy != "" && (m.BaseCurrency == ccy || m.QuoteCurrency == ccy)
}
