package crossmarket

import "time"

// Bias is the directional lean a signal carries for the traded
// instrument.
type Bias int

const (
	Bearish Bias = -1
	Neutral Bias = 0
	Bullish Bias = 1
)

func (b Bias) String() string {
	switch b {
	case Bearish:
		return "bearish"
	case Bullish:
		return "bullish"
	default:
		return "neutral"
	}
}

// RiskLevel grades how defensively the sizing pipeline should treat an
// active signal.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	default:
		return "low"
	}
}

// Kind separates principle detectors (standing intermarket
// relationships) from scenario detectors (named macro regimes).
type Kind int

const (
	Principle Kind = iota
	Scenario
)

// Signal is one detector's verdict at one instant.
type Signal struct {
	Name       string
	Kind       Kind
	Active     bool
	Confidence float64
	Bias       Bias
	Risk       RiskLevel
}

// Detector evaluates one cross-market relationship against the
// aligned store. Evaluate must only read data at or before t.
type Detector interface {
	Name() string
	Evaluate(store *MultiStore, t time.Time) Signal
}
