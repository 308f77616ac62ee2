package crossmarket

import "time"

// Report is the combined cross-market read at one instant.
type Report struct {
	Signals []Signal
	// Confidence is the confidence-weighted mean across active
	// signals, 0 when none is active.
	Confidence float64
	// Bias is the majority lean of the active signals.
	Bias Bias
	// Risk is the highest risk grade among active signals.
	Risk RiskLevel
	// ActiveCount is how many detectors fired.
	ActiveCount int
	// PrinciplesScore averages confidence over all principle
	// detectors, active or not.
	PrinciplesScore float64
	// ScenarioScore is the strongest scenario confidence.
	ScenarioScore float64
}

// Aggregator runs a fixed set of detectors and folds their signals
// into one report.
type Aggregator struct {
	detectors []Detector
}

func NewAggregator(detectors ...Detector) *Aggregator {
	return &Aggregator{detectors: detectors}
}

// Register appends a detector. Evaluation order follows registration
// order so reports are deterministic.
func (a *Aggregator) Register(d Detector) {
	a.detectors = append(a.detectors, d)
}

// DefaultDetectors wires the five standing principles and the five
// scenario detectors, with the confirmation principle observing the
// other four.
func DefaultDetectors() []Detector {
	principles := []Detector{
		BondsCommodities{},
		BondsLeadEquities{},
		CommoditiesCurrencies{},
		RateDifferential{},
	}
	detectors := make([]Detector, 0, 10)
	detectors = append(detectors, principles...)
	detectors = append(detectors, Confirmation{Peers: principles})
	detectors = append(detectors,
		LongGold{},
		NFPRateHike{},
		QEEarnings{},
		DeflationFear{},
		PolicyAmbiguity{},
	)
	return detectors
}

// Evaluate runs every detector against the store at t.
func (a *Aggregator) Evaluate(store *MultiStore, t time.Time) Report {
	rep := Report{Signals: make([]Signal, 0, len(a.detectors))}

	var confWeight, confSum float64
	var biasSum int
	var principleSum float64
	var principleCount int

	for _, d := range a.detectors {
		sig := d.Evaluate(store, t)
		rep.Signals = append(rep.Signals, sig)

		if sig.Kind == Principle {
			principleSum += sig.Confidence
			principleCount++
		} else if sig.Confidence > rep.ScenarioScore {
			rep.ScenarioScore = sig.Confidence
		}

		if !sig.Active {
			continue
		}
		rep.ActiveCount++
		confSum += sig.Confidence * sig.Confidence
		confWeight += sig.Confidence
		biasSum += int(sig.Bias)
		if sig.Risk > rep.Risk {
			rep.Risk = sig.Risk
		}
	}

	if confWeight > 0 {
		rep.Confidence = confSum / confWeight
	}
	if biasSum > 0 {
		rep.Bias = Bullish
	} else if biasSum < 0 {
		rep.Bias = Bearish
	}
	if principleCount > 0 {
		rep.PrinciplesScore = principleSum / float64(principleCount)
	}
	return rep
}
