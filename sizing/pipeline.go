// Package sizing composes the session, news, correlation and
// cross-market reads into one position-size decision.
package sizing

import (
	"fmt"
	"time"

	"github.com/quantfold/fxsim/crossmarket"
	"github.com/quantfold/fxsim/market"
)

// Advice is one component's contribution to a decision.
type Advice struct {
	// Multiplier scales the proposed size, 1.0 for no opinion.
	Multiplier float64
	// Block vetoes the trade outright.
	Block bool
	// Score is the component's raw signal for the feature vector.
	Score float64
	// Reason is a short human-readable note for the journal.
	Reason string
}

// SessionAdvisor scores the trading hour.
type SessionAdvisor interface {
	Advise(t time.Time) Advice
}

// NewsAdvisor scores proximity to scheduled releases.
type NewsAdvisor interface {
	Advise(t time.Time, instrument string) Advice
}

// CorrelationAdvisor scores correlated exposure against the open book.
type CorrelationAdvisor interface {
	Advise(instrument string, proposedUnits float64, positions []market.Position) Advice
}

// CrossMarketAdvisor supplies the intermarket report the pipeline
// derives its unified, principle and scenario slots from.
type CrossMarketAdvisor interface {
	Report(t time.Time) crossmarket.Report
}

// Config bounds the composite multiplier.
type Config struct {
	// MinComposite and MaxComposite clamp the product of component
	// multipliers.
	MinComposite float64
	MaxComposite float64
	// BlockedUnwindFraction sizes a blocked trade as a fraction of the
	// proposal. Zero stands fully aside.
	BlockedUnwindFraction float64
}

func DefaultConfig() Config {
	return Config{MinComposite: 0.05, MaxComposite: 1.50, BlockedUnwindFraction: 0}
}

func (c Config) Validate() error {
	if c.MinComposite <= 0 || c.MaxComposite < c.MinComposite {
		return fmt.Errorf("sizing: composite bounds invalid: [%v, %v]", c.MinComposite, c.MaxComposite)
	}
	if c.BlockedUnwindFraction < 0 || c.BlockedUnwindFraction > 1 {
		return fmt.Errorf("sizing: blocked unwind fraction out of range: %v", c.BlockedUnwindFraction)
	}
	return nil
}

// Components holds the pipeline's advisors. Any nil advisor is simply
// absent: its slot reports inactive and contributes nothing, so the
// remaining components behave exactly as they would alone.
type Components struct {
	Session     SessionAdvisor
	News        NewsAdvisor
	Correlation CorrelationAdvisor
	CrossMarket CrossMarketAdvisor
}

// Component slot names, in evaluation order.
const (
	SlotSession     = "session"
	SlotNews        = "news"
	SlotCorrelation = "correlation"
	SlotUnified     = "unified"
	SlotCrossMarket = "crossmarket"
	SlotPrinciples  = "principles"
	SlotScenario    = "scenario"
)

// ComponentResult is one slot's evaluated contribution.
type ComponentResult struct {
	Name       string
	Active     bool
	Multiplier float64
	Block      bool
	Score      float64
	Reason     string
}

// Decision is the pipeline's verdict for one proposed trade.
type Decision struct {
	Instrument string
	Time       time.Time
	Proposed   float64
	// Final is the sized position: proposed times the clamped
	// composite, or the unwind fraction when blocked.
	Final float64
	// Allowed is false when any component blocked the trade.
	Allowed bool
	// Multiplier is the clamped composite of active multipliers.
	Multiplier float64
	// Components always lists every slot in fixed order, inactive
	// ones included, so journaled rows line up column for column.
	Components []ComponentResult
	// Blocks names the components that vetoed.
	Blocks []string
}

// Component returns the named slot's result.
func (d Decision) Component(name string) (ComponentResult, bool) {
	for _, c := range d.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentResult{}, false
}

// Pipeline evaluates all components and folds their multipliers.
type Pipeline struct {
	cfg        Config
	components Components
}

func NewPipeline(cfg Config, components Components) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, components: components}, nil
}

// eventRiskMultiplier damps size as the cross-market risk grade rises.
func eventRiskMultiplier(r crossmarket.RiskLevel) float64 {
	switch r {
	case crossmarket.RiskHigh:
		return 0.2
	case crossmarket.RiskMedium:
		return 0.5
	default:
		return 1.0
	}
}

// confidenceBoost rewards strongly confirmed intermarket reads.
func confidenceBoost(conf float64) float64 {
	switch {
	case conf > 0.8:
		return 1.2
	case conf > 0.6:
		return 1.1
	default:
		return 1.0
	}
}

// crossMarketMultiplier damps for the report's active risk grade.
func crossMarketMultiplier(r crossmarket.RiskLevel) float64 {
	switch r {
	case crossmarket.RiskHigh:
		return 0.7
	case crossmarket.RiskMedium:
		return 0.9
	default:
		return 1.0
	}
}

// SizePosition runs every component for the proposed trade and folds
// the active multipliers into a final size. Disabled components are
// identity: removing one never changes what the others contribute.
func (p *Pipeline) SizePosition(instrument string, proposed float64, now time.Time, positions []market.Position) Decision {
	d := Decision{
		Instrument: instrument,
		Time:       now,
		Proposed:   proposed,
		Allowed:    true,
		Components: make([]ComponentResult, 0, 7),
	}

	if p.components.Session != nil {
		a := p.components.Session.Advise(now)
		d.push(SlotSession, a)
	} else {
		d.pushInactive(SlotSession)
	}

	if p.components.News != nil {
		a := p.components.News.Advise(now, instrument)
		d.push(SlotNews, a)
	} else {
		d.pushInactive(SlotNews)
	}

	if p.components.Correlation != nil {
		a := p.components.Correlation.Advise(instrument, proposed, positions)
		d.push(SlotCorrelation, a)
	} else {
		d.pushInactive(SlotCorrelation)
	}

	if p.components.CrossMarket != nil {
		rep := p.components.CrossMarket.Report(now)

		unified := eventRiskMultiplier(rep.Risk) * confidenceBoost(rep.Confidence)
		d.push(SlotUnified, Advice{
			Multiplier: unified,
			Score:      rep.Confidence,
			Reason:     fmt.Sprintf("risk=%s conf=%.2f", rep.Risk, rep.Confidence),
		})

		d.push(SlotCrossMarket, Advice{
			Multiplier: crossMarketMultiplier(rep.Risk),
			Score:      rep.Confidence,
			Reason:     fmt.Sprintf("bias=%s active=%d", rep.Bias, rep.ActiveCount),
		})

		// Principles are observational: they feed the feature vector
		// but never scale the size.
		d.push(SlotPrinciples, Advice{Multiplier: 1.0, Score: rep.PrinciplesScore})

		scenarioMult := 1.0
		if hasHighRiskScenario(rep) {
			scenarioMult = 0.8
		}
		d.push(SlotScenario, Advice{Multiplier: scenarioMult, Score: rep.ScenarioScore})
	} else {
		d.pushInactive(SlotUnified)
		d.pushInactive(SlotCrossMarket)
		d.pushInactive(SlotPrinciples)
		d.pushInactive(SlotScenario)
	}

	composite := 1.0
	for _, c := range d.Components {
		if c.Active {
			composite *= c.Multiplier
		}
	}
	if composite < p.cfg.MinComposite {
		composite = p.cfg.MinComposite
	}
	if composite > p.cfg.MaxComposite {
		composite = p.cfg.MaxComposite
	}
	d.Multiplier = composite

	if len(d.Blocks) > 0 {
		d.Allowed = false
		d.Final = proposed * p.cfg.BlockedUnwindFraction
		return d
	}
	d.Final = proposed * composite
	return d
}

func hasHighRiskScenario(rep crossmarket.Report) bool {
	for _, sig := range rep.Signals {
		if sig.Kind == crossmarket.Scenario && sig.Active && sig.Risk == crossmarket.RiskHigh {
			return true
		}
	}
	return false
}

func (d *Decision) push(name string, a Advice) {
	d.Components = append(d.Components, ComponentResult{
		Name:       name,
		Active:     true,
		Multiplier: a.Multiplier,
		Block:      a.Block,
		Score:      a.Score,
		Reason:     a.Reason,
	})
	if a.Block {
		d.Blocks = append(d.Blocks, name)
	}
}

func (d *Decision) pushInactive(name string) {
	d.Components = append(d.Components, ComponentResult{Name: name, Multiplier: 1.0})
}
