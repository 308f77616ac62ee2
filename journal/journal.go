// Package journal persists simulation decisions for later analysis.
// Two backends share one interface: SQLite for queryable history and
// CSV for spreadsheet-friendly dumps.
package journal

import (
	"strings"
	"time"

	"github.com/quantfold/fxsim/sizing"
)

// StepRecord is one sizing decision, flattened for storage. Component
// multipliers get their own columns so the pipeline's behavior can be
// queried per component.
type StepRecord struct {
	EpisodeID  string
	Step       int
	Time       time.Time
	Instrument string
	Proposed   float64
	Final      float64
	Allowed    bool
	Multiplier float64

	SessionMult     float64
	NewsMult        float64
	CorrelationMult float64
	UnifiedMult     float64
	CrossMarketMult float64
	PrinciplesMult  float64
	ScenarioMult    float64

	// Blocks joins the vetoing component names with '+', empty when
	// allowed.
	Blocks string
}

// EpisodeRecord summarizes one completed replay.
type EpisodeRecord struct {
	ID         string
	Instrument string
	Start      time.Time
	End        time.Time
	Steps      int
	Blocked    int
	CreatedAt  time.Time
}

// Journal is the storage contract. Implementations are not required
// to be safe for concurrent use; the engine writes from one goroutine.
type Journal interface {
	RecordStep(StepRecord) error
	RecordEpisode(EpisodeRecord) error
	Close() error
}

// FlattenStep maps a pipeline decision onto a storage row.
func FlattenStep(episodeID string, step int, d sizing.Decision) StepRecord {
	rec := StepRecord{
		EpisodeID:  episodeID,
		Step:       step,
		Time:       d.Time,
		Instrument: d.Instrument,
		Proposed:   d.Proposed,
		Final:      d.Final,
		Allowed:    d.Allowed,
		Multiplier: d.Multiplier,
		Blocks:     strings.Join(d.Blocks, "+"),
	}
	for _, c := range d.Components {
		switch c.Name {
		case sizing.SlotSession:
			rec.SessionMult = c.Multiplier
		case sizing.SlotNews:
			rec.NewsMult = c.Multiplier
		case sizing.SlotCorrelation:
			rec.CorrelationMult = c.Multiplier
		case sizing.SlotUnified:
			rec.UnifiedMult = c.Multiplier
		case sizing.SlotCrossMarket:
			rec.CrossMarketMult = c.Multiplier
		case sizing.SlotPrinciples:
			rec.PrinciplesMult = c.Multiplier
		case sizing.SlotScenario:
			rec.ScenarioMult = c.Multiplier
		}
	}
	return rec
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordStep(StepRecord) error       { return nil }
func (Nop) RecordEpisode(EpisodeRecord) error { return nil }
func (Nop) Close() error                      { return nil }
