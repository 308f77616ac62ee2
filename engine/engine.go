// Package engine wires the feed, sizing pipeline and storage into a
// replayable episode.
package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxsim/correlation"
	"github.com/quantfold/fxsim/crossmarket"
	"github.com/quantfold/fxsim/features"
	"github.com/quantfold/fxsim/feed"
	"github.com/quantfold/fxsim/journal"
	"github.com/quantfold/fxsim/market"
	"github.com/quantfold/fxsim/metrics"
	"github.com/quantfold/fxsim/news"
	"github.com/quantfold/fxsim/pkg/id"
	"github.com/quantfold/fxsim/sizing"
)

// PositionFn supplies the open book at decision time. The engine never
// mutates positions; sizing only reads them.
type PositionFn func() []market.Position

// Options assembles an engine. Feeder, Pipeline and Instrument are
// required; everything else degrades to a no-op when absent.
type Options struct {
	Instrument    string
	ProposedUnits float64
	Lookback      int
	MaxSteps      int

	Feeder   *feed.Feeder
	Pipeline *sizing.Pipeline

	// News feeds the feature vector; the pipeline carries its own
	// news component.
	News *news.Tracker
	// Correlation is warmed bar by bar from the replay.
	Correlation *correlation.Tracker
	// CrossMarket supplies aligned sibling series.
	CrossMarketStore *crossmarket.MultiStore
	CrossMarketAgg   *crossmarket.Aggregator

	Journal   journal.Journal
	Metrics   *metrics.Set
	Positions PositionFn
	Logger    *zap.Logger
}

// StepResult is one bar's worth of simulation output.
type StepResult struct {
	Step     int
	Bar      market.Bar
	Decision sizing.Decision
	Features []float64
}

// Summary closes out an episode.
type Summary struct {
	EpisodeID string
	Steps     int
	Blocked   int
	Start     time.Time
	End       time.Time
}

// Engine replays one instrument and sizes a unit position each bar.
type Engine struct {
	opts      Options
	episodeID string
	log       *zap.Logger

	strength   *correlation.CurrencyStrengthIndex
	lastCloses map[string]float64

	step    int
	blocked int
	start   time.Time
	end     time.Time
}

func New(opts Options) (*Engine, error) {
	if opts.Feeder == nil {
		return nil, errors.New("engine: feeder is required")
	}
	if opts.Pipeline == nil {
		return nil, errors.New("engine: pipeline is required")
	}
	if opts.Instrument == "" {
		return nil, errors.New("engine: instrument is required")
	}
	if opts.ProposedUnits <= 0 {
		return nil, errors.New("engine: proposed units must be positive")
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Positions == nil {
		opts.Positions = func() []market.Position { return nil }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		opts:       opts,
		episodeID:  id.New(),
		log:        opts.Logger.With(zap.String("instrument", opts.Instrument)),
		strength:   correlation.NewCurrencyStrengthIndex(),
		lastCloses: make(map[string]float64),
	}, nil
}

// EpisodeID identifies this engine's run in the journal.
func (e *Engine) EpisodeID() string { return e.episodeID }

// Metrics exposes the engine's metric set, nil when disabled.
func (e *Engine) Metrics() *metrics.Set { return e.opts.Metrics }

// Close releases the journal.
func (e *Engine) Close() error { return e.opts.Journal.Close() }

// observe feeds the bar (and any sibling forex series up to the bar's
// time) into the correlation tracker and strength index. Sibling
// closes come from the aligned store, so nothing past the bar's
// timestamp is ever read.
func (e *Engine) observe(bar market.Bar) {
	e.observeClose(e.opts.Instrument, bar.Close)

	if e.opts.CrossMarketStore == nil {
		return
	}
	for _, key := range e.opts.CrossMarketStore.Keys() {
		if !strings.HasPrefix(key, "forex/") {
			continue
		}
		pair := strings.TrimPrefix(key, "forex/")
		if pair == e.opts.Instrument {
			continue
		}
		w := e.opts.CrossMarketStore.Window(key, bar.Time, 1)
		if len(w) == 1 {
			e.observeClose(pair, w[0])
		}
	}
}

func (e *Engine) observeClose(pair string, close float64) {
	if e.opts.Correlation != nil {
		e.opts.Correlation.Observe(pair, close)
	}
	if last, ok := e.lastCloses[pair]; ok && last != 0 {
		e.strength.ObserveReturn(pair, close/last-1)
	}
	e.lastCloses[pair] = close
}

// Step advances one bar, sizes the unit position and records the
// outcome. Returns feed.ErrEndOfData when the series is exhausted.
func (e *Engine) Step() (StepResult, error) {
	bar, err := e.opts.Feeder.Advance()
	if err != nil {
		return StepResult{}, err
	}
	e.observe(bar)

	decision := e.opts.Pipeline.SizePosition(
		e.opts.Instrument, e.opts.ProposedUnits, bar.Time, e.opts.Positions())

	newsDecision := news.Decision{Multiplier: 1.0, MinutesToNextHighImpact: math.Inf(1)}
	if e.opts.News != nil {
		newsDecision = e.opts.News.Decide(bar.Time, e.opts.Instrument)
	}

	var report crossmarket.Report
	if e.opts.CrossMarketStore != nil && e.opts.CrossMarketAgg != nil {
		report = e.opts.CrossMarketAgg.Evaluate(e.opts.CrossMarketStore, bar.Time)
	}

	vec := features.Build(features.Inputs{
		Time:       bar.Time,
		Instrument: e.opts.Instrument,
		News:       newsDecision,
		Report:     report,
		Decision:   decision,
		Strength:   e.strength,
	})

	if err := e.opts.Journal.RecordStep(journal.FlattenStep(e.episodeID, e.step, decision)); err != nil {
		return StepResult{}, err
	}
	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveStep(decision)
	}

	if e.step == 0 {
		e.start = bar.Time
	}
	e.end = bar.Time
	if !decision.Allowed {
		e.blocked++
		e.log.Debug("trade blocked",
			zap.Time("bar", bar.Time),
			zap.Strings("components", decision.Blocks))
	}

	res := StepResult{Step: e.step, Bar: bar, Decision: decision, Features: vec}
	e.step++
	return res, nil
}

// Lookback exposes the feeder's trailing window for observation
// builders that want raw bars.
func (e *Engine) Lookback() []market.Bar {
	return e.opts.Feeder.Lookback(e.opts.Lookback)
}

// Run replays until the series ends, the step cap is reached, or ctx
// is cancelled, then journals the episode summary.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.finish(err)
		}
		if e.opts.MaxSteps > 0 && e.step >= e.opts.MaxSteps {
			return e.finish(nil)
		}
		_, err := e.Step()
		if errors.Is(err, feed.ErrEndOfData) {
			return e.finish(nil)
		}
		if err != nil {
			return e.finish(err)
		}
	}
}

func (e *Engine) finish(cause error) (Summary, error) {
	sum := Summary{
		EpisodeID: e.episodeID,
		Steps:     e.step,
		Blocked:   e.blocked,
		Start:     e.start,
		End:       e.end,
	}
	if e.step > 0 {
		err := e.opts.Journal.RecordEpisode(journal.EpisodeRecord{
			ID:         e.episodeID,
			Instrument: e.opts.Instrument,
			Start:      e.start,
			End:        e.end,
			Steps:      e.step,
			Blocked:    e.blocked,
			CreatedAt:  time.Now().UTC(),
		})
		if cause == nil {
			cause = err
		}
	}
	e.log.Info("episode finished",
		zap.String("episode", e.episodeID),
		zap.Int("steps", sum.Steps),
		zap.Int("blocked", sum.Blocked))
	return sum, cause
}
