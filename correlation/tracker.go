// Package correlation maintains rolling pairwise correlations between
// instruments and shrinks position sizes when a proposed trade would
// stack correlated exposure.
package correlation

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantfold/fxsim/market"
)

// Config tunes the rolling correlation estimate.
type Config struct {
	// Window is how many returns feed each pairwise estimate.
	Window int
	// RefreshEvery recomputes the matrix after this many observations
	// per instrument. 1 recomputes on every bar.
	RefreshEvery int
	// MinObservations gates the estimate; below it a pair reports
	// unknown and sizing passes through untouched.
	MinObservations int
	// Floor is the lowest multiplier the exposure rule may emit.
	Floor float64
}

// DefaultConfig matches hourly bars: a ~two week window refreshed
// every bar.
func DefaultConfig() Config {
	return Config{Window: 100, RefreshEvery: 1, MinObservations: 30, Floor: 0.25}
}

func (c Config) Validate() error {
	if c.Window < 2 {
		return fmt.Errorf("correlation: window must be >= 2, got %d", c.Window)
	}
	if c.RefreshEvery < 1 {
		return fmt.Errorf("correlation: refresh interval must be >= 1, got %d", c.RefreshEvery)
	}
	if c.MinObservations < 2 || c.MinObservations > c.Window {
		return fmt.Errorf("correlation: min observations %d outside [2,%d]", c.MinObservations, c.Window)
	}
	if c.Floor < 0 || c.Floor > 1 {
		return fmt.Errorf("correlation: floor out of range: %v", c.Floor)
	}
	return nil
}

type series struct {
	lastPrice float64
	primed    bool
	returns   []float64 // ring buffer, oldest overwritten
	next      int
	count     int
	sinceRef  int
}

func (s *series) push(r float64) {
	if len(s.returns) == 0 {
		return
	}
	s.returns[s.next] = r
	s.next = (s.next + 1) % len(s.returns)
	if s.count < len(s.returns) {
		s.count++
	}
}

// ordered returns the buffered returns oldest first.
func (s *series) ordered() []float64 {
	out := make([]float64, 0, s.count)
	start := s.next - s.count
	if start < 0 {
		start += len(s.returns)
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.returns[(start+i)%len(s.returns)])
	}
	return out
}

// Tracker accumulates per-instrument returns and serves the pairwise
// matrix. Not safe for concurrent use.
type Tracker struct {
	cfg    Config
	series map[string]*series
	matrix map[string]float64 // key "A|B" with A < B
	dirty  bool
}

func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg, series: make(map[string]*series), matrix: make(map[string]float64)}, nil
}

// Observe feeds one close price for an instrument. The first price per
// instrument only primes the return calculation.
func (t *Tracker) Observe(instrument string, price float64) {
	s, ok := t.series[instrument]
	if !ok {
		s = &series{returns: make([]float64, t.cfg.Window)}
		t.series[instrument] = s
	}
	if s.primed && s.lastPrice != 0 {
		s.push(price/s.lastPrice - 1)
		t.dirty = true
	}
	s.lastPrice = price
	s.primed = true

	s.sinceRef++
	if s.sinceRef >= t.cfg.RefreshEvery {
		s.sinceRef = 0
		t.Refresh()
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Refresh recomputes the pairwise matrix from the buffered returns.
// Instruments iterate in sorted order so the walk is deterministic.
func (t *Tracker) Refresh() {
	if !t.dirty {
		return
	}
	t.dirty = false

	names := make([]string, 0, len(t.series))
	for name := range t.series {
		names = append(names, name)
	}
	sort.Strings(names)

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := t.series[names[i]], t.series[names[j]]
			n := a.count
			if b.count < n {
				n = b.count
			}
			if n < t.cfg.MinObservations {
				delete(t.matrix, pairKey(names[i], names[j]))
				continue
			}
			ra, rb := a.ordered(), b.ordered()
			// Align on the most recent n returns of each.
			r, ok := Pearson(ra[len(ra)-n:], rb[len(rb)-n:])
			if !ok {
				delete(t.matrix, pairKey(names[i], names[j]))
				continue
			}
			t.matrix[pairKey(names[i], names[j])] = r
		}
	}
}

// Matrix returns a copy of the current pairwise estimates, keyed
// "A|B" with A sorting before B.
func (t *Tracker) Matrix() map[string]float64 {
	out := make(map[string]float64, len(t.matrix))
	for k, v := range t.matrix {
		out[k] = v
	}
	return out
}

// Correlation reports the rolling Pearson correlation of two
// instruments. ok is false until both sides have enough observations.
func (t *Tracker) Correlation(a, b string) (float64, bool) {
	if a == b {
		return 1, true
	}
	r, ok := t.matrix[pairKey(a, b)]
	return r, ok
}

// Pearson computes the sample correlation of two equal-length series.
// ok is false for mismatched lengths, fewer than two points, or a
// zero-variance side.
func Pearson(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) < 2 {
		return 0, false
	}
	n := float64(len(a))
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= n
	mb /= n

	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0, false
	}
	return cov / math.Sqrt(va*vb), true
}

// Exposure sums correlated exposure the proposed trade would add
// against the open book. Each open position contributes
// |corr| * relSize, positive when correlation stacks risk in the same
// direction and negative when it hedges.
func (t *Tracker) Exposure(instrument string, proposedUnits float64, positions []market.Position) float64 {
	var gross float64
	for _, p := range positions {
		gross += math.Abs(p.Units)
	}
	if gross == 0 || proposedUnits == 0 {
		return 0
	}

	var exposure float64
	for _, p := range positions {
		if p.Instrument == instrument || p.Units == 0 {
			continue
		}
		corr, ok := t.Correlation(instrument, p.Instrument)
		if !ok {
			continue
		}
		relSize := math.Abs(p.Units) / gross
		sameDir := (p.Units > 0) == (proposedUnits > 0)
		aligned := (corr > 0) == sameDir
		if aligned {
			exposure += math.Abs(corr) * relSize
		} else {
			exposure -= math.Abs(corr) * relSize
		}
	}
	return exposure
}

// Multiplier shrinks the proposed size when correlated exposure
// exceeds 0.5. Identity with no open book or an unwarmed matrix.
func (t *Tracker) Multiplier(instrument string, proposedUnits float64, positions []market.Position) float64 {
	exposure := t.Exposure(instrument, proposedUnits, positions)
	if exposure <= 0.5 {
		return 1.0
	}
	m := 1.0 / (1.0 + exposure)
	if m < t.cfg.Floor {
		return t.cfg.Floor
	}
	return m
}

// AdjustedSize applies the exposure multiplier to the proposed units.
func (t *Tracker) AdjustedSize(instrument string, proposedUnits float64, positions []market.Position) float64 {
	return proposedUnits * t.Multiplier(instrument, proposedUnits, positions)
}
