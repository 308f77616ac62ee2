// Package news tracks scheduled economic events and damps position
// sizes inside a buffer window around each release.
package news

import (
	"fmt"
	"strings"
	"time"
)

// Impact ranks how hard a release typically moves its currency.
type Impact int

const (
	Low Impact = iota
	Moderate
	High
	Extreme
)

func (i Impact) String() string {
	switch i {
	case Low:
		return "low"
	case Moderate:
		return "moderate"
	case High:
		return "high"
	case Extreme:
		return "extreme"
	default:
		return fmt.Sprintf("impact(%d)", int(i))
	}
}

// ParseImpact maps calendar strings to an Impact. Unknown strings are
// an error rather than a silent Low.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return Low, nil
	case "moderate", "medium", "m":
		return Moderate, nil
	case "high", "h":
		return High, nil
	case "extreme", "critical":
		return Extreme, nil
	default:
		return Low, fmt.Errorf("news: unknown impact %q", s)
	}
}

// Event is one scheduled release.
type Event struct {
	Time     time.Time
	Currency string
	Impact   Impact
	Name     string
}

// Config holds the buffer windows and damping per impact tier.
type Config struct {
	// PreWindow is how long before the release trading is damped.
	PreWindow map[Impact]time.Duration
	// PostWindow is how long after the release damping persists.
	PostWindow map[Impact]time.Duration
	// Damping multiplies the proposed size inside the buffer. A small
	// positive floor for extreme events keeps the pipeline numerically
	// alive while effectively blocking new risk.
	Damping map[Impact]float64
}

// DefaultConfig mirrors the standard economic-calendar buffers.
func DefaultConfig() Config {
	return Config{
		PreWindow: map[Impact]time.Duration{
			Low:      15 * time.Minute,
			Moderate: 30 * time.Minute,
			High:     60 * time.Minute,
			Extreme:  120 * time.Minute,
		},
		PostWindow: map[Impact]time.Duration{
			Low:      30 * time.Minute,
			Moderate: 60 * time.Minute,
			High:     120 * time.Minute,
			Extreme:  240 * time.Minute,
		},
		Damping: map[Impact]float64{
			Low:      1.0,
			Moderate: 0.8,
			High:     0.5,
			Extreme:  0.05,
		},
	}
}

// Validate rejects incomplete or out-of-range configs before any
// sizing decision depends on them.
func (c Config) Validate() error {
	for _, imp := range []Impact{Low, Moderate, High, Extreme} {
		if _, ok := c.PreWindow[imp]; !ok {
			return fmt.Errorf("news: missing pre window for %s", imp)
		}
		if _, ok := c.PostWindow[imp]; !ok {
			return fmt.Errorf("news: missing post window for %s", imp)
		}
		d, ok := c.Damping[imp]
		if !ok {
			return fmt.Errorf("news: missing damping for %s", imp)
		}
		if d < 0 || d > 1 {
			return fmt.Errorf("news: damping for %s out of range: %v", imp, d)
		}
		if c.PreWindow[imp] < 0 || c.PostWindow[imp] < 0 {
			return fmt.Errorf("news: negative window for %s", imp)
		}
	}
	return nil
}
