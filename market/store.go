package market

import (
	"fmt"
	"time"
)

// BarStore owns the full historical series for one instrument. It is
// read-only after construction: timestamps are strictly increasing and
// the backing slice is never mutated, so any number of readers may
// share one store.
type BarStore struct {
	instrument string
	bars       []Bar
}

// NewBarStore validates ordering and wraps the bars. The slice is
// owned by the store after the call; callers must not modify it.
func NewBarStore(instrument string, bars []Bar) (*BarStore, error) {
	if instrument == "" {
		return nil, fmt.Errorf("market: instrument is required")
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("market: bars out of order at index %d: %s does not follow %s",
				i, bars[i].Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return &BarStore{instrument: instrument, bars: bars}, nil
}

func (s *BarStore) Instrument() string { return s.instrument }

func (s *BarStore) Len() int { return len(s.bars) }

// At returns the bar at index i. Panics on out-of-range access, the
// same as a slice would; the feeder is the component that does bounds
// discipline.
func (s *BarStore) At(i int) Bar { return s.bars[i] }

// Slice returns bars[lo:hi]. The result shares the store's backing
// array and must be treated as read-only.
func (s *BarStore) Slice(lo, hi int) []Bar { return s.bars[lo:hi] }

// FirstTime and LastTime report the time range of the series. Both
// return the zero time for an empty store.
func (s *BarStore) FirstTime() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[0].Time
}

func (s *BarStore) LastTime() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[len(s.bars)-1].Time
}
