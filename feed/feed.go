// Package feed replays historical bars one at a time. The cursor only
// moves forward through Advance, and every read path (Current,
// Lookback) is bounded by the cursor, so a consumer can never observe
// a bar it has not been fed yet.
package feed

import (
	"errors"
	"fmt"

	"github.com/quantfold/fxsim/market"
)

// ErrEndOfData is returned by Advance once the series is exhausted.
// It is a terminal condition, not a failure; it is returned bare so
// callers can compare with errors.Is.
var ErrEndOfData = errors.New("feed: end of data")

// Feeder is a forward-only cursor over a BarStore. Not safe for
// concurrent use; each consumer gets its own feeder over the shared
// store.
type Feeder struct {
	store  *market.BarStore
	cursor int
}

// New returns a feeder positioned before the first bar. The first
// Advance yields bar 0.
func New(store *market.BarStore) *Feeder {
	return &Feeder{store: store, cursor: -1}
}

// Advance moves to the next bar and returns it. Once the series is
// exhausted it returns ErrEndOfData on every subsequent call and the
// cursor stays on the final bar.
func (f *Feeder) Advance() (market.Bar, error) {
	if f.cursor+1 >= f.store.Len() {
		return market.Bar{}, ErrEndOfData
	}
	f.cursor++
	return f.store.At(f.cursor), nil
}

// Current returns the bar the cursor is on. ok is false before the
// first Advance.
func (f *Feeder) Current() (market.Bar, bool) {
	if f.cursor < 0 {
		return market.Bar{}, false
	}
	return f.store.At(f.cursor), true
}

// Lookback returns up to n bars ending at the cursor, oldest first.
// Near the start of the series the window is truncated rather than
// padded. Returns nil before the first Advance or for n <= 0. The
// slice shares the store's backing array and must not be modified.
func (f *Feeder) Lookback(n int) []market.Bar {
	if f.cursor < 0 || n <= 0 {
		return nil
	}
	lo := f.cursor - n + 1
	if lo < 0 {
		lo = 0
	}
	return f.store.Slice(lo, f.cursor+1)
}

// Cursor reports the current index, -1 before the first Advance.
func (f *Feeder) Cursor() int { return f.cursor }

// Len reports the total number of bars in the underlying store.
func (f *Feeder) Len() int { return f.store.Len() }

// Instrument reports the store's instrument name.
func (f *Feeder) Instrument() string { return f.store.Instrument() }

// Reset rewinds to the initial position, before the first bar.
func (f *Feeder) Reset() { f.cursor = -1 }

// ResetAt positions the cursor directly on bar offset, as if the
// feeder had been advanced offset+1 times. Used for randomized
// episode starts.
func (f *Feeder) ResetAt(offset int) error {
	if offset < 0 || offset >= f.store.Len() {
		return fmt.Errorf("feed: start offset %d out of range [0,%d)", offset, f.store.Len())
	}
	f.cursor = offset
	return nil
}
