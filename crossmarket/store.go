// Package crossmarket reads relationships between asset classes
// (bonds, commodities, currencies, equities) and turns them into
// directional signals for the sizing pipeline.
package crossmarket

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/fxsim/market"
)

// Key names one tracked series, "class/symbol".
func Key(class market.AssetClass, symbol string) string {
	return string(class) + "/" + symbol
}

// MultiStore aligns several instruments' close series on their common
// timestamps so the detectors can compare windows point for point.
// Immutable after construction.
type MultiStore struct {
	times  []time.Time
	closes map[string][]float64
}

// NewMultiStore intersects the stores' timestamps and keeps only bars
// every series has. Series with no common bars produce an error.
func NewMultiStore(stores map[string]*market.BarStore) (*MultiStore, error) {
	if len(stores) == 0 {
		return nil, fmt.Errorf("crossmarket: no series")
	}

	counts := make(map[time.Time]int)
	for _, s := range stores {
		for i := 0; i < s.Len(); i++ {
			counts[s.At(i).Time]++
		}
	}

	var common []time.Time
	for t, n := range counts {
		if n == len(stores) {
			common = append(common, t)
		}
	}
	if len(common) == 0 {
		return nil, fmt.Errorf("crossmarket: series share no timestamps")
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	index := make(map[time.Time]int, len(common))
	for i, t := range common {
		index[t] = i
	}

	closes := make(map[string][]float64, len(stores))
	for key, s := range stores {
		col := make([]float64, len(common))
		for i := 0; i < s.Len(); i++ {
			if j, ok := index[s.At(i).Time]; ok {
				col[j] = s.At(i).Close
			}
		}
		closes[key] = col
	}

	return &MultiStore{times: common, closes: closes}, nil
}

// Keys lists the tracked series in sorted order.
func (m *MultiStore) Keys() []string {
	keys := make([]string, 0, len(m.closes))
	for k := range m.closes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of aligned bars.
func (m *MultiStore) Len() int { return len(m.times) }

// Has reports whether the store tracks the key.
func (m *MultiStore) Has(key string) bool {
	_, ok := m.closes[key]
	return ok
}

// indexAt finds the last aligned bar at or before t, -1 when t
// precedes the series.
func (m *MultiStore) indexAt(t time.Time) int {
	i := sort.Search(len(m.times), func(i int) bool { return m.times[i].After(t) })
	return i - 1
}

// Window returns up to n closes for key ending at the last bar at or
// before t, oldest first. Nil when the key is unknown or t precedes
// the series. Only data at or before t is ever visible.
func (m *MultiStore) Window(key string, t time.Time, n int) []float64 {
	col, ok := m.closes[key]
	if !ok || n <= 0 {
		return nil
	}
	hi := m.indexAt(t)
	if hi < 0 {
		return nil
	}
	lo := hi - n + 1
	if lo < 0 {
		lo = 0
	}
	return col[lo : hi+1]
}

// returns converts a close window to simple returns, one shorter than
// the input.
func returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// trend is the fractional move over the window, positive for rising.
func trend(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return closes[len(closes)-1]/closes[0] - 1
}
