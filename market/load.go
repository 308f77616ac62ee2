package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Accepted timestamp layouts for bar files, tried in order.
var barTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadOptions controls bar-file parsing.
type LoadOptions struct {
	// Comma is the field delimiter; ',' when zero. Tab-separated
	// exports use '\t'.
	Comma rune
}

// LoadBars reads canonical bar rows:
//
//	time,open,high,low,close,volume
//
// A single header row ("time,...") is allowed. Empty and short rows
// are skipped; rows with unparseable numerics are load errors. Rows
// must already be in time order; out-of-order input is rejected by
// NewBarStore, not silently reordered.
func LoadBars(path, instrument string, opts LoadOptions) (*BarStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}

	var bars []Bar
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			continue
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no bars", path)
	}
	return NewBarStore(instrument, bars)
}

func parseBarRow(row []string) (Bar, bool, error) {
	// Need at least: time,open,high,low,close. Volume defaults to 0
	// for sources that omit it.
	if len(row) < 5 {
		return Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Bar{}, false, nil
	}
	t, err := parseBarTime(ts)
	if err != nil {
		return Bar{}, false, err
	}

	var vals [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bad price %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	var vol float64
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		vol, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
	}

	return Bar{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vol}, true, nil
}

func parseBarTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range barTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q: %w", s, firstErr)
}
