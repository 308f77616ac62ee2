package news

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// countryCurrency maps calendar country codes to the currency their
// releases move. Calendars are inconsistent about whether they list
// the country or the currency, so both resolve.
var countryCurrency = map[string]string{
	"US": "USD", "USA": "USD",
	"UK": "GBP", "GB": "GBP",
	"EU": "EUR", "EZ": "EUR", "DE": "EUR", "FR": "EUR",
	"JP": "JPY",
	"CA": "CAD",
	"AU": "AUD",
	"NZ": "NZD",
	"CH": "CHF",
}

func resolveCurrency(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if ccy, ok := countryCurrency[s]; ok {
		return ccy, true
	}
	switch s {
	case "USD", "GBP", "EUR", "JPY", "CAD", "AUD", "NZD", "CHF":
		return s, true
	}
	return "", false
}

// Keyword tiers for calendars that ship event names without an impact
// column. Checked in severity order so "NFP rate decision" classifies
// as extreme, not high.
var impactKeywords = []struct {
	impact Impact
	words  []string
}{
	{Extreme, []string{"non-farm", "nonfarm", "nfp", "rate decision", "interest rate", "fomc", "cpi"}},
	{High, []string{"gdp", "employment", "unemployment", "retail sales", "pmi", "inflation"}},
	{Moderate, []string{"trade balance", "consumer confidence", "industrial production", "housing"}},
}

// ClassifyImpact guesses the impact tier from the event name. Names
// matching no keyword default to Low.
func ClassifyImpact(name string) Impact {
	lower := strings.ToLower(name)
	for _, tier := range impactKeywords {
		for _, w := range tier.words {
			if strings.Contains(lower, w) {
				return tier.impact
			}
		}
	}
	return Low
}

var calendarTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadCalendar reads an economic calendar CSV:
//
//	time,currency,impact,event
//	date,time,currency,impact,event
//
// Both layouts are accepted; a date-only first column is merged with
// the clock column beside it. The currency column accepts country
// codes. An empty impact column falls back to keyword classification
// of the event name. A header row is allowed. Rows with unknown
// currencies are skipped rather than failing the load; calendars
// routinely carry exotic rows the simulator does not track.
func LoadCalendar(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var events []Event
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
			if len(row) > 0 {
				first := strings.ToLower(strings.TrimSpace(row[0]))
				if first == "time" || first == "date" {
					continue
				}
			}
		}
		if len(row) < 4 {
			continue
		}

		// Split date/time columns collapse into one timestamp.
		if len(row) >= 5 && isDateOnly(row[0]) {
			merged := strings.TrimSpace(row[0]) + " " + strings.TrimSpace(row[1])
			row = append([]string{merged}, row[2:]...)
		}

		ts, err := parseCalendarTime(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ccy, ok := resolveCurrency(row[1])
		if !ok {
			continue
		}
		name := strings.TrimSpace(row[3])

		var impact Impact
		if raw := strings.TrimSpace(row[2]); raw != "" {
			impact, err = ParseImpact(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		} else {
			impact = ClassifyImpact(name)
		}

		events = append(events, Event{Time: ts, Currency: ccy, Impact: impact, Name: name})
	}
	return events, nil
}

func isDateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

func parseCalendarTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range calendarTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("bad calendar time %q: %w", s, firstErr)
}
