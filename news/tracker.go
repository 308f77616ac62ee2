package news

import (
	"math"
	"sort"
	"time"

	"github.com/quantfold/fxsim/market"
)

// Tracker answers sizing questions against a fixed event calendar.
// Events are sorted once at construction; all queries are read-only
// and cheap.
type Tracker struct {
	events []Event
	cfg    Config
}

// NewTracker copies and time-sorts the calendar.
func NewTracker(events []Event, cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	return &Tracker{events: sorted, cfg: cfg}, nil
}

// Len reports the calendar size.
func (t *Tracker) Len() int { return len(t.events) }

// affects reports whether the event's currency is a leg of the
// instrument. Unknown instruments match nothing.
func affects(ev Event, instrument string) bool {
	meta, ok := market.Lookup(instrument)
	if !ok {
		return false
	}
	return meta.HasCurrency(ev.Currency)
}

// inBuffer reports whether now falls inside the event's damped window.
// Both edges are inclusive: the bar exactly at the window boundary is
// still damped.
func (t *Tracker) inBuffer(ev Event, now time.Time) bool {
	lo := ev.Time.Add(-t.cfg.PreWindow[ev.Impact])
	hi := ev.Time.Add(t.cfg.PostWindow[ev.Impact])
	return !now.Before(lo) && !now.After(hi)
}

// Upcoming lists events affecting the instrument with release times in
// (now, now+horizon], soonest first.
func (t *Tracker) Upcoming(now time.Time, instrument string, horizon time.Duration) []Event {
	var out []Event
	limit := now.Add(horizon)
	for _, ev := range t.events {
		if !ev.Time.After(now) {
			continue
		}
		if ev.Time.After(limit) {
			break
		}
		if affects(ev, instrument) {
			out = append(out, ev)
		}
	}
	return out
}

// Decision is the news component's verdict for one instant.
type Decision struct {
	// ShouldAvoid is set inside the buffer of a High or Extreme event.
	ShouldAvoid bool
	// Multiplier damps the proposed size, 1.0 when no buffer applies.
	// With overlapping buffers the most severe damping wins.
	Multiplier float64
	// MinutesToNextHighImpact counts down to the next High or Extreme
	// release affecting the instrument, +Inf when none is scheduled.
	MinutesToNextHighImpact float64
	// Event is the active buffered event, nil outside all buffers.
	Event *Event
}

// Decide evaluates the calendar for one instrument at one instant.
func (t *Tracker) Decide(now time.Time, instrument string) Decision {
	d := Decision{Multiplier: 1.0, MinutesToNextHighImpact: math.Inf(1)}

	for i := range t.events {
		ev := t.events[i]
		if !affects(ev, instrument) {
			continue
		}
		if t.inBuffer(ev, now) {
			damp := t.cfg.Damping[ev.Impact]
			if damp < d.Multiplier {
				d.Multiplier = damp
				d.Event = &t.events[i]
			}
			if ev.Impact >= High {
				d.ShouldAvoid = true
				if d.Event == nil {
					d.Event = &t.events[i]
				}
			}
		}
		if ev.Impact >= High && ev.Time.After(now) {
			mins := ev.Time.Sub(now).Minutes()
			if mins < d.MinutesToNextHighImpact {
				d.MinutesToNextHighImpact = mins
			}
		}
	}
	return d
}
