package focus

import "github.com/focusguard/go-focusguard/pkg/signal"

// categoryState tracks one category's position in the
// QUIET -> FIRING -> COOLDOWN -> QUIET cycle.
type categoryState struct {
	lastFiredAt float64
	fired       bool // lastFiredAt holds a real timestamp
	active      bool // condition logged and still within cooldown
}

// deduper decides whether an instantaneous condition becomes a logged
// event. Each category cools down independently; a sustained condition
// emits one event per cooldown window instead of one per frame.
type deduper struct {
	cooldown float64
	states   map[Category]*categoryState
}

func newDeduper(cfg Config) *deduper {
	states := make(map[Category]*categoryState, len(categoryPriority))
	for _, c := range categoryPriority {
		states[c] = &categoryState{}
	}
	return &deduper{cooldown: cfg.CooldownWindow, states: states}
}

// evaluate walks the categories in priority order and returns the events
// that clear the cooldown window on this frame, zero or one per category.
func (d *deduper) evaluate(rec signal.Record, pens map[Category]float64, score float64) []Event {
	var events []Event
	for _, cat := range categoryPriority {
		st := d.states[cat]
		if pens[cat] > 0 {
			if !st.fired || rec.Timestamp-st.lastFiredAt >= d.cooldown {
				events = append(events, Event{
					Timestamp:    rec.Timestamp,
					Category:     cat,
					Severity:     severityFor(cat),
					Message:      messageFor(cat, rec),
					ScoreAtEvent: score,
				})
				st.lastFiredAt = rec.Timestamp
				st.fired = true
			}
			st.active = true
			continue
		}
		// Condition cleared; leave cooldown once the window elapses.
		// No event is emitted on this transition.
		if st.active && rec.Timestamp-st.lastFiredAt >= d.cooldown {
			st.active = false
		}
	}
	return events
}
