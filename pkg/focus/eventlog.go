package focus

import "fmt"

// EventLog is the append-only, chronological alert log of one session.
// Insertion order equals chronological order because the engine enforces
// monotonic timestamps.
type EventLog struct {
	events []Event
}

func (l *EventLog) append(ev Event) {
	l.events = append(l.events, ev)
}

// All returns a copy of the full granular log, oldest first.
func (l *EventLog) All() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of logged events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// EventGroup is a summarized report entry: all events of one category
// falling in the same time bucket, merged.
type EventGroup struct {
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Count          int      `json:"count"`
	FirstTimestamp float64  `json:"first_timestamp"`
	LastTimestamp  float64  `json:"last_timestamp"`
	Message        string   `json:"message"`
}

// GroupedForReport merges events of the same category whose timestamps
// fall within the same bucketSeconds-wide bucket into one entry, ordered
// by first occurrence. Read-only: the live log stays granular, only the
// report view is compacted.
func (l *EventLog) GroupedForReport(bucketSeconds float64) []EventGroup {
	if bucketSeconds <= 0 {
		bucketSeconds = DefaultReportBucketSeconds
	}

	var order []string
	groups := make(map[string]*EventGroup)

	for _, ev := range l.events {
		bucket := int64(ev.Timestamp / bucketSeconds)
		key := fmt.Sprintf("%s/%d", ev.Category, bucket)

		g, ok := groups[key]
		if !ok {
			groups[key] = &EventGroup{
				Category:       ev.Category,
				Severity:       ev.Severity,
				Count:          1,
				FirstTimestamp: ev.Timestamp,
				LastTimestamp:  ev.Timestamp,
				Message:        ev.Message,
			}
			order = append(order, key)
			continue
		}
		g.Count++
		g.LastTimestamp = ev.Timestamp
	}

	out := make([]EventGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}
