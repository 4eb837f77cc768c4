package focus

// TimelinePoint is one sampled (timestamp, score) pair.
type TimelinePoint struct {
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

// Aggregate is a read-only snapshot of session statistics. This is the
// shape consumed by the stats and report collaborators; mutating a
// snapshot never affects the engine.
type Aggregate struct {
	FrameCount      int              `json:"frame_count"`
	AverageScore    float64          `json:"average_score"`
	CurrentScore    float64          `json:"current_score"`
	ScoreMin        float64          `json:"score_min"`
	ScoreMax        float64          `json:"score_max"`
	DurationSeconds float64          `json:"duration_seconds"`
	CategoryCounts  map[Category]int `json:"category_counts"`
	Timeline        []TimelinePoint  `json:"timeline"`
}

// aggregator accumulates per-frame statistics for one session.
// The timeline is downsampled to at most one point per resolution seconds
// so long sessions stay bounded in memory.
type aggregator struct {
	resolution float64

	frameCount int
	scoreSum   float64
	scoreMin   float64
	scoreMax   float64
	current    float64
	firstTS    float64
	lastTS     float64

	counts   map[Category]int
	timeline []TimelinePoint
}

func newAggregator(cfg Config) *aggregator {
	return &aggregator{
		resolution: cfg.TimelineResolution,
		counts:     make(map[Category]int, len(categoryPriority)),
	}
}

func (a *aggregator) update(ts, score float64, events []Event) {
	if a.frameCount == 0 {
		a.firstTS = ts
		a.scoreMin = score
		a.scoreMax = score
	} else {
		if score < a.scoreMin {
			a.scoreMin = score
		}
		if score > a.scoreMax {
			a.scoreMax = score
		}
	}

	a.frameCount++
	a.scoreSum += score
	a.current = score
	a.lastTS = ts

	for _, ev := range events {
		a.counts[ev.Category]++
	}

	if len(a.timeline) == 0 || ts-a.timeline[len(a.timeline)-1].Timestamp >= a.resolution {
		a.timeline = append(a.timeline, TimelinePoint{Timestamp: ts, Score: score})
	}
}

// snapshot returns a defensive copy; calling it twice without an
// intervening update yields identical values.
func (a *aggregator) snapshot() Aggregate {
	agg := Aggregate{
		FrameCount:      a.frameCount,
		CurrentScore:    a.current,
		ScoreMin:        a.scoreMin,
		ScoreMax:        a.scoreMax,
		DurationSeconds: a.lastTS - a.firstTS,
		CategoryCounts:  make(map[Category]int, len(a.counts)),
		Timeline:        make([]TimelinePoint, len(a.timeline)),
	}
	if a.frameCount > 0 {
		agg.AverageScore = a.scoreSum / float64(a.frameCount)
	}
	for c, n := range a.counts {
		agg.CategoryCounts[c] = n
	}
	copy(agg.Timeline, a.timeline)
	return agg
}
