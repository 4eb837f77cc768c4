// Package focus implements the signal-fusion and scoring engine: it turns
// per-frame perceptual signals into a smoothed 0-100 focus score, a
// deduplicated alert log, and session-level aggregates.
//
// One Engine is bound to exactly one session and is not internally
// synchronized; callers needing multi-session concurrency create one
// engine per session. Given a fixed Config, the engine is fully
// deterministic over a sequence of signal records.
package focus

import (
	"errors"
	"fmt"

	"github.com/focusguard/go-focusguard/pkg/signal"
)

// ErrOutOfOrderInput reports a record whose timestamp does not strictly
// increase. The failing Process call leaves engine state untouched, so
// the session can continue with the next valid frame.
var ErrOutOfOrderInput = errors.New("out-of-order input")

// FrameResult is what one processed frame yields back to callers.
type FrameResult struct {
	Score    float64   `json:"score"`
	Events   []Event   `json:"events"`
	Snapshot Aggregate `json:"snapshot"`
}

// Engine composes the penalty model, score smoother, alert deduplicator,
// event log, and session aggregator.
type Engine struct {
	cfg      Config
	smoother *scoreSmoother
	dedup    *deduper
	log      *EventLog
	agg      *aggregator

	lastTS  float64
	started bool
}

// NewEngine validates the configuration and builds an engine with the
// score initialized to 100.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		smoother: newScoreSmoother(cfg),
		dedup:    newDeduper(cfg),
		log:      &EventLog{},
		agg:      newAggregator(cfg),
	}, nil
}

// Process runs one signal record through the pipeline: validate, score,
// deduplicate, log, aggregate. Any invalid input fails the whole call
// before any state is mutated; no step is retried.
func (e *Engine) Process(rec signal.Record) (FrameResult, error) {
	if err := rec.Validate(); err != nil {
		return FrameResult{}, err
	}
	if e.started && rec.Timestamp <= e.lastTS {
		return FrameResult{}, fmt.Errorf("%w: timestamp %.3f not after %.3f",
			ErrOutOfOrderInput, rec.Timestamp, e.lastTS)
	}

	pens := penalties(e.cfg, rec)
	score := e.smoother.update(totalPenalty(pens))
	events := e.dedup.evaluate(rec, pens, score)
	for _, ev := range events {
		e.log.append(ev)
	}
	e.agg.update(rec.Timestamp, score, events)

	e.lastTS = rec.Timestamp
	e.started = true

	return FrameResult{Score: score, Events: events, Snapshot: e.agg.snapshot()}, nil
}

// Score returns the current smoothed score without advancing state.
func (e *Engine) Score() float64 {
	return e.smoother.score
}

// Snapshot returns the current session aggregate.
func (e *Engine) Snapshot() Aggregate {
	return e.agg.snapshot()
}

// Events returns the session's event log for read access.
func (e *Engine) Events() *EventLog {
	return e.log
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
