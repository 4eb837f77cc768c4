package focus

import "math"

// scoreSmoother maintains the running 0-100 focus score.
//
// Composition rule: each frame first applies an EMA step toward the
// penalized target (100 - totalPenalty), then on zero-penalty frames adds
// a flat recovery bonus of recoveryRate points. Recovery never applies on
// penalized frames, so the two steps cannot double-count.
type scoreSmoother struct {
	score        float64
	alpha        float64
	recoveryRate float64
}

func newScoreSmoother(cfg Config) *scoreSmoother {
	return &scoreSmoother{
		score:        100,
		alpha:        cfg.Alpha,
		recoveryRate: cfg.recoveryRate(),
	}
}

// update advances the score by one frame and returns the new value.
// The result is always in [0,100]. Rounding happens only at the
// presentation boundary, never here.
func (s *scoreSmoother) update(total float64) float64 {
	target := 100 - total
	s.score += s.alpha * (target - s.score)
	if total == 0 {
		s.score = math.Min(100, s.score+s.recoveryRate)
	}
	s.score = clamp(s.score, 0, 100)
	return s.score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
