package focus

import (
	"math"

	"github.com/focusguard/go-focusguard/pkg/signal"
)

// penalties maps one signal record to its raw per-category penalties.
// Pure: deterministic given the record and config, no state touched.
// A missing head pose contributes no yaw penalty; the gaze enum check
// still applies, so partial detections degrade gracefully.
func penalties(cfg Config, rec signal.Record) map[Category]float64 {
	p := make(map[Category]float64, len(categoryPriority))

	if !rec.FaceDetected {
		p[CategoryNoFace] = cfg.PenaltyNoFace
	}
	if rec.FaceCount > 1 {
		p[CategoryMultiFace] = cfg.PenaltyMultiFace
	}
	if rec.DeviceDetected && rec.DeviceConfidence >= cfg.DeviceConfidenceThreshold {
		p[CategoryDevice] = cfg.PenaltyDevice
	}
	if gazeAway(cfg, rec) {
		p[CategoryGazeAway] = cfg.PenaltyGazeAway
	}
	if rec.AudioAnomaly && rec.AudioType == signal.AudioVoice {
		p[CategoryAudio] = cfg.PenaltyAudio
	}
	return p
}

func gazeAway(cfg Config, rec signal.Record) bool {
	if p := rec.HeadPose; p != nil && math.Abs(p.Yaw) > cfg.YawThreshold {
		return true
	}
	switch rec.Gaze() {
	case signal.GazeForward, signal.GazeUnknown:
		return false
	default:
		return true
	}
}

// totalPenalty sums raw penalties, capped at 100 so a single frame can
// never push the score target below 0.
func totalPenalty(p map[Category]float64) float64 {
	var total float64
	for _, v := range p {
		total += v
	}
	if total > 100 {
		total = 100
	}
	return total
}
