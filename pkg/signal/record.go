// Package signal defines the per-frame observation contract produced by
// upstream perception collaborators (face mesh, object detector, voice
// activity detector). The engine consumes these records; it never performs
// image or audio inference itself.
package signal

import (
	"errors"
	"fmt"
	"math"
)

// GazeDirection is the coarse gaze estimate from the face mesh.
type GazeDirection string

const (
	GazeForward GazeDirection = "forward"
	GazeLeft    GazeDirection = "left"
	GazeRight   GazeDirection = "right"
	GazeUp      GazeDirection = "up"
	GazeDown    GazeDirection = "down"
	GazeUnknown GazeDirection = "unknown"
)

// AudioType classifies an audio anomaly reported by the detector.
type AudioType string

const (
	AudioNone  AudioType = ""
	AudioVoice AudioType = "voice"
	AudioNoise AudioType = "noise"
)

// HeadPose holds head orientation angles in degrees.
type HeadPose struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Record is one frame's worth of perceptual observations. Timestamps must
// strictly increase across the records fed to one engine instance.
type Record struct {
	Timestamp float64 `json:"timestamp"`

	FaceDetected bool `json:"face_detected"`
	FaceCount    int  `json:"face_count"`

	GazeDirection GazeDirection `json:"gaze_direction"`
	HeadPose      *HeadPose     `json:"head_pose,omitempty"` // nil when pose estimation failed

	DeviceDetected   bool    `json:"device_detected"`
	DeviceType       string  `json:"device_type,omitempty"` // e.g. "cell phone"
	DeviceConfidence float64 `json:"device_confidence"`

	AudioAnomaly bool      `json:"audio_anomaly"`
	AudioType    AudioType `json:"audio_type,omitempty"`
}

// ErrInvalid reports a record with NaN, infinite, or out-of-range fields.
// Normal absence of a detection (no face, no device) is never an error.
var ErrInvalid = errors.New("invalid signal")

// Validate checks the record's numeric fields and enumerations.
func (r Record) Validate() error {
	if !isFinite(r.Timestamp) {
		return fmt.Errorf("%w: timestamp is not finite", ErrInvalid)
	}
	if r.FaceCount < 0 {
		return fmt.Errorf("%w: face_count %d is negative", ErrInvalid, r.FaceCount)
	}
	if !isFinite(r.DeviceConfidence) || r.DeviceConfidence < 0 || r.DeviceConfidence > 1 {
		return fmt.Errorf("%w: device_confidence %v outside [0,1]", ErrInvalid, r.DeviceConfidence)
	}
	if p := r.HeadPose; p != nil {
		if !isFinite(p.Pitch) || !isFinite(p.Yaw) || !isFinite(p.Roll) {
			return fmt.Errorf("%w: head_pose angles must be finite", ErrInvalid)
		}
	}
	switch r.GazeDirection {
	case GazeForward, GazeLeft, GazeRight, GazeUp, GazeDown, GazeUnknown, "":
	default:
		return fmt.Errorf("%w: unknown gaze_direction %q", ErrInvalid, r.GazeDirection)
	}
	switch r.AudioType {
	case AudioNone, AudioVoice, AudioNoise:
	default:
		return fmt.Errorf("%w: unknown audio_type %q", ErrInvalid, r.AudioType)
	}
	return nil
}

// Gaze returns the gaze direction, mapping an empty field to unknown.
func (r Record) Gaze() GazeDirection {
	if r.GazeDirection == "" {
		return GazeUnknown
	}
	return r.GazeDirection
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
