package focus

import (
	"fmt"

	"github.com/focusguard/go-focusguard/pkg/signal"
)

// Category identifies one alert category.
type Category string

const (
	CategoryDevice    Category = "device"
	CategoryNoFace    Category = "no_face"
	CategoryMultiFace Category = "multi_face"
	CategoryGazeAway  Category = "gaze_away"
	CategoryAudio     Category = "audio"
)

// categoryPriority fixes the order events appear in a FrameResult when
// several categories fire on the same frame. Cooldowns stay independent.
var categoryPriority = [...]Category{
	CategoryDevice,
	CategoryNoFace,
	CategoryMultiFace,
	CategoryGazeAway,
	CategoryAudio,
}

// Categories returns all alert categories in priority order.
func Categories() []Category {
	out := make([]Category, len(categoryPriority))
	copy(out, categoryPriority[:])
	return out
}

// Severity grades an event for display and reporting.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityAlert   Severity = "ALERT"
)

// severityFor maps a category to its display severity. Device and person
// anomalies are hard alerts, gaze and audio are warnings.
func severityFor(c Category) Severity {
	switch c {
	case CategoryDevice, CategoryNoFace, CategoryMultiFace:
		return SeverityAlert
	default:
		return SeverityWarning
	}
}

// Event is one logged alert. Immutable once created.
type Event struct {
	Timestamp    float64  `json:"timestamp"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	ScoreAtEvent float64  `json:"score_at_event"`
}

// messageFor builds the human-readable alert message for a category.
func messageFor(c Category, rec signal.Record) string {
	switch c {
	case CategoryDevice:
		name := rec.DeviceType
		if name == "" {
			name = "device"
		}
		return fmt.Sprintf("%s detected (confidence %.2f)", name, rec.DeviceConfidence)
	case CategoryNoFace:
		return "Face not visible"
	case CategoryMultiFace:
		return fmt.Sprintf("Multiple people detected (%d faces)", rec.FaceCount)
	case CategoryGazeAway:
		if p := rec.HeadPose; p != nil {
			return fmt.Sprintf("Looking away (yaw %.0f°)", p.Yaw)
		}
		return fmt.Sprintf("Looking %s", rec.Gaze())
	case CategoryAudio:
		return "Voice activity detected"
	default:
		return string(c)
	}
}
