package focus

import "fmt"

// Default configuration values.
const (
	DefaultPenaltyNoFace    = 20.0
	DefaultPenaltyMultiFace = 15.0
	DefaultPenaltyDevice    = 30.0
	DefaultPenaltyGazeAway  = 15.0
	DefaultPenaltyAudio     = 10.0

	DefaultAlpha           = 0.3
	DefaultRecoverySeconds = 10.0
	DefaultAssumedFPS      = 30.0

	DefaultCooldownWindow      = 3.0
	DefaultReportBucketSeconds = 60.0
	DefaultTimelineResolution  = 1.0

	DefaultYawThreshold              = 30.0
	DefaultDeviceConfidenceThreshold = 0.5
)

// Config holds all tunable thresholds and weights for a focus engine.
// It is data only, immutable after construction, and safe to share across
// concurrent sessions by value.
type Config struct {
	// Per-category penalty weights (score points deducted per frame while
	// the condition holds).
	PenaltyNoFace    float64
	PenaltyMultiFace float64
	PenaltyDevice    float64
	PenaltyGazeAway  float64
	PenaltyAudio     float64

	// Alpha is the exponential moving average weight. Lower is smoother
	// but slower to react.
	Alpha float64

	// RecoverySeconds is how long a fully depleted score takes to return
	// to 100 on clean frames, assuming AssumedFPS frames per second.
	RecoverySeconds float64
	AssumedFPS      float64

	// CooldownWindow is the minimum time in seconds between two logged
	// events of the same category.
	CooldownWindow float64

	// ReportBucketSeconds is the bucket width used when grouping events
	// for report generation.
	ReportBucketSeconds float64

	// TimelineResolution keeps at most one timeline point per this many
	// seconds.
	TimelineResolution float64

	// YawThreshold is the head yaw in degrees beyond which the subject
	// counts as looking away.
	YawThreshold float64

	// DeviceConfidenceThreshold is the minimum detector confidence for a
	// device detection to be penalized.
	DeviceConfidenceThreshold float64
}

// DefaultConfig returns the standard proctoring configuration.
func DefaultConfig() Config {
	return Config{
		PenaltyNoFace:             DefaultPenaltyNoFace,
		PenaltyMultiFace:          DefaultPenaltyMultiFace,
		PenaltyDevice:             DefaultPenaltyDevice,
		PenaltyGazeAway:           DefaultPenaltyGazeAway,
		PenaltyAudio:              DefaultPenaltyAudio,
		Alpha:                     DefaultAlpha,
		RecoverySeconds:           DefaultRecoverySeconds,
		AssumedFPS:                DefaultAssumedFPS,
		CooldownWindow:            DefaultCooldownWindow,
		ReportBucketSeconds:       DefaultReportBucketSeconds,
		TimelineResolution:        DefaultTimelineResolution,
		YawThreshold:              DefaultYawThreshold,
		DeviceConfidenceThreshold: DefaultDeviceConfidenceThreshold,
	}
}

// Validate checks that all weights and thresholds are in valid range.
// A failing config is fatal at engine construction, never at runtime.
func (c Config) Validate() error {
	weights := map[string]float64{
		"PenaltyNoFace":    c.PenaltyNoFace,
		"PenaltyMultiFace": c.PenaltyMultiFace,
		"PenaltyDevice":    c.PenaltyDevice,
		"PenaltyGazeAway":  c.PenaltyGazeAway,
		"PenaltyAudio":     c.PenaltyAudio,
	}
	for field, w := range weights {
		if w < 0 {
			return &ConfigError{Field: field, Message: fmt.Sprintf("penalty weight %v must be non-negative", w)}
		}
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return &ConfigError{Field: "Alpha", Message: fmt.Sprintf("alpha %v must be in (0,1]", c.Alpha)}
	}
	if c.RecoverySeconds <= 0 {
		return &ConfigError{Field: "RecoverySeconds", Message: "recovery time must be positive"}
	}
	if c.AssumedFPS <= 0 {
		return &ConfigError{Field: "AssumedFPS", Message: "assumed FPS must be positive"}
	}
	if c.CooldownWindow <= 0 {
		return &ConfigError{Field: "CooldownWindow", Message: "cooldown window must be positive"}
	}
	if c.ReportBucketSeconds <= 0 {
		return &ConfigError{Field: "ReportBucketSeconds", Message: "report bucket must be positive"}
	}
	if c.TimelineResolution <= 0 {
		return &ConfigError{Field: "TimelineResolution", Message: "timeline resolution must be positive"}
	}
	if c.YawThreshold <= 0 {
		return &ConfigError{Field: "YawThreshold", Message: "yaw threshold must be positive"}
	}
	if c.DeviceConfidenceThreshold < 0 || c.DeviceConfidenceThreshold > 1 {
		return &ConfigError{Field: "DeviceConfidenceThreshold", Message: "device confidence threshold must be in [0,1]"}
	}
	return nil
}

// recoveryRate is the per-frame score bonus applied on zero-penalty frames.
func (c Config) recoveryRate() float64 {
	return 100 / (c.RecoverySeconds * c.AssumedFPS)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}
