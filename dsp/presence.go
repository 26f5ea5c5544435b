package dsp

import "time"

const (
	// DefaultIntensityThreshold is the mean red level below which no finger
	// covers the lens and flash.
	DefaultIntensityThreshold = 199.0
	// DefaultSettleTime is how long the raw presence must hold before it is
	// reported.
	DefaultSettleTime = 150 * time.Millisecond
)

// PresenceConfig configures a presence detector.
type PresenceConfig struct {
	Threshold float64       // min intensity with a finger on the lens
	Settle    time.Duration // debounce time
}

// PresenceDetector thresholds samples and debounces the result.
//
// The reported state starts out Absent. A raw state is reported once it has
// held for Settle and differs from the last reported state.
type PresenceDetector struct {
	cfg PresenceConfig

	reported  Presence
	candidate Presence
	since     time.Time
	seeded    bool
}

// NewPresenceDetector returns a detector in the Absent state.
func NewPresenceDetector(cfg PresenceConfig) *PresenceDetector {
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}

	return &PresenceDetector{cfg: cfg}
}

// Raw reports whether a value is above the threshold.
func (pd *PresenceDetector) Raw(value float64) Presence {
	if value >= pd.cfg.Threshold {
		return Present
	}
	return Absent
}

// Update feeds one sample taken at t. It returns the raw presence of the
// sample, the reported presence after the sample, and whether the reported
// presence changed.
func (pd *PresenceDetector) Update(value float64, t time.Time) (raw, reported Presence, changed bool) {
	raw = pd.Raw(value)

	if !pd.seeded || raw != pd.candidate {
		pd.candidate = raw
		pd.since = t
		pd.seeded = true
	}

	if pd.candidate != pd.reported && t.Sub(pd.since) >= pd.cfg.Settle {
		pd.reported = pd.candidate
		changed = true
	}

	return raw, pd.reported, changed
}

// State returns the reported presence.
func (pd *PresenceDetector) State() Presence {
	return pd.reported
}

// Reset puts the detector back in the Absent state.
func (pd *PresenceDetector) Reset() {
	pd.reported = Absent
	pd.candidate = Absent
	pd.since = time.Time{}
	pd.seeded = false
}
