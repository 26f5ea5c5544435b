// Package dsp turns camera light intensity into heart rate estimates.
//
// A frame is reduced to one intensity sample (Reduce), gated by finger
// presence (Presence) and pushed into one of two estimators:
//
//   - Spectral looks for the strongest frequency in the 40..160 BPM band of a
//     fixed window using a fourier transform.
//   - Temporal finds pulse peaks in a longer smoothed window, picks the peak
//     subset with the most regular spacing and rejects outliers before
//     turning the mean spacing into BPM.
//
// Some notes:
//
// https://en.wikipedia.org/wiki/Photoplethysmogram
// https://github.com/phishman3579/android-heart-rate-monitor
package dsp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrShortFrame is returned when a frame buffer is smaller than its
	// layout requires.
	ErrShortFrame = errors.New("frame buffer too short for its size")
	// ErrZeroSpan is returned when a spectral window spans no time.
	ErrZeroSpan = errors.New("sample window spans zero time")
)

// Presence is whether a finger covers the lens.
type Presence int

// Presence values.
const (
	Absent Presence = iota
	Present
)

func (p Presence) String() string {
	if p == Present {
		return "on"
	}
	return "off"
}

// Estimate is one heart rate output.
type Estimate struct {
	BPM      int
	Presence Presence
}

// NoEstimate is emitted before any measurement (BPM -1, finger off).
var NoEstimate = Estimate{BPM: -1, Presence: Absent}

// Sample is a reduced frame.
type Sample struct {
	Value float64
	Time  time.Time
}

// Point is an (x, y) pair of a chart series.
type Point struct {
	X float64
	Y float64
}

// Mode selects the estimator.
type Mode int

// Estimator modes.
const (
	ModeSpectral Mode = iota
	ModeTemporal
)

func (m Mode) String() string {
	switch m {
	case ModeSpectral:
		return "spectral"
	case ModeTemporal:
		return "temporal"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "spectral", "fft", "":
		return ModeSpectral, nil
	case "temporal", "peaks":
		return ModeTemporal, nil
	}

	return 0, errors.Errorf("unknown mode %q (spectral, temporal)", s)
}

// Estimator turns samples into BPM values.
//
// Estimators are not safe for concurrent use; the processor owns one and
// feeds it from a single cycle at a time.
type Estimator interface {
	// Push adds a sample and runs one estimation cycle. ok is false when the
	// cycle produced no value.
	Push(Sample) (bpm int, ok bool)
	// Reset drops all signal state.
	Reset()
	// Samples appends the current window as chart points to dst.
	Samples(dst []Point) []Point
	// Peaks appends the peaks used by the last successful estimate to dst.
	Peaks(dst []Point) []Point
}
