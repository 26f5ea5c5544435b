// Package window provides window functions applied to a sample window before
// the spectral transform.
//
// See https://wikipedia.org/wiki/Window_function
package window

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Function tapers buf in place.
type Function func(buf []float64)

// Rectangle leaves the buffer alone.
func Rectangle(buf []float64) {}

// CosSum modifies the buffer to conform to a cosine sum window following a0
func CosSum(buf []float64, a0 float64) {
	size := len(buf)
	if size < 2 {
		return
	}

	a1 := 1.0 - a0
	coef := 2.0 * math.Pi / float64(size-1)
	for n := range buf {
		buf[n] *= a0 - a1*math.Cos(coef*float64(n))
	}
}

// Hamming modifies the buffer to a Hamming window
func Hamming(buf []float64) {
	CosSum(buf, 25.0/46.0)
}

// Hann modifies the buffer to a Hann window
func Hann(buf []float64) {
	CosSum(buf, 0.5)
}

// Bartlett modifies the buffer to a triangular window
func Bartlett(buf []float64) {
	size := len(buf)
	if size < 2 {
		return
	}

	half := float64(size-1) / 2.0
	for n := range buf {
		buf[n] *= 1.0 - math.Abs((float64(n)-half)/half)
	}
}

// Names lists the functions Lookup knows.
var Names = []string{"none", "hann", "hamming", "bartlett"}

// Lookup returns the window function called name. "none" and "" return nil.
func Lookup(name string) (Function, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "rectangle":
		return Rectangle, nil
	case "hann":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "bartlett":
		return Bartlett, nil
	}

	return nil, errors.Errorf("unknown window function %q", name)
}
