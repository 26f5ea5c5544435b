package util

import (
	"math"
	"time"
)

// SampleWindow is a fixed-capacity ring of (value, time) pairs.
//
// Values live in two parallel arrays allocated once. head is the slot the
// next Push writes to; once the window is full that slot holds the oldest
// sample, which the push evicts. Logical index 0 is always the oldest sample.
//
// A running sum and sum of squares are kept so Mean and StdDev are O(1).
type SampleWindow struct {
	values []float64
	times  []time.Time

	head   int
	length int

	sum   float64
	sumSq float64
}

// NewSampleWindow returns a new window holding at most size samples.
func NewSampleWindow(size int) *SampleWindow {
	if size < 1 {
		size = 1
	}

	return &SampleWindow{
		values: make([]float64, size),
		times:  make([]time.Time, size),
	}
}

// Push adds a sample, evicting the oldest one if the window is full.
// It returns the evicted value and whether one was evicted.
func (sw *SampleWindow) Push(value float64, t time.Time) (float64, bool) {
	var old float64
	var evicted bool

	if sw.length == len(sw.values) {
		old = sw.values[sw.head]
		evicted = true
		sw.sum -= old
		sw.sumSq -= old * old
	} else {
		sw.length++
	}

	sw.values[sw.head] = value
	sw.times[sw.head] = t
	sw.sum += value
	sw.sumSq += value * value

	if sw.head++; sw.head == len(sw.values) {
		sw.head = 0
	}

	return old, evicted
}

// index maps a logical index (0 = oldest) to a slot.
func (sw *SampleWindow) index(i int) int {
	start := sw.head - sw.length
	if start < 0 {
		start += len(sw.values)
	}

	i += start
	if i >= len(sw.values) {
		i -= len(sw.values)
	}

	return i
}

// At returns the i-th oldest sample.
func (sw *SampleWindow) At(i int) (float64, time.Time) {
	x := sw.index(i)
	return sw.values[x], sw.times[x]
}

// First returns the time of the oldest sample.
func (sw *SampleWindow) First() time.Time {
	if sw.length == 0 {
		return time.Time{}
	}
	return sw.times[sw.index(0)]
}

// Last returns the time of the newest sample.
func (sw *SampleWindow) Last() time.Time {
	if sw.length == 0 {
		return time.Time{}
	}
	return sw.times[sw.index(sw.length-1)]
}

// Span is the time between the oldest and the newest sample.
func (sw *SampleWindow) Span() time.Duration {
	return sw.Last().Sub(sw.First())
}

// Values copies the samples oldest-first into dst, growing it when needed,
// and returns it.
func (sw *SampleWindow) Values(dst []float64) []float64 {
	if cap(dst) < sw.length {
		dst = make([]float64, sw.length)
	}
	dst = dst[:sw.length]

	start := sw.index(0)
	n := copy(dst, sw.values[start:min(start+sw.length, len(sw.values))])
	copy(dst[n:], sw.values[:sw.length-n])

	return dst
}

// Reset drops every sample. Capacity is kept.
func (sw *SampleWindow) Reset() {
	sw.head = 0
	sw.length = 0
	sw.sum = 0
	sw.sumSq = 0

	for i := range sw.times {
		sw.times[i] = time.Time{}
	}
}

// Len returns how many samples are in the window.
func (sw *SampleWindow) Len() int {
	return sw.length
}

// Cap returns the max size of the window.
func (sw *SampleWindow) Cap() int {
	return len(sw.values)
}

// Full reports whether the window holds Cap samples.
func (sw *SampleWindow) Full() bool {
	return sw.length == len(sw.values)
}

// Mean is the window average.
func (sw *SampleWindow) Mean() float64 {
	if sw.length == 0 {
		return 0
	}
	return sw.sum / float64(sw.length)
}

// StdDev is the population standard deviation of the window.
func (sw *SampleWindow) StdDev() float64 {
	if sw.length < 2 {
		return 0
	}

	mean := sw.Mean()
	// running sums drift a little; never hand back NaN
	return math.Sqrt(math.Abs(sw.sumSq/float64(sw.length) - mean*mean))
}

// Stats returns the mean and standard deviation of the window.
func (sw *SampleWindow) Stats() (float64, float64) {
	return sw.Mean(), sw.StdDev()
}
