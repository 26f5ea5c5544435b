package dsp

import (
	"time"

	"github.com/noriah/thump/util"
)

var _ Estimator = (*Temporal)(nil)

// Temporal estimator defaults.
const (
	DefaultTemporalSize = 300
	DefaultEpsilon      = 7
	DefaultFrameRate    = 30.0
	DefaultMinPeaks     = 5
	DefaultMaxPeaks     = 20
	DefaultPeakMaxBPM   = 200.0
	DefaultMaxRelError  = 0.25
)

// TemporalConfig configures a temporal estimator.
type TemporalConfig struct {
	Size      int           // samples in the rolling window
	Epsilon   int           // peak tolerance in samples
	Warmup    time.Duration // time from the first sample before estimating
	FrameRate float64       // nominal frames per second
	MinPeaks  int           // smallest peak subset tried
	MaxPeaks  int           // largest peak subset tried
	MaxBPM    float64       // sets the minimum distance between peaks
	MaxErr    float64       // max relative error of a distance from the mean
}

// Temporal estimates BPM from the spacing of pulse peaks in a smoothed
// rolling window.
type Temporal struct {
	cfg TemporalConfig

	win     *util.SampleWindow
	started time.Time
	seeded  bool

	values    []float64
	smoothed  []float64
	peaks     []int
	distances []float64
	sel       peakSelector

	// surviving peak positions of the last estimate, in smoothed indices
	result []int
	chart  []float64
}

// NewTemporal returns a temporal estimator. Zero fields take their defaults.
func NewTemporal(cfg TemporalConfig) *Temporal {
	if cfg.Size <= 0 {
		cfg.Size = DefaultTemporalSize
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if cfg.MinPeaks <= 0 {
		cfg.MinPeaks = DefaultMinPeaks
	}
	if cfg.MaxPeaks < cfg.MinPeaks {
		cfg.MaxPeaks = max(DefaultMaxPeaks, cfg.MinPeaks)
	}
	if cfg.MaxBPM <= 0 {
		cfg.MaxBPM = DefaultPeakMaxBPM
	}
	if cfg.MaxErr <= 0 {
		cfg.MaxErr = DefaultMaxRelError
	}
	if cfg.Warmup < 0 {
		cfg.Warmup = 0
	}

	return &Temporal{
		cfg:      cfg,
		win:      util.NewSampleWindow(cfg.Size),
		values:   make([]float64, 0, cfg.Size),
		smoothed: make([]float64, 0, cfg.Size),
	}
}

// MinDistance is the peak distance of MaxBPM at the frame rate.
func (te *Temporal) MinDistance() int {
	return int(te.cfg.FrameRate * 60.0 / te.cfg.MaxBPM)
}

// Push adds a sample and, once the warm-up has passed, runs an estimate over
// the window.
func (te *Temporal) Push(s Sample) (int, bool) {
	if !te.seeded {
		te.started = s.Time
		te.seeded = true
	}

	te.win.Push(s.Value, s.Time)

	if s.Time.Sub(te.started) < te.cfg.Warmup {
		return 0, false
	}

	return te.estimate()
}

func (te *Temporal) estimate() (int, bool) {
	te.result = te.result[:0]

	// need at least one index that has eps neighbors on both sides
	if te.win.Len() < 2*te.cfg.Epsilon+3 {
		return 0, false
	}

	te.values = te.win.Values(te.values)
	te.smoothed = Smooth(te.smoothed, te.values)

	te.peaks = FindPeaks(te.peaks[:0], te.smoothed, te.cfg.Epsilon)
	if len(te.peaks) < 2 {
		return 0, false
	}

	RankPeaks(te.peaks, te.smoothed)

	subset := te.sel.selectSubset(te.peaks, te.cfg.MinPeaks, te.cfg.MaxPeaks)
	subset = te.sel.dropClose(subset, te.MinDistance())
	subset = dropUneven(subset, te.cfg.MaxErr)

	te.distances = Distances(te.distances[:0], subset)
	te.distances = FilterDistances(te.distances, te.cfg.MaxErr)
	if len(te.distances) == 0 {
		return 0, false
	}

	te.result = append(te.result, subset...)
	te.chart = append(te.chart[:0], te.smoothed...)

	bpm := BPMFromDistances(te.distances, te.cfg.FrameRate)
	if bpm <= 0 {
		return 0, false
	}
	return bpm, true
}

// BPMFromDistances converts peak distances in samples to beats per minute.
// The mean distance is truncated to whole samples first, so {25, 26} at
// 30 fps is 72, not 70. It returns 0 when there is nothing to average.
func BPMFromDistances(distances []float64, fps float64) int {
	if len(distances) == 0 {
		return 0
	}

	var sum int
	for _, d := range distances {
		sum += int(d)
	}

	mean := sum / len(distances)
	if mean <= 0 {
		return 0
	}
	return int(fps * 60.0 / float64(mean))
}

// Reset drops every sample and restarts the warm-up.
func (te *Temporal) Reset() {
	te.win.Reset()
	te.seeded = false
	te.started = time.Time{}
	te.result = te.result[:0]
	te.chart = te.chart[:0]
}

// Samples appends the window, oldest first, as chart points.
func (te *Temporal) Samples(dst []Point) []Point {
	for i := 0; i < te.win.Len(); i++ {
		v, _ := te.win.At(i)
		dst = append(dst, Point{X: float64(i), Y: v})
	}
	return dst
}

// Peaks appends the peaks behind the last estimate as (window position,
// smoothed amplitude).
func (te *Temporal) Peaks(dst []Point) []Point {
	for _, p := range te.result {
		dst = append(dst, Point{X: float64(p + 1), Y: te.chart[p]})
	}
	return dst
}
