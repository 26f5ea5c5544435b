package dsp

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/noriah/thump/dsp/window"
	"github.com/noriah/thump/fft"
	"github.com/noriah/thump/util"
	"github.com/pkg/errors"
)

var _ Estimator = (*Spectral)(nil)

var errEmptyBand = errors.New("heart rate band maps to no bins")

// Heart rate band searched by the spectral estimator.
const (
	DefaultMinBPM = 40.0
	DefaultMaxBPM = 160.0

	DefaultSpectralSize = 256
)

// SpectralConfig configures a spectral estimator.
type SpectralConfig struct {
	Size   int             // number of samples per transform
	MinBPM float64         // lower edge of the band
	MaxBPM float64         // upper edge of the band
	Window window.Function // optional taper before the transform
}

// Spectral estimates BPM from the strongest frequency in the heart rate band
// of a full sample window.
type Spectral struct {
	cfg SpectralConfig

	win  *util.SampleWindow
	plan *fft.Plan

	input  []float64
	output []complex128

	// last winning bin, -1 if none
	bin int
	fs  float64
}

// NewSpectral returns a spectral estimator. Zero fields take their defaults.
func NewSpectral(cfg SpectralConfig) *Spectral {
	if cfg.Size < 4 {
		cfg.Size = DefaultSpectralSize
	}

	if cfg.MinBPM <= 0 {
		cfg.MinBPM = DefaultMinBPM
	}

	if cfg.MaxBPM <= cfg.MinBPM {
		cfg.MaxBPM = DefaultMaxBPM
	}

	sp := &Spectral{
		cfg: cfg,
		win: util.NewSampleWindow(cfg.Size),
		bin: -1,
	}

	sp.alloc()

	return sp
}

func (sp *Spectral) alloc() {
	sp.input = make([]float64, sp.cfg.Size)
	sp.output = make([]complex128, sp.cfg.Size/2+1)
	fft.InitPlan(&sp.plan, sp.input, sp.output)
}

// Size returns the number of samples per transform.
func (sp *Spectral) Size() int {
	return sp.cfg.Size
}

// Push adds a sample. Once the window is full every push runs a transform.
func (sp *Spectral) Push(s Sample) (int, bool) {
	sp.win.Push(s.Value, s.Time)

	if !sp.win.Full() {
		return 0, false
	}

	bpm, err := sp.estimate()
	if err != nil {
		return 0, false
	}

	return bpm, true
}

// Rate returns the sample rate measured by the last estimate.
func (sp *Spectral) Rate() float64 {
	return sp.fs
}

func (sp *Spectral) estimate() (int, error) {
	sp.bin = -1

	span := sp.win.Span()
	if span <= 0 {
		return 0, ErrZeroSpan
	}

	n := float64(sp.cfg.Size)
	sp.fs = n / (float64(span) / float64(time.Millisecond)) * 1000.0

	sp.win.Values(sp.input)
	if sp.cfg.Window != nil {
		sp.cfg.Window(sp.input)
	}

	sp.plan.Execute()

	low := bandBin(sp.cfg.MinBPM, n, sp.fs)
	high := min(bandBin(sp.cfg.MaxBPM, n, sp.fs), sp.plan.Bins())

	best := -1
	bestMag := 0.0
	for i := max(low, 0); i < high; i++ {
		// strict compare keeps the lowest bin on a tie
		if mag := cmplx.Abs(sp.output[i]); best < 0 || mag > bestMag {
			best = i
			bestMag = mag
		}
	}

	if best < 0 {
		return 0, errEmptyBand
	}

	sp.bin = best

	return int(math.Round(float64(best) * sp.fs * 60.0 / n)), nil
}

// bandBin maps a BPM value to the nearest transform bin.
func bandBin(bpm, n, fs float64) int {
	return int(math.Round(n * bpm / 60.0 / fs))
}

// Reset drops every sample.
func (sp *Spectral) Reset() {
	sp.win.Reset()
	sp.bin = -1
	sp.fs = 0
}

// Samples appends the window, oldest first, as chart points.
func (sp *Spectral) Samples(dst []Point) []Point {
	for i := 0; i < sp.win.Len(); i++ {
		v, _ := sp.win.At(i)
		dst = append(dst, Point{X: float64(i), Y: v})
	}
	return dst
}

// Peaks appends the winning bin of the last estimate as (bpm, magnitude).
func (sp *Spectral) Peaks(dst []Point) []Point {
	if sp.bin < 0 {
		return dst
	}

	bpm := float64(sp.bin) * sp.fs * 60.0 / float64(sp.cfg.Size)
	return append(dst, Point{X: bpm, Y: cmplx.Abs(sp.output[sp.bin])})
}
