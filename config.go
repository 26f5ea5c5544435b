package thump

import (
	"log"
	"time"

	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/dsp/window"
	"github.com/noriah/thump/input"
	"github.com/noriah/thump/observe"
	"github.com/noriah/thump/processor"
	"github.com/pkg/errors"
)

// Limits checked by Validate.
const (
	MaxFrameSide  = 4096
	MaxWindowSize = 4096
	MinWindowSize = 16
)

type Config struct {
	// The name of the backend from the input package
	Backend string
	// The name of the device to capture from
	Device string
	// Frame width in pixels
	Width int
	// Frame height in pixels
	Height int
	// Pixel layout requested from the device
	Layout input.Layout
	// Nominal frames per second
	FrameRate float64

	// Estimator used for the whole run
	Mode dsp.Mode
	// Samples per spectral transform
	SpectralSize int
	// Samples in the temporal window
	TemporalSize int
	// Temporal peak tolerance in samples
	Epsilon int
	// Time from the first sample before temporal estimates start
	Warmup time.Duration
	// Debounce time of the finger detector
	Settle time.Duration
	// Mean intensity needed to count as a finger
	Threshold float64
	// Taper applied before the spectral transform, may be nil
	Windower window.Function

	// Run cycles on a worker goroutine
	UseThreaded bool

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
	// Where to send the estimates
	Output processor.Output
	// Notified on finger transitions
	Power processor.PowerPolicy
	// Metric instruments, may be nil
	Metrics *observe.Metrics
	// Debug log, nil is silent
	Logger *log.Logger
}

func NewZeroConfig() Config {
	return Config{
		Width:        320,
		Height:       240,
		Layout:       input.LayoutNV21,
		FrameRate:    dsp.DefaultFrameRate,
		Mode:         dsp.ModeSpectral,
		SpectralSize: dsp.DefaultSpectralSize,
		TemporalSize: dsp.DefaultTemporalSize,
		Epsilon:      dsp.DefaultEpsilon,
		Settle:       dsp.DefaultSettleTime,
		Threshold:    dsp.DefaultIntensityThreshold,
		UseThreaded:  true,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Width < 1 || cfg.Height < 1:
		return errors.New("frame size too small (1x1 min)")

	case cfg.Width > MaxFrameSide || cfg.Height > MaxFrameSide:
		return errors.Errorf("frame size too large (%d max per side)", MaxFrameSide)
	}

	if cfg.FrameRate <= 0 {
		return errors.New("frame rate must be positive")
	}

	switch cfg.Mode {
	case dsp.ModeSpectral, dsp.ModeTemporal:
	default:
		return errors.Errorf("unknown mode %v", cfg.Mode)
	}

	for _, size := range []int{cfg.SpectralSize, cfg.TemporalSize} {
		switch {
		case size < MinWindowSize:
			return errors.Errorf("window size too small (%d min)", MinWindowSize)

		case size > MaxWindowSize:
			return errors.Errorf("window size too large (%d max)", MaxWindowSize)
		}
	}

	if cfg.Epsilon < 1 || 2*cfg.Epsilon+3 > cfg.TemporalSize {
		return errors.Errorf("epsilon %d does not fit a %d sample window", cfg.Epsilon, cfg.TemporalSize)
	}

	if cfg.Warmup < 0 || cfg.Settle < 0 {
		return errors.New("warm-up and settle time can not be negative")
	}

	if cfg.Threshold < 0 || cfg.Threshold > 255 {
		return errors.New("intensity threshold out of range [0, 255]")
	}

	return nil
}

// processorConfig maps the run config onto the processor.
func (cfg *Config) processorConfig() processor.Config {
	return processor.Config{
		Mode: cfg.Mode,
		Spectral: dsp.SpectralConfig{
			Size:   cfg.SpectralSize,
			Window: cfg.Windower,
		},
		Temporal: dsp.TemporalConfig{
			Size:      cfg.TemporalSize,
			Epsilon:   cfg.Epsilon,
			Warmup:    cfg.Warmup,
			FrameRate: cfg.FrameRate,
		},
		Presence: dsp.PresenceConfig{
			Threshold: cfg.Threshold,
			Settle:    cfg.Settle,
		},
		Output:  cfg.Output,
		Power:   cfg.Power,
		Metrics: cfg.Metrics,
		Logger:  cfg.Logger,
	}
}
