// Package synthetic renders camera frames of a fingertip over the lens
// without any camera. Brightness follows a pulse waveform at a fixed heart
// rate, with optional noise and periodic finger-off gaps.
package synthetic

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/noriah/thump/input"
	"github.com/noriah/thump/input/common/timer"
)

func init() {
	input.RegisterBackend("synthetic", Backend{})
}

// Default pulse parameters.
const (
	DefaultBPM       = 72.0
	DefaultLevel     = 215.0
	DefaultAmplitude = 12.0
	// DarkLevel is the luma of a frame with no finger on the lens.
	DarkLevel = 40.0
)

type Backend struct{}

func (Backend) Init() error  { return nil }
func (Backend) Close() error { return nil }

func (Backend) Devices() ([]input.Device, error) {
	return []input.Device{Device{BPM: DefaultBPM}}, nil
}

func (Backend) DefaultDevice() (input.Device, error) {
	return Device{BPM: DefaultBPM}, nil
}

func (Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		dv = Device{BPM: DefaultBPM}
	}
	return NewSession(dv, cfg), nil
}

// Device describes the simulated finger.
type Device struct {
	BPM   float64
	Noise float64 // peak noise in luma units
	// GapEvery and GapLength lift the finger off the lens periodically.
	GapEvery  time.Duration
	GapLength time.Duration
}

func (d Device) String() string {
	return "synthetic"
}

// Wave is a unit pulse waveform: a systolic peak followed by a smaller
// dicrotic bump. phase is in [0, 1).
func Wave(phase float64) float64 {
	return gauss(phase, 0.25, 0.07) + 0.35*gauss(phase, 0.55, 0.08)
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

// Source produces pulse frames from elapsed time.
type Source struct {
	dev  Device
	cfg  input.SessionConfig
	rng  *rand.Rand
	pool sync.Pool
}

func NewSource(dev Device, cfg input.SessionConfig) *Source {
	if dev.BPM <= 0 {
		dev.BPM = DefaultBPM
	}

	size := cfg.FrameSize()

	return &Source{
		dev: dev,
		cfg: cfg,
		rng: rand.New(rand.NewPCG(1, 2)),
		pool: sync.Pool{New: func() any {
			buf := make([]byte, size)
			return &buf
		}},
	}
}

// Level returns the luma of the frame elapsed into the session.
func (s *Source) Level(elapsed time.Duration) float64 {
	if s.dev.GapEvery > 0 && s.dev.GapLength > 0 {
		if elapsed%s.dev.GapEvery >= s.dev.GapEvery-s.dev.GapLength {
			return DarkLevel
		}
	}

	beats := elapsed.Seconds() * s.dev.BPM / 60
	_, phase := math.Modf(beats)

	v := DefaultLevel + DefaultAmplitude*Wave(phase)
	if s.dev.Noise > 0 {
		v += s.dev.Noise * (2*s.rng.Float64() - 1)
	}

	return max(0, min(255, v))
}

// Frame renders the frame elapsed into the session. The luma plane carries
// the level, the chroma plane is neutral red-ish so decoded red tracks luma.
func (s *Source) Frame(elapsed time.Duration, at time.Time) input.Frame {
	bufp := s.pool.Get().(*[]byte)
	buf := *bufp

	luma := s.cfg.Width * s.cfg.Height
	y := byte(s.Level(elapsed))

	for i := range buf[:luma] {
		buf[i] = y
	}

	if s.cfg.Layout != input.LayoutGray {
		// V (Cr) first for NV21.
		v, u := byte(170), byte(128)
		if s.cfg.Layout == input.LayoutNV12 {
			v, u = u, v
		}

		chroma := buf[luma:]
		for i := 0; i+1 < len(chroma); i += 2 {
			chroma[i], chroma[i+1] = v, u
		}
	}

	return input.Frame{
		Data:    buf,
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
		Layout:  s.cfg.Layout,
		Time:    at,
		Release: func() { s.pool.Put(bufp) },
	}
}

type Session struct {
	src  *Source
	rate float64
}

func NewSession(dev Device, cfg input.SessionConfig) *Session {
	return &Session{src: NewSource(dev, cfg), rate: cfg.FrameRate}
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	start := time.Now()

	return timer.Pace(ctx, s.rate, func(now time.Time) error {
		sink.Submit(s.src.Frame(now.Sub(start), now))
		return nil
	})
}
