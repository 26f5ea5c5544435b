// Package processor runs camera frames through the heart rate pipeline.
//
// Each submitted frame must pass the Guard: when a cycle is still running the
// frame is dropped. An admitted frame is copied into a staging buffer, handed
// back to its source, reduced to one intensity sample, checked for finger
// presence and pushed into the configured estimator.
package processor

import (
	"context"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/input"
	"github.com/noriah/thump/observe"
	"github.com/pkg/errors"
)

// ErrStarted is returned by setters once the processor has started.
var ErrStarted = errors.New("processor already started")

// frames between two delivery interval log lines
const logEvery = 30

const (
	stateIdle int32 = iota
	stateStarting
	stateRunning
	stateStopped
)

// Config is the processor configuration.
type Config struct {
	Mode     dsp.Mode           // estimator used for the whole run
	Spectral dsp.SpectralConfig // spectral estimator settings
	Temporal dsp.TemporalConfig // temporal estimator settings
	Presence dsp.PresenceConfig // finger detection settings
	Output   Output             // where results go, may be nil
	Power    PowerPolicy        // power hook, may be nil
	Metrics  *observe.Metrics   // metric instruments, may be nil
	Logger   *log.Logger        // debug log, nil is silent
}

// Stats are the frame counters of a processor.
type Stats struct {
	Received  uint64 // frames submitted while running
	Admitted  uint64 // frames that got a cycle
	Dropped   uint64 // frames that found a cycle in flight
	Rejected  uint64 // admitted frames the reducer refused
	Estimates uint64 // BPM values written
}

// Processor is one heart rate pipeline for one frame stream.
type Processor struct {
	cfg        Config
	windowSize int
	threaded   bool

	state atomic.Int32
	guard Guard

	presence *dsp.PresenceDetector
	est      dsp.Estimator

	out       Output
	power     PowerPolicy
	powerHeld bool
	logger    *log.Logger

	// staging holds the bytes of the admitted frame. Only the goroutine
	// holding the guard touches it.
	staging []byte
	frame   input.Frame
	points  []dsp.Point

	received  atomic.Uint64
	rejected  atomic.Uint64
	estimates atomic.Uint64
	mark      atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	kick   chan struct{}
	wg     sync.WaitGroup
}

// New returns a processor that runs each cycle inside Submit.
func New(cfg Config) *Processor {
	if cfg.Output == nil {
		cfg.Output = nopOutput{}
	}

	if cfg.Power == nil {
		cfg.Power = NopPower{}
	}

	return &Processor{
		cfg:      cfg,
		out:      cfg.Output,
		power:    cfg.Power,
		logger:   cfg.Logger,
		presence: dsp.NewPresenceDetector(cfg.Presence),
		ctx:      context.Background(),
	}
}

func (p *Processor) logf(format string, v ...any) {
	if p.logger != nil {
		p.logger.Printf(format, v...)
	}
}

func (p *Processor) setter() error {
	if p.state.Load() != stateIdle {
		return ErrStarted
	}
	return nil
}

// SetWindowSize sets the sample window capacity of the selected estimator.
func (p *Processor) SetWindowSize(n int) error {
	if err := p.setter(); err != nil {
		return err
	}
	if n < 4 {
		return errors.Errorf("window size %d too small", n)
	}

	p.windowSize = n
	return nil
}

// SetEpsilon sets the temporal peak tolerance.
func (p *Processor) SetEpsilon(eps int) error {
	if err := p.setter(); err != nil {
		return err
	}
	if eps < 1 {
		return errors.Errorf("epsilon %d must be positive", eps)
	}

	p.cfg.Temporal.Epsilon = eps
	return nil
}

// SetWarmup sets the temporal warm-up time.
func (p *Processor) SetWarmup(d time.Duration) error {
	if err := p.setter(); err != nil {
		return err
	}
	if d < 0 {
		return errors.Errorf("negative warm-up %v", d)
	}

	p.cfg.Temporal.Warmup = d
	return nil
}

// SetMode selects the estimator.
func (p *Processor) SetMode(m dsp.Mode) error {
	if err := p.setter(); err != nil {
		return err
	}
	if m != dsp.ModeSpectral && m != dsp.ModeTemporal {
		return errors.Errorf("unknown mode %v", m)
	}

	p.cfg.Mode = m
	return nil
}

// Mode returns the selected estimator.
func (p *Processor) Mode() dsp.Mode {
	return p.cfg.Mode
}

func (p *Processor) buildEstimator() dsp.Estimator {
	if p.cfg.Mode == dsp.ModeTemporal {
		tc := p.cfg.Temporal
		if p.windowSize > 0 {
			tc.Size = p.windowSize
		}
		return dsp.NewTemporal(tc)
	}

	sc := p.cfg.Spectral
	if p.windowSize > 0 {
		sc.Size = p.windowSize
	}
	return dsp.NewSpectral(sc)
}

// Start builds the estimator, writes the initial "no finger" values and
// starts accepting frames. The processor stops when the returned context is
// done. A processor only starts once; concurrent calls wait for the first
// and return its context.
func (p *Processor) Start(ctx context.Context) context.Context {
	if !p.state.CompareAndSwap(stateIdle, stateStarting) {
		for p.state.Load() == stateStarting {
			runtime.Gosched()
		}
		return p.ctx
	}

	p.est = p.buildEstimator()
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.write(p.out.WritePresence(false))
	p.write(p.out.WriteBPM(dsp.NoEstimate))

	if p.threaded {
		p.kick = make(chan struct{}, 1)
		p.wg.Add(1)
		go p.worker()
	}

	p.state.Store(stateRunning)

	go func() {
		<-p.ctx.Done()
		p.Stop()
	}()

	return p.ctx
}

// Stop waits for the cycle in flight, releases a held power resource and
// drops every buffer. Frames submitted after Stop are ignored.
func (p *Processor) Stop() {
	if !p.state.CompareAndSwap(stateRunning, stateStopped) {
		return
	}

	// keep the guard busy from here on
	p.guard.hold()

	if p.kick != nil {
		close(p.kick)
		p.wg.Wait()
	}

	if p.powerHeld {
		p.power.Release()
		p.powerHeld = false
	}

	p.est.Reset()
	p.presence.Reset()
	p.staging = nil
	p.points = nil
	p.frame = input.Frame{}

	p.cancel()
}

// Submit offers a frame. The frame is always recycled before Submit returns.
// It returns false when the frame was dropped.
func (p *Processor) Submit(f input.Frame) bool {
	defer f.Recycle()

	if p.state.Load() != stateRunning {
		return false
	}

	p.countReceived()

	if !p.guard.TryAcquire() {
		p.cfg.Metrics.RecordFrame(p.ctx, observe.OutcomeDropped)
		return false
	}

	p.cfg.Metrics.RecordFrame(p.ctx, observe.OutcomeAdmitted)

	p.staging = append(p.staging[:0], f.Data...)
	p.frame = f
	p.frame.Data = p.staging
	p.frame.Release = nil
	if p.frame.Time.IsZero() {
		p.frame.Time = time.Now()
	}

	if p.threaded {
		// never blocks, the guard keeps the channel empty
		p.kick <- struct{}{}
		return true
	}

	p.cycle()
	p.guard.Release()

	return true
}

func (p *Processor) countReceived() {
	n := p.received.Add(1)
	now := time.Now().UnixNano()

	switch {
	case n == 1:
		p.mark.Store(now)
	case n%logEvery == 1:
		prev := p.mark.Swap(now)
		p.logf("received %d frames in %v", logEvery, time.Duration(now-prev))
	}
}

// cycle runs one reduce and estimate pass over the staged frame.
func (p *Processor) cycle() {
	start := time.Now()
	defer func() {
		p.cfg.Metrics.RecordCycle(p.ctx, time.Since(start).Seconds())
	}()

	value, err := dsp.Reduce(p.frame)
	if err != nil {
		p.rejected.Add(1)
		p.cfg.Metrics.RecordFrame(p.ctx, observe.OutcomeRejected)
		p.logf("frame rejected: %v", err)
		return
	}

	raw, state, changed := p.presence.Update(value, p.frame.Time)
	if changed {
		p.transition(state)
	}

	if state != dsp.Present || raw != dsp.Present {
		return
	}

	bpm, ok := p.est.Push(dsp.Sample{Value: value, Time: p.frame.Time})

	p.points = p.est.Samples(p.points[:0])
	p.write(p.out.WriteSamples(p.points))

	if !ok {
		return
	}

	p.estimates.Add(1)
	p.cfg.Metrics.RecordEstimate(p.ctx, p.cfg.Mode.String(), bpm)
	p.write(p.out.WriteBPM(dsp.Estimate{BPM: bpm, Presence: dsp.Present}))

	p.points = p.est.Peaks(p.points[:0])
	if len(p.points) > 0 {
		p.write(p.out.WritePeaks(p.points))
	}
}

func (p *Processor) transition(state dsp.Presence) {
	p.logf("finger %s", state)
	p.cfg.Metrics.RecordPresence(p.ctx, state.String())

	if state == dsp.Present {
		if !p.powerHeld {
			p.power.Acquire()
			p.powerHeld = true
		}
		p.write(p.out.WritePresence(true))
		return
	}

	// stale signal must not leak into the next measurement
	p.est.Reset()
	p.write(p.out.WriteSamples(nil))
	p.write(p.out.WritePeaks(nil))

	if p.powerHeld {
		p.power.Release()
		p.powerHeld = false
	}
	p.write(p.out.WritePresence(false))
}

func (p *Processor) write(err error) {
	if err != nil {
		p.logf("output: %v", err)
	}
}

// Stats returns the frame counters.
func (p *Processor) Stats() Stats {
	return Stats{
		Received:  p.received.Load(),
		Admitted:  p.guard.Admitted(),
		Dropped:   p.guard.Dropped(),
		Rejected:  p.rejected.Load(),
		Estimates: p.estimates.Load(),
	}
}
