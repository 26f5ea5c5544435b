// Package thump measures heart rate from a camera pressed against a finger.
//
// Run wires a frame backend from the input package into a processor and its
// outputs.
package thump

import (
	"context"

	"github.com/noriah/thump/input"
	"github.com/noriah/thump/processor"
	"github.com/pkg/errors"
)

// SetupFunc is called before anything starts.
type SetupFunc func() error

// StartFunc is called once the processor runs. It may wrap the context.
type StartFunc func(context.Context) (context.Context, error)

// CleanupFunc is called when the run ends.
type CleanupFunc func() error

// Run captures frames until ctx is done or the source ends.
func Run(cfg *Config, ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		FrameRate: cfg.FrameRate,
		Layout:    cfg.Layout,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	session, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	var proc *processor.Processor
	if cfg.UseThreaded {
		proc = processor.NewThreaded(cfg.processorConfig())
	} else {
		proc = processor.New(cfg.processorConfig())
	}

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = proc.Start(ctx)
	defer proc.Stop()

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return err
		}
	}

	if err := session.Start(ctx, proc); err != nil {
		if !errors.Is(ctx.Err(), context.Canceled) {
			return errors.Wrap(err, "failed to start input session")
		}
	}

	stats := proc.Stats()
	if cfg.Logger != nil {
		cfg.Logger.Printf("frames: %d received, %d admitted, %d dropped, %d rejected; %d estimates",
			stats.Received, stats.Admitted, stats.Dropped, stats.Rejected, stats.Estimates)
	}

	return nil
}
