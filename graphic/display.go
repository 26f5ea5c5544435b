// Package graphic draws the pulse chart and heart rate on a terminal.
package graphic

import (
	"context"
	"sync"

	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/processor"

	"github.com/nsf/termbox-go"
)

var _ processor.Output = (*Display)(nil)

// Display is a termbox output. The processor writes into it from its cycle;
// every write redraws the screen.
type Display struct {
	mu sync.Mutex

	samples []dsp.Point
	peaks   []dsp.Point
	est     dsp.Estimate
	present bool

	// MarkPeaks colors the chart columns of peaks. Only temporal peaks carry
	// window positions.
	MarkPeaks bool
	// Smoother, if set, filters the BPM shown in the header.
	Smoother *dsp.Kalman
	smoothed float64

	restore func()
	active  bool
}

// Init sets up the terminal.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		restore()
		return err
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	d.mu.Lock()
	d.restore = restore
	d.active = true
	d.est = dsp.NoEstimate
	d.mu.Unlock()

	return nil
}

// Close hands the terminal back.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	d.active = false
	termbox.Close()
	d.restore()

	return nil
}

// Start polls the keyboard. The returned context is canceled when the user
// quits.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel)
	return dispCtx
}

// Stop wakes the event poller so it can see its context is done.
func (d *Display) Stop() error {
	termbox.Interrupt()
	return nil
}

func eventPoller(ctx context.Context, fn context.CancelFunc) {
	defer fn()

	for {
		// first check if we need to exit
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if quitKey(ev) {
				return
			}

		case termbox.EventError:
			return

		default:
		}
	}
}

func quitKey(ev termbox.Event) bool {
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return true
	}

	return ev.Ch == 'q' || ev.Ch == 'Q'
}

func (d *Display) WritePresence(present bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.present = present
	if !present && d.Smoother != nil {
		d.Smoother.Reset()
	}

	return d.draw()
}

func (d *Display) WriteBPM(e dsp.Estimate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.est = e
	if d.Smoother != nil && e.BPM > 0 {
		d.smoothed = d.Smoother.Smooth(float64(e.BPM))
	}

	return d.draw()
}

func (d *Display) WriteSamples(pts []dsp.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.samples = append(d.samples[:0], pts...)
	return d.draw()
}

func (d *Display) WritePeaks(pts []dsp.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.peaks = append(d.peaks[:0], pts...)
	return nil
}
