package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/processor"
	"github.com/noriah/thump/util"
)

// RecentEstimates is how many estimates the spread is taken over.
const RecentEstimates = 10

// RawOutput prints one line per estimate.
type RawOutput struct {
	w io.Writer

	// Smoother, if set, adds a filtered value to every line.
	Smoother *dsp.Kalman
	// Verbose prints the sample series after every estimate.
	Verbose bool

	recent  *util.SampleWindow
	samples []dsp.Point
}

var _ processor.Output = &RawOutput{}

func NewRawOutput(w io.Writer) *RawOutput {
	return &RawOutput{
		w:      w,
		recent: util.NewSampleWindow(RecentEstimates),
	}
}

func (d *RawOutput) WritePresence(present bool) error {
	if !present {
		d.recent.Reset()
		if d.Smoother != nil {
			d.Smoother.Reset()
		}
	}

	_, err := fmt.Fprintf(d.w, "finger %s\n", presenceString(present))
	return err
}

func (d *RawOutput) WriteBPM(e dsp.Estimate) error {
	if e.BPM < 0 {
		_, err := fmt.Fprintln(d.w, "no estimate")
		return err
	}

	d.recent.Push(float64(e.BPM), time.Now())
	mean, sd := d.recent.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "%3d bpm  avg %5.1f ±%4.1f", e.BPM, mean, sd)

	if d.Smoother != nil {
		fmt.Fprintf(&b, "  kalman %5.1f", d.Smoother.Smooth(float64(e.BPM)))
	}

	if d.Verbose {
		for _, p := range d.samples {
			fmt.Fprintf(&b, " %.1f", p.Y)
		}
	}

	b.WriteByte('\n')

	_, err := io.WriteString(d.w, b.String())
	return err
}

func (d *RawOutput) WriteSamples(pts []dsp.Point) error {
	if d.Verbose {
		d.samples = append(d.samples[:0], pts...)
	}
	return nil
}

func (d *RawOutput) WritePeaks([]dsp.Point) error {
	return nil
}

func presenceString(present bool) string {
	if present {
		return dsp.Present.String()
	}
	return dsp.Absent.String()
}
