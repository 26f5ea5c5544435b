package processor

import (
	"github.com/noriah/thump/dsp"
)

// Output receives what the processor produces. The processor calls an Output
// from one cycle at a time.
//
// Point slices are reused by the processor after the call returns; an Output
// that keeps them must copy.
type Output interface {
	// WritePresence is called on every reported finger transition.
	WritePresence(present bool) error
	// WriteBPM is called once per produced estimate.
	WriteBPM(dsp.Estimate) error
	// WriteSamples is called with the chart of the sample window. A nil
	// slice clears the chart.
	WriteSamples([]dsp.Point) error
	// WritePeaks is called with the peaks behind an estimate. A nil slice
	// clears the chart.
	WritePeaks([]dsp.Point) error
}

// Outputs fans each write out to every output in order. The first error is
// returned after all outputs have been written.
type Outputs []Output

func (o Outputs) each(fn func(Output) error) error {
	var first error
	for _, out := range o {
		if err := fn(out); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (o Outputs) WritePresence(present bool) error {
	return o.each(func(out Output) error { return out.WritePresence(present) })
}

func (o Outputs) WriteBPM(e dsp.Estimate) error {
	return o.each(func(out Output) error { return out.WriteBPM(e) })
}

func (o Outputs) WriteSamples(pts []dsp.Point) error {
	return o.each(func(out Output) error { return out.WriteSamples(pts) })
}

func (o Outputs) WritePeaks(pts []dsp.Point) error {
	return o.each(func(out Output) error { return out.WritePeaks(pts) })
}

// nopOutput discards everything.
type nopOutput struct{}

func (nopOutput) WritePresence(bool) error       { return nil }
func (nopOutput) WriteBPM(dsp.Estimate) error    { return nil }
func (nopOutput) WriteSamples([]dsp.Point) error { return nil }
func (nopOutput) WritePeaks([]dsp.Point) error   { return nil }
