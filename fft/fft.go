// Package fft provides a reusable plan around the gonum real fourier
// transform.
package fft

import "gonum.org/v1/gonum/dsp/fourier"

// Plan holds the buffers and the gonum transform for one fixed input size.
type Plan struct {
	Input  []float64
	Output []complex128
	fft    *fourier.FFT
}

// NewPlan returns a plan transforming in into out. out must hold at least
// len(in)/2+1 values.
func NewPlan(in []float64, out []complex128) *Plan {
	p := &Plan{}
	InitPlan(&p, in, out)
	return p
}

// InitPlan points pointer at a new plan for in and out.
func InitPlan(pointer **Plan, in []float64, out []complex128) {
	(*pointer) = &Plan{
		Input:  in,
		Output: out[:len(in)/2+1],
		fft:    fourier.NewFFT(len(in)),
	}
}

// Bins returns the number of output coefficients.
func (p *Plan) Bins() int {
	return len(p.Output)
}

// Execute runs the transform. Input is left untouched.
func (p *Plan) Execute() {
	p.fft.Coefficients(p.Output, p.Input)
}
