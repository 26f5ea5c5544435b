package fft

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestPlanImpulse(t *testing.T) {
	in := make([]float64, 16)
	in[0] = 1

	p := NewPlan(in, make([]complex128, len(in)/2+1))
	p.Execute()

	if p.Bins() != 9 {
		t.Fatalf("bins = %d, want 9", p.Bins())
	}

	for i, c := range p.Output {
		if math.Abs(cmplx.Abs(c)-1) > 1e-12 {
			t.Errorf("bin %d magnitude = %v, want 1", i, cmplx.Abs(c))
		}
	}
}

func TestPlanTone(t *testing.T) {
	const n = 64
	const bin = 5

	in := make([]float64, n)
	for i := range in {
		in[i] = 3 + math.Cos(2*math.Pi*bin*float64(i)/n)
	}

	p := NewPlan(in, make([]complex128, n))
	p.Execute()

	best := 1
	for i := 1; i < p.Bins(); i++ {
		if cmplx.Abs(p.Output[i]) > cmplx.Abs(p.Output[best]) {
			best = i
		}
	}

	if best != bin {
		t.Errorf("strongest bin = %d, want %d", best, bin)
	}

	if dc := real(p.Output[0]); math.Abs(dc-3*n) > 1e-9 {
		t.Errorf("dc = %v, want %v", dc, 3*n)
	}
}

func Benchmark(b *testing.B) {
	reals := generateReals()
	plan := NewPlan(reals, make([]complex128, len(reals)/2+1))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		plan.Execute()
	}
}

// Adapted from https://github.com/project-gemmi/benchmarking-fft/blob/master/1d-r.cpp

const numReals = 256

func generateReals() []float64 {
	input := make([]float64, numReals)

	c := 3.1
	for i := range input {
		c += 0.3
		input[i] = 2*c - c*c
	}

	return input
}
