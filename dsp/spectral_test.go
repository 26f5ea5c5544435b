package dsp

import (
	"math"
	"testing"
	"time"

	"github.com/noriah/thump/dsp/window"
)

const testFPS = 30.0

// sineSamples returns n samples of a bpm sine riding on a 200 offset.
func sineSamples(n int, bpm float64, start time.Time) []Sample {
	out := make([]Sample, n)
	step := time.Second / testFPS

	for i := range out {
		sec := float64(i) / testFPS
		out[i] = Sample{
			Value: 200 + 10*math.Sin(2*math.Pi*bpm/60*sec),
			Time:  start.Add(time.Duration(i) * step),
		}
	}

	return out
}

func TestSpectralWaitsForFullWindow(t *testing.T) {
	sp := NewSpectral(SpectralConfig{})

	for i, s := range sineSamples(DefaultSpectralSize-1, 72, time.Unix(0, 0)) {
		if _, ok := sp.Push(s); ok {
			t.Fatalf("estimate after %d samples", i+1)
		}
	}
}

func TestSpectral72(t *testing.T) {
	sp := NewSpectral(SpectralConfig{})

	var got []int
	for _, s := range sineSamples(DefaultSpectralSize, 72, time.Unix(0, 0)) {
		if bpm, ok := sp.Push(s); ok {
			got = append(got, bpm)
		}
	}

	if len(got) != 1 {
		t.Fatalf("got %d estimates, want 1", len(got))
	}

	if got[0] < 69 || got[0] > 75 {
		t.Errorf("bpm = %d, want 72 +- 3", got[0])
	}

	if peaks := sp.Peaks(nil); len(peaks) != 1 {
		t.Errorf("peaks = %v, want the winning bin", peaks)
	}
}

func TestSpectralRecoversBand(t *testing.T) {
	for _, bpm := range []float64{50, 65, 90, 120, 150} {
		sp := NewSpectral(SpectralConfig{Window: window.Hann})

		var last int
		for _, s := range sineSamples(DefaultSpectralSize, bpm, time.Unix(100, 0)) {
			if v, ok := sp.Push(s); ok {
				last = v
			}
		}

		// one bin of resolution
		res := 60 * sp.Rate() / float64(sp.Size())
		if math.Abs(float64(last)-bpm) > res {
			t.Errorf("%v bpm: got %d (resolution %.2f)", bpm, last, res)
		}
	}
}

func TestSpectralZeroSpan(t *testing.T) {
	sp := NewSpectral(SpectralConfig{Size: 8})
	now := time.Unix(0, 0)

	for i := 0; i < 16; i++ {
		if _, ok := sp.Push(Sample{Value: float64(i), Time: now}); ok {
			t.Fatal("estimate from a window spanning no time")
		}
	}
}

func TestSpectralReset(t *testing.T) {
	sp := NewSpectral(SpectralConfig{})
	samples := sineSamples(DefaultSpectralSize, 72, time.Unix(0, 0))

	var first int
	for _, s := range samples {
		first, _ = sp.Push(s)
	}

	sp.Reset()
	if n := len(sp.Samples(nil)); n != 0 {
		t.Fatalf("reset left %d samples", n)
	}

	var second int
	var ok bool
	for _, s := range samples {
		second, ok = sp.Push(s)
	}

	if !ok || first != second {
		t.Errorf("after reset got %d (ok=%v), cold start got %d", second, ok, first)
	}
}

func BenchmarkSpectral(b *testing.B) {
	sp := NewSpectral(SpectralConfig{})
	samples := sineSamples(DefaultSpectralSize, 72, time.Unix(0, 0))
	step := time.Second / testFPS

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := samples[i%len(samples)]
		s.Time = time.Unix(0, 0).Add(time.Duration(i) * step)
		sp.Push(s)
	}
}
