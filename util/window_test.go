package util

import (
	"math"
	"testing"
	"time"
)

func TestSampleWindowNeverExceedsCapacity(t *testing.T) {
	base := time.Unix(0, 0)

	for _, size := range []int{1, 2, 7, 256} {
		sw := NewSampleWindow(size)

		for n := 0; n < size*3+1; n++ {
			sw.Push(float64(n), base.Add(time.Duration(n)*time.Millisecond))

			if sw.Len() > sw.Cap() {
				t.Fatalf("size %d: len %d > cap %d", size, sw.Len(), sw.Cap())
			}
		}

		if !sw.Full() {
			t.Errorf("size %d: window not full", size)
		}
	}
}

func TestSampleWindowEvictsOldestFirst(t *testing.T) {
	const size = 5
	sw := NewSampleWindow(size)
	base := time.Unix(100, 0)

	total := 13
	for n := 0; n < total; n++ {
		old, evicted := sw.Push(float64(n), base.Add(time.Duration(n)*time.Second))

		if n < size {
			if evicted {
				t.Fatalf("push %d evicted %v before the window was full", n, old)
			}
			continue
		}

		if !evicted || old != float64(n-size) {
			t.Fatalf("push %d evicted (%v, %v), want (%d, true)", n, old, evicted, n-size)
		}
	}

	values := sw.Values(nil)
	for i, v := range values {
		if want := float64(total - size + i); v != want {
			t.Errorf("values[%d] = %v, want %v", i, v, want)
		}

		_, ts := sw.At(i)
		if want := base.Add(time.Duration(total-size+i) * time.Second); !ts.Equal(want) {
			t.Errorf("time[%d] = %v, want %v", i, ts, want)
		}
	}

	if span := sw.Span(); span != (size-1)*time.Second {
		t.Errorf("span = %v", span)
	}
}

func TestSampleWindowStats(t *testing.T) {
	sw := NewSampleWindow(4)
	now := time.Now()

	for _, v := range []float64{100, 2, 4, 4, 6, 6} {
		sw.Push(v, now)
	}

	// window holds 4 4 6 6
	mean, sd := sw.Stats()
	if mean != 5 {
		t.Errorf("mean = %v, want 5", mean)
	}
	if math.Abs(sd-1) > 1e-9 {
		t.Errorf("stddev = %v, want 1", sd)
	}
}

func TestSampleWindowReset(t *testing.T) {
	sw := NewSampleWindow(3)
	now := time.Now()

	sw.Push(1, now)
	sw.Push(2, now)
	sw.Reset()

	if sw.Len() != 0 || sw.Mean() != 0 || !sw.First().IsZero() {
		t.Fatalf("window not empty after reset: len=%d mean=%v", sw.Len(), sw.Mean())
	}

	sw.Push(9, now)
	if v, _ := sw.At(0); v != 9 {
		t.Errorf("At(0) = %v after reset, want 9", v)
	}
}

func BenchmarkSampleWindowPush(b *testing.B) {
	sw := NewSampleWindow(300)
	now := time.Now()
	dst := make([]float64, 0, 300)

	for i := 0; i < b.N; i++ {
		sw.Push(float64(i), now)
		dst = sw.Values(dst)
	}
}
