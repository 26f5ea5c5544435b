package dsp

import (
	"testing"
	"time"
)

const frameStep = 33 * time.Millisecond

func newTestDetector() *PresenceDetector {
	return NewPresenceDetector(PresenceConfig{
		Threshold: DefaultIntensityThreshold,
		Settle:    DefaultSettleTime,
	})
}

// feed pushes values one frame apart and returns every reported transition.
func feed(pd *PresenceDetector, start time.Time, values ...float64) []Presence {
	var changes []Presence

	for i, v := range values {
		_, state, changed := pd.Update(v, start.Add(time.Duration(i)*frameStep))
		if changed {
			changes = append(changes, state)
		}
	}

	return changes
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestPresenceStartsAbsent(t *testing.T) {
	pd := newTestDetector()

	if pd.State() != Absent {
		t.Fatal("detector must start absent")
	}

	if changes := feed(pd, time.Unix(0, 0), repeat(50, 20)...); len(changes) != 0 {
		t.Errorf("dark frames reported %v", changes)
	}
}

func TestPresenceReportsAfterSettle(t *testing.T) {
	pd := newTestDetector()
	start := time.Unix(0, 0)

	// 150ms settle at 33ms frames: reported on the 6th frame (165ms)
	for i := 0; i < 5; i++ {
		if _, _, changed := pd.Update(220, start.Add(time.Duration(i)*frameStep)); changed {
			t.Fatalf("reported after %d frames, before the settle time", i+1)
		}
	}

	_, state, changed := pd.Update(220, start.Add(5*frameStep))
	if !changed || state != Present {
		t.Fatalf("expected present after settle, got %v changed=%v", state, changed)
	}
}

func TestPresenceIgnoresShortSpike(t *testing.T) {
	pd := newTestDetector()

	values := repeat(230, 10)
	values = append(values, 120, 120) // 66ms dip
	values = append(values, repeat(230, 10)...)

	changes := feed(pd, time.Unix(0, 0), values...)

	if len(changes) != 1 || changes[0] != Present {
		t.Errorf("transitions = %v, want a single present", changes)
	}
}

func TestPresenceReportsLongDrop(t *testing.T) {
	pd := newTestDetector()

	values := repeat(230, 10)
	values = append(values, repeat(90, 10)...)
	values = append(values, repeat(230, 10)...)

	changes := feed(pd, time.Unix(0, 0), values...)

	want := []Presence{Present, Absent, Present}
	if len(changes) != len(want) {
		t.Fatalf("transitions = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestPresenceZeroSettle(t *testing.T) {
	pd := NewPresenceDetector(PresenceConfig{Threshold: 100})

	raw, state, changed := pd.Update(150, time.Unix(0, 0))
	if raw != Present || state != Present || !changed {
		t.Errorf("zero settle should report immediately: raw=%v state=%v changed=%v", raw, state, changed)
	}

	pd.Reset()
	if pd.State() != Absent {
		t.Error("reset must go back to absent")
	}
}
