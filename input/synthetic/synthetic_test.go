package synthetic

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noriah/thump/input"
)

func TestWave(t *testing.T) {
	if w := Wave(0.25); w < 1 || w > 1.01 {
		t.Errorf("systolic peak = %v", w)
	}

	if Wave(0.9) > 0.01 {
		t.Errorf("diastole = %v, want near 0", Wave(0.9))
	}

	if Wave(0.55) <= Wave(0.45) {
		t.Error("missing dicrotic bump")
	}
}

func TestLevelGap(t *testing.T) {
	dev := Device{BPM: 60, GapEvery: 10 * time.Second, GapLength: 2 * time.Second}
	src := NewSource(dev, input.SessionConfig{Width: 2, Height: 2, Layout: input.LayoutGray})

	tests := []struct {
		at   time.Duration
		dark bool
	}{
		{1 * time.Second, false},
		{7900 * time.Millisecond, false},
		{8 * time.Second, true},
		{9 * time.Second, true},
		{10 * time.Second, false},
		{19 * time.Second, true},
	}

	for _, test := range tests {
		dark := src.Level(test.at) == DarkLevel
		if dark != test.dark {
			t.Errorf("Level(%v) dark = %v, want %v", test.at, dark, test.dark)
		}
	}
}

func TestFrameNV21(t *testing.T) {
	cfg := input.SessionConfig{Width: 4, Height: 2, Layout: input.LayoutNV21}
	src := NewSource(Device{BPM: 60}, cfg)

	// quarter beat lands on the systolic peak
	f := src.Frame(250*time.Millisecond, time.Now())
	defer f.Recycle()

	if len(f.Data) != cfg.FrameSize() {
		t.Fatalf("len = %d, want %d", len(f.Data), cfg.FrameSize())
	}

	if y := f.Data[0]; y != byte(DefaultLevel+DefaultAmplitude*Wave(0.25)) {
		t.Errorf("luma = %d", y)
	}

	if f.Data[8] != 170 || f.Data[9] != 128 {
		t.Errorf("chroma = %v, want V then U", f.Data[8:10])
	}
}

type recycler struct {
	n atomic.Int32
}

func (r *recycler) Submit(f input.Frame) bool {
	defer f.Recycle()
	r.n.Add(1)
	return true
}

func TestSessionPaces(t *testing.T) {
	cfg := input.SessionConfig{Width: 8, Height: 8, Layout: input.LayoutGray, FrameRate: 200}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sink := &recycler{}
	if err := NewSession(Device{}, cfg).Start(ctx, sink); err != nil {
		t.Fatal(err)
	}

	if n := sink.n.Load(); n < 5 || n > 25 {
		t.Errorf("%d frames in 100ms at 200fps", n)
	}
}
