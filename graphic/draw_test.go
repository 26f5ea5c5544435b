package graphic

import (
	"testing"

	"github.com/noriah/thump/dsp"
)

func series(ys ...float64) []dsp.Point {
	pts := make([]dsp.Point, len(ys))
	for i, y := range ys {
		pts[i] = dsp.Point{X: float64(i), Y: y}
	}
	return pts
}

func TestColumnHeights(t *testing.T) {
	heights := columnHeights(series(200, 210, 220, 205), 8)
	want := []float64{0, 0, 0.5, 0.5, 1, 1, 0.25, 0.25}

	for i := range want {
		if heights[i] != want[i] {
			t.Fatalf("heights = %v, want %v", heights, want)
		}
	}
}

func TestColumnHeightsFlat(t *testing.T) {
	for _, h := range columnHeights(series(200, 200, 200), 5) {
		if h != 0 {
			t.Fatalf("flat series drew %v", h)
		}
	}

	if got := columnHeights(nil, 3); len(got) != 3 {
		t.Errorf("empty series = %v", got)
	}
}

func TestColumnOfInvertsSampleIndex(t *testing.T) {
	for _, dims := range [][2]int{{300, 80}, {80, 300}, {256, 256}, {7, 3}} {
		count, width := dims[0], dims[1]

		for idx := 0; idx < count; idx++ {
			col := columnOf(idx, count, width)
			if col < 0 || col >= width {
				t.Fatalf("columnOf(%d, %d, %d) = %d", idx, count, width, col)
			}

			// the column shows a sample no later than idx
			if sampleIndex(col, count, width) > idx {
				t.Fatalf("column %d shows sample %d past %d", col, sampleIndex(col, count, width), idx)
			}
		}
	}
}

func TestPeakColumns(t *testing.T) {
	samples := series(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	peaks := []dsp.Point{{X: 3, Y: 3}, {X: 9, Y: 9}, {X: 42, Y: 1}}

	marks := peakColumns(peaks, samples, 10)
	for col, marked := range marks {
		if want := col == 3 || col == 9; marked != want {
			t.Errorf("column %d marked = %v", col, marked)
		}
	}
}

func TestStopAndTop(t *testing.T) {
	tests := []struct {
		value float64
		rows  int
		stop  int
		top   rune
	}{
		{0, 10, 10, ' '},
		{2.5, 10, 8, '▄'},
		{3, 10, 7, ' '},
		{12, 10, 0, ' '},
	}

	for _, test := range tests {
		stop, top := stopAndTop(test.value, test.rows)
		if stop != test.stop || top != test.top {
			t.Errorf("stopAndTop(%v, %d) = %d %q, want %d %q",
				test.value, test.rows, stop, top, test.stop, test.top)
		}
	}
}

func TestHeader(t *testing.T) {
	d := &Display{est: dsp.NoEstimate}
	if got := d.header(); got != "thump  place a finger on the camera" {
		t.Errorf("absent header = %q", got)
	}

	d.present = true
	if got := d.header(); got != "thump  measuring..." {
		t.Errorf("measuring header = %q", got)
	}

	d.est = dsp.Estimate{BPM: 72, Presence: dsp.Present}
	if got := d.header(); got != "thump  72 bpm" {
		t.Errorf("header = %q", got)
	}
}

func TestWritesWithoutTerminal(t *testing.T) {
	d := &Display{Smoother: dsp.NewKalman(1, 4)}

	// inactive displays only record state
	d.WritePresence(true)
	d.WriteSamples(series(1, 2, 3))
	d.WriteBPM(dsp.Estimate{BPM: 70, Presence: dsp.Present})
	d.WritePeaks([]dsp.Point{{X: 1, Y: 2}})

	if len(d.samples) != 3 || len(d.peaks) != 1 || d.smoothed != 70 {
		t.Errorf("state = %d samples, %d peaks, smoothed %v", len(d.samples), len(d.peaks), d.smoothed)
	}
}
