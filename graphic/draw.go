package graphic

import (
	"fmt"
	"math"

	"github.com/noriah/thump/dsp"

	"github.com/nsf/termbox-go"
)

const (
	// BarRune is the full block we use for bars
	BarRune rune = '█'

	// NumRunes number of runes for sub step bars
	NumRunes = 8

	// HeaderRows is the number of rows above the chart
	HeaderRows = 2
)

var (
	barRunes = [NumRunes]rune{
		' ',
		'▁',
		'▂',
		'▃',
		'▄',
		'▅',
		'▆',
		'▇',
	}

	styleDefault = termbox.ColorWhite
	stylePeak    = termbox.ColorRed | termbox.AttrBold
	styleBack    = termbox.ColorDefault
)

// draw redraws the whole screen. Callers hold d.mu.
func (d *Display) draw() error {
	if !d.active {
		return nil
	}

	if err := termbox.Clear(styleBack, styleBack); err != nil {
		return err
	}

	cWidth, cHeight := termbox.Size()

	printLine(0, 0, d.header(), styleDefault|termbox.AttrBold)

	vHeight := cHeight - HeaderRows
	if vHeight > 0 && d.present {
		heights := columnHeights(d.samples, cWidth)
		var peaks []bool
		if d.MarkPeaks {
			peaks = peakColumns(d.peaks, d.samples, cWidth)
		}

		for xCol, h := range heights {
			fg := styleDefault
			if peaks != nil && peaks[xCol] {
				fg = stylePeak
			}

			stop, top := stopAndTop(h*float64(vHeight), cHeight)

			for xRow := cHeight - 1; xRow >= stop; xRow-- {
				termbox.SetCell(xCol, xRow, BarRune, fg, styleBack)
			}

			if top > barRunes[0] && stop > HeaderRows {
				termbox.SetCell(xCol, stop-1, top, fg, styleBack)
			}
		}
	}

	return termbox.Flush()
}

func (d *Display) header() string {
	if !d.present {
		return "thump  place a finger on the camera"
	}

	if d.est.BPM <= 0 {
		return "thump  measuring..."
	}

	if d.Smoother != nil {
		return fmt.Sprintf("thump  %d bpm  (%.0f smoothed)", d.est.BPM, d.smoothed)
	}

	return fmt.Sprintf("thump  %d bpm", d.est.BPM)
}

func printLine(x, y int, s string, fg termbox.Attribute) {
	for _, r := range s {
		termbox.SetCell(x, y, r, fg, styleBack)
		x++
	}
}

// stopAndTop returns the first full row of a bar of height value (in rows,
// counted from the bottom of a screen of rows rows) and the partial rune to
// put on top of it.
func stopAndTop(value float64, rows int) (int, rune) {
	whole, frac := math.Modf(value)
	stop := rows - int(whole)
	if stop < 0 {
		return 0, barRunes[0]
	}

	return stop, barRunes[int(frac*NumRunes)%NumRunes]
}

// columnHeights resamples the series onto width columns and scales it to
// [0, 1] between the series minimum and maximum.
func columnHeights(pts []dsp.Point, width int) []float64 {
	if width <= 0 {
		return nil
	}

	heights := make([]float64, width)
	if len(pts) == 0 {
		return heights
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}

	span := hi - lo
	for xCol := range heights {
		p := pts[sampleIndex(xCol, len(pts), width)]
		if span > 0 {
			heights[xCol] = (p.Y - lo) / span
		}
	}

	return heights
}

// peakColumns marks the columns showing a peak.
func peakColumns(peaks, samples []dsp.Point, width int) []bool {
	marks := make([]bool, max(width, 0))
	if len(samples) == 0 || width <= 0 {
		return marks
	}

	// Peaks carry window positions, samples start at X of the first one.
	first := samples[0].X
	for _, p := range peaks {
		idx := int(p.X - first)
		if idx < 0 || idx >= len(samples) {
			continue
		}

		marks[columnOf(idx, len(samples), width)] = true
	}

	return marks
}

// sampleIndex is the sample shown in column xCol.
func sampleIndex(xCol, count, width int) int {
	return xCol * count / width
}

// columnOf is the column showing sample idx. It inverts sampleIndex.
func columnOf(idx, count, width int) int {
	return min(((idx+1)*width-1)/count, width-1)
}
