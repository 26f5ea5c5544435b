package dsp

import (
	"github.com/noriah/thump/input"
)

// fixed point YUV -> RGB, 10 fractional bits
const (
	yuvLumaScale = 1192 // 1.164
	yuvRedFromV  = 1634 // 1.596
	yuvRGBMax    = 262143
)

// Reduce returns the mean red intensity (0..255) of an NV21/NV12 frame or the
// mean luma of a gray frame.
//
// The frame is only read during the call.
func Reduce(f input.Frame) (float64, error) {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 || len(f.Data) < input.FrameSize(f.Layout, w, h) {
		return 0, ErrShortFrame
	}

	switch f.Layout {
	case input.LayoutGray:
		return lumaMean(f.Data[:w*h]), nil
	case input.LayoutNV12:
		return redMean(f.Data, w, h, 1), nil
	default:
		return redMean(f.Data, w, h, 0), nil
	}
}

func lumaMean(plane []byte) float64 {
	var sum uint64
	for _, y := range plane {
		sum += uint64(y)
	}
	return float64(sum) / float64(len(plane))
}

// redMean decodes the red channel of a semi planar 4:2:0 frame. vOff is the
// offset of V inside each chroma pair (0 for NV21, 1 for NV12).
func redMean(data []byte, w, h, vOff int) float64 {
	frameSize := w * h
	chromaStride := 2 * ((w + 1) / 2)

	var sum uint64
	for j := 0; j < h; j++ {
		row := data[j*w : j*w+w]
		chroma := data[frameSize+(j>>1)*chromaStride:]

		for i, yb := range row {
			y := clampInt(int(yb)-16, 0, 255)
			v := int(chroma[(i>>1)<<1+vOff]) - 128

			r := clampInt(yuvLumaScale*y+yuvRedFromV*v, 0, yuvRGBMax)
			sum += uint64(r >> 10)
		}
	}

	return float64(sum) / float64(frameSize)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
