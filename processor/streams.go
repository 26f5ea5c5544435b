package processor

import (
	"github.com/noriah/thump/dsp"
)

// DefaultStreamBuffer is the channel size used by NewStreams for a size <= 0.
const DefaultStreamBuffer = 8

// Streams is an Output that delivers on channels. When a channel is full the
// oldest value is dropped to make room, so a slow reader sees the newest
// values and never stalls the processor.
type Streams struct {
	BPM      chan dsp.Estimate
	Presence chan bool
	Samples  chan []dsp.Point
	Peaks    chan []dsp.Point
}

// NewStreams makes streams buffering size values each.
func NewStreams(size int) *Streams {
	if size <= 0 {
		size = DefaultStreamBuffer
	}

	return &Streams{
		BPM:      make(chan dsp.Estimate, size),
		Presence: make(chan bool, size),
		Samples:  make(chan []dsp.Point, size),
		Peaks:    make(chan []dsp.Point, size),
	}
}

// push sends v on ch, dropping the oldest value while ch is full. The
// processor is the only sender.
func push[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

func (s *Streams) WritePresence(present bool) error {
	push(s.Presence, present)
	return nil
}

func (s *Streams) WriteBPM(e dsp.Estimate) error {
	push(s.BPM, e)
	return nil
}

// WriteSamples sends a copy of pts.
func (s *Streams) WriteSamples(pts []dsp.Point) error {
	push(s.Samples, clonePoints(pts))
	return nil
}

// WritePeaks sends a copy of pts.
func (s *Streams) WritePeaks(pts []dsp.Point) error {
	push(s.Peaks, clonePoints(pts))
	return nil
}

func clonePoints(pts []dsp.Point) []dsp.Point {
	if pts == nil {
		return nil
	}
	return append(make([]dsp.Point, 0, len(pts)), pts...)
}
