// Package input provides camera frame sources.
package input

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Layout is the planar pixel layout of a frame buffer.
type Layout int

// Frame layouts.
const (
	// LayoutNV21 is a full luma plane followed by interleaved V/U at quarter
	// resolution. This is the default preview format of most phone cameras.
	LayoutNV21 Layout = iota
	// LayoutNV12 is NV21 with the chroma order swapped (U/V).
	LayoutNV12
	// LayoutGray is a single luma plane.
	LayoutGray
)

func (l Layout) String() string {
	switch l {
	case LayoutNV21:
		return "nv21"
	case LayoutNV12:
		return "nv12"
	case LayoutGray:
		return "gray"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// PixFmt returns the ffmpeg pixel format name of the layout.
func (l Layout) PixFmt() string {
	if l == LayoutGray {
		return "gray"
	}
	return l.String()
}

// ParseLayout returns the layout named s.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "nv21", "":
		return LayoutNV21, nil
	case "nv12":
		return LayoutNV12, nil
	case "gray", "grey", "y":
		return LayoutGray, nil
	}

	return 0, fmt.Errorf("unknown layout %q (nv21, nv12, gray)", s)
}

// FrameSize returns the number of bytes a width x height frame occupies.
func FrameSize(l Layout, width, height int) int {
	if l == LayoutGray {
		return width * height
	}

	return width*height + 2*((width+1)/2)*((height+1)/2)
}

// Frame is one raw camera frame.
//
// Data is only valid until Release is called. Consumers must copy what they
// need and never keep Data around.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Layout Layout
	// Time is when the frame was captured.
	Time time.Time
	// Release hands the buffer back to the source. May be nil.
	Release func()
}

// Recycle calls Release if set.
func (f *Frame) Recycle() {
	if f.Release != nil {
		f.Release()
		f.Release = nil
	}
}

// Sink receives frames from a session. Submit must never block the session
// for longer than it takes to copy the frame; it returns false when the
// frame was dropped. The sink recycles every frame it is handed.
type Sink interface {
	Submit(Frame) bool
}

// SessionConfig is the configuration of a capture session.
type SessionConfig struct {
	Device    Device  // device to capture from
	Width     int     // frame width in pixels
	Height    int     // frame height in pixels
	FrameRate float64 // nominal frames per second
	Layout    Layout  // pixel layout requested from the device
}

// FrameSize returns the byte size of one frame of this session.
func (cfg SessionConfig) FrameSize() int {
	return FrameSize(cfg.Layout, cfg.Width, cfg.Height)
}

// Device is a capture device.
type Device interface {
	// String returns the device name.
	String() string
}

// Session is a running capture.
type Session interface {
	// Start delivers frames to sink until ctx is done, the source ends or an
	// error occurs. A source that runs dry returns nil.
	Start(ctx context.Context, sink Sink) error
}
