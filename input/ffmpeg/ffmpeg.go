// Package ffmpeg captures camera frames through an ffmpeg child process.
package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/noriah/thump/input"
	"github.com/noriah/thump/input/common/execread"
)

type FFmpegBackend interface {
	InputArgs(cfg input.SessionConfig) []string
}

// OutputArgs scales and converts the capture to raw frames on stdout.
func OutputArgs(cfg input.SessionConfig) []string {
	return []string{
		"-vf", fmt.Sprintf("scale=%d:%d", cfg.Width, cfg.Height),
		"-pix_fmt", cfg.Layout.PixFmt(),
		"-r", strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64),
		"-f", "rawvideo",
		"-",
	}
}

func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs(cfg)...)
	args = append(args, OutputArgs(cfg)...)

	return execread.NewSession(args, cfg), nil
}

// noDevices formats the ffmpeg output of a failed device listing.
func noDevices(o []byte) error {
	return fmt.Errorf("no devices found; ffmpeg output:\n%s", indent(string(o)))
}
