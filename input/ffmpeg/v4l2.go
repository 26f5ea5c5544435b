//go:build linux

package ffmpeg

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/noriah/thump/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-v4l2", V4L2{})
}

// V4L2 is the video4linux input for FFmpeg.
type V4L2 struct{}

func (p V4L2) Init() error {
	return nil
}

func (p V4L2) Close() error {
	return nil
}

// Devices returns the /dev/video* nodes.
func (p V4L2) Devices() ([]input.Device, error) {
	matches, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to glob video devices")
	}

	if len(matches) == 0 {
		return nil, errors.New("no /dev/video* devices found")
	}

	sort.Strings(matches)

	devices := make([]input.Device, len(matches))
	for i, path := range matches {
		devices[i] = V4L2Device(path)
	}

	return devices, nil
}

func (p V4L2) DefaultDevice() (input.Device, error) {
	return V4L2Device("/dev/video0"), nil
}

func (p V4L2) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(V4L2Device)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// V4L2Device is the path of a video4linux node.
type V4L2Device string

func (d V4L2Device) InputArgs(cfg input.SessionConfig) []string {
	return []string{
		"-f", "v4l2",
		"-framerate", strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64),
		"-i", string(d),
	}
}

func (d V4L2Device) String() string {
	return string(d)
}
