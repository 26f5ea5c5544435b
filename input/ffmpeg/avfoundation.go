//go:build darwin

package ffmpeg

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/noriah/thump/input"
)

func init() {
	input.RegisterBackend("ffmpeg-avfoundation", AVFoundation{})
}

// AVFoundation is the avfoundation input for FFmpeg.
type AVFoundation struct{}

func (p AVFoundation) Init() error {
	return nil
}

func (p AVFoundation) Close() error {
	return nil
}

// Devices returns the avfoundation video devices ffmpeg knows about.
func (p AVFoundation) Devices() ([]input.Device, error) {
	cmd := exec.Command(
		"ffmpeg", "-hide_banner", "-loglevel", "info",
		"-f", "avfoundation", "-list_devices", "true",
		"-i", "",
	)

	o, _ := cmd.CombinedOutput()

	devices, err := parseAVFoundation(o)
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, noDevices(o)
	}

	return devices, nil
}

func (p AVFoundation) DefaultDevice() (input.Device, error) {
	return AVFoundationDevice{-1, "default"}, nil
}

func (p AVFoundation) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(AVFoundationDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

func (d AVFoundationDevice) InputArgs(cfg input.SessionConfig) []string {
	input := "default:none"
	if d.Index > -1 {
		input = fmt.Sprintf("%d:none", d.Index)
	}

	return []string{
		"-f", "avfoundation",
		"-framerate", strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64),
		"-i", input,
	}
}
