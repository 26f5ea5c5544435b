//go:build windows

package ffmpeg

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/noriah/thump/input"
)

func init() {
	input.RegisterBackend("ffmpeg-dshow", DShow{})
}

// DShow is the DirectShow input for FFmpeg on Windows.
type DShow struct{}

func (p DShow) Init() error {
	return nil
}

func (p DShow) Close() error {
	return nil
}

// Devices returns a list of dshow video devices.
func (p DShow) Devices() ([]input.Device, error) {
	cmd := exec.Command(
		"ffmpeg", "-hide_banner", "-loglevel", "info",
		"-f", "dshow", "-list_devices", "true",
		"-i", "",
	)

	o, _ := cmd.CombinedOutput()

	devices := parseDShow(o)
	if len(devices) == 0 {
		return nil, noDevices(o)
	}

	return devices, nil
}

func (p DShow) DefaultDevice() (input.Device, error) {
	devices, err := p.Devices()
	if err != nil {
		return nil, err
	}
	return devices[0], nil
}

func (p DShow) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(DShowDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

func (d DShowDevice) InputArgs(cfg input.SessionConfig) []string {
	return []string{
		"-f", "dshow",
		"-framerate", strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64),
		"-i", "video=" + d.Name,
	}
}
