package ffmpeg

import (
	"strings"
	"testing"

	"github.com/noriah/thump/input"
)

type testDevice struct{}

func (testDevice) InputArgs(input.SessionConfig) []string {
	return []string{"-f", "lavfi", "-i", "testsrc"}
}

func TestNewSessionArgs(t *testing.T) {
	cfg := input.SessionConfig{Width: 160, Height: 120, FrameRate: 29.97, Layout: input.LayoutNV21}

	sess, err := NewSession(testDevice{}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	got := strings.Join(sess.Args(), " ")
	want := "ffmpeg -hide_banner -loglevel panic -f lavfi -i testsrc " +
		"-vf scale=160:120 -pix_fmt nv21 -r 29.97 -f rawvideo -"

	if got != want {
		t.Errorf("args:\n got %s\nwant %s", got, want)
	}
}

func TestParseAVFoundation(t *testing.T) {
	out := []byte(`[AVFoundation indev @ 0x7f8] AVFoundation video devices:
[AVFoundation indev @ 0x7f8] [0] FaceTime HD Camera
[AVFoundation indev @ 0x7f8] [1] Capture screen 0
[AVFoundation indev @ 0x7f8] AVFoundation audio devices:
[AVFoundation indev @ 0x7f8] [0] MacBook Pro Microphone
`)

	devices, err := parseAVFoundation(out)
	if err != nil {
		t.Fatal(err)
	}

	if len(devices) != 2 {
		t.Fatalf("devices = %v, want 2 video devices", devices)
	}

	if got := devices[0].String(); got != "0:FaceTime HD Camera" {
		t.Errorf("first device = %q", got)
	}
}

func TestParseDShow(t *testing.T) {
	out := []byte(`[dshow @ 0000021] "Integrated Webcam" (video)
[dshow @ 0000021]   Alternative name "@device_pnp_\\?\usb"
[dshow @ 0000021] "Microphone Array" (audio)
`)

	devices := parseDShow(out)
	if len(devices) != 1 || devices[0].String() != "Integrated Webcam" {
		t.Errorf("devices = %v", devices)
	}
}
