package input

import (
	"context"
	"testing"
)

func TestFrameSize(t *testing.T) {
	tests := []struct {
		layout Layout
		w, h   int
		want   int
	}{
		{LayoutNV21, 4, 4, 24},
		{LayoutNV12, 640, 480, 640 * 480 * 3 / 2},
		{LayoutNV21, 3, 3, 9 + 2*2*2},
		{LayoutGray, 320, 240, 320 * 240},
	}

	for _, tt := range tests {
		if got := FrameSize(tt.layout, tt.w, tt.h); got != tt.want {
			t.Errorf("FrameSize(%v, %d, %d) = %d, want %d", tt.layout, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestParseLayout(t *testing.T) {
	for _, name := range []string{"nv21", "NV12", "gray", ""} {
		l, err := ParseLayout(name)
		if err != nil {
			t.Fatalf("ParseLayout(%q): %v", name, err)
		}
		if name != "" && l.PixFmt() == "" {
			t.Errorf("layout %v has no pix_fmt", l)
		}
	}

	if _, err := ParseLayout("rgb24"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestFrameRecycleOnce(t *testing.T) {
	calls := 0
	f := Frame{Release: func() { calls++ }}

	f.Recycle()
	f.Recycle()

	if calls != 1 {
		t.Errorf("release called %d times, want 1", calls)
	}
}

type testDevice string

func (d testDevice) String() string { return string(d) }

type testBackend struct{}

func (testBackend) Init() error  { return nil }
func (testBackend) Close() error { return nil }
func (testBackend) Devices() ([]Device, error) {
	return []Device{testDevice("cam0"), testDevice("cam1")}, nil
}
func (testBackend) DefaultDevice() (Device, error) { return testDevice("cam0"), nil }
func (testBackend) Start(SessionConfig) (Session, error) {
	return nil, context.Canceled
}

func TestBackendRegistry(t *testing.T) {
	RegisterBackend("test-registry", testBackend{})

	if !HasBackend("test-registry") {
		t.Fatal("registered backend not found")
	}

	b, err := InitBackend("test-registry")
	if err != nil {
		t.Fatalf("InitBackend: %v", err)
	}

	dev, err := GetDevice(b, "")
	if err != nil || dev.String() != "cam0" {
		t.Fatalf("default device = %v, %v", dev, err)
	}

	dev, err = GetDevice(b, "cam1")
	if err != nil || dev.String() != "cam1" {
		t.Fatalf("named device = %v, %v", dev, err)
	}

	if _, err = GetDevice(b, "cam9"); err == nil {
		t.Error("expected error for missing device")
	}

	if _, err = InitBackend("no-such-backend"); err == nil {
		t.Error("expected error for missing backend")
	}
}
