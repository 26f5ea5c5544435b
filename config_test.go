package thump

import (
	"strings"
	"testing"
	"time"

	"github.com/noriah/thump/dsp"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.Width = 0 }, "too small"},
		{"huge frame", func(c *Config) { c.Height = MaxFrameSide + 1 }, "too large"},
		{"frame rate", func(c *Config) { c.FrameRate = 0 }, "frame rate"},
		{"mode", func(c *Config) { c.Mode = dsp.Mode(7) }, "unknown mode"},
		{"small window", func(c *Config) { c.SpectralSize = MinWindowSize - 1 }, "too small"},
		{"large window", func(c *Config) { c.TemporalSize = MaxWindowSize + 1 }, "too large"},
		{"epsilon zero", func(c *Config) { c.Epsilon = 0 }, "epsilon"},
		{"epsilon too wide", func(c *Config) { c.TemporalSize = 16; c.Epsilon = 7 }, "epsilon"},
		{"negative warmup", func(c *Config) { c.Warmup = -time.Second }, "negative"},
		{"threshold", func(c *Config) { c.Threshold = 256 }, "threshold"},
		{"temporal", func(c *Config) { c.Mode = dsp.ModeTemporal; c.Warmup = 5 * time.Second }, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := NewZeroConfig()
			test.modify(&cfg)

			err := cfg.Validate()
			switch {
			case test.want == "" && err != nil:
				t.Errorf("unexpected error: %v", err)

			case test.want != "" && err == nil:
				t.Errorf("expected an error mentioning %q", test.want)

			case err != nil && !strings.Contains(err.Error(), test.want):
				t.Errorf("error %q does not mention %q", err, test.want)
			}
		})
	}
}

func TestProcessorConfig(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.Mode = dsp.ModeTemporal
	cfg.Warmup = 3 * time.Second

	pc := cfg.processorConfig()

	if pc.Mode != dsp.ModeTemporal || pc.Temporal.Warmup != 3*time.Second {
		t.Errorf("mode %v warmup %v", pc.Mode, pc.Temporal.Warmup)
	}

	if pc.Temporal.FrameRate != cfg.FrameRate || pc.Spectral.Size != cfg.SpectralSize {
		t.Error("sizes or frame rate not carried over")
	}

	if pc.Presence.Threshold != dsp.DefaultIntensityThreshold || pc.Presence.Settle != dsp.DefaultSettleTime {
		t.Errorf("presence = %+v", pc.Presence)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.Backend = "no-such-backend"

	if err := Run(&cfg, t.Context()); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}
