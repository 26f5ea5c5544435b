package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noriah/thump/dsp"
)

func TestResolveFlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thump.yaml")
	doc := `
input:
  backend: synthetic
  frame_rate: 25
estimate:
  mode: temporal
presence:
  settle: 300ms
output:
  metrics: ":9100"
  nats:
    url: nats://a:4222
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := cliConfig{configFile: path, inline: true}
	cli.flags.Input.FrameRate = 30
	cli.flags.Output.Raw = true
	cli.flags.Output.NATS.Subject = "ward.3"

	cfg, out, err := cli.resolve()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != "synthetic" || cfg.FrameRate != 30 {
		t.Errorf("backend %q at %v fps", cfg.Backend, cfg.FrameRate)
	}

	if cfg.Mode != dsp.ModeTemporal || cfg.Settle != 300*time.Millisecond || cfg.UseThreaded {
		t.Errorf("mode %v settle %v threaded %v", cfg.Mode, cfg.Settle, cfg.UseThreaded)
	}

	if !out.Raw || out.Metrics != ":9100" || out.NATS.URL != "nats://a:4222" || out.NATS.Subject != "ward.3" {
		t.Errorf("output = %+v", out)
	}
}

func TestResolveBadFlag(t *testing.T) {
	cli := cliConfig{}
	cli.flags.Estimate.Mode = "wavelet"

	if _, _, err := cli.resolve(); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestResolveMissingFile(t *testing.T) {
	cli := cliConfig{configFile: filepath.Join(t.TempDir(), "nope.yaml")}

	if _, _, err := cli.resolve(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestResolveFlagCompletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thump.yaml")
	doc := "output:\n  nats:\n    subject: ward.7\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := cliConfig{configFile: path}

	if _, _, err := cli.resolve(); err == nil {
		t.Fatal("subject without a url anywhere was accepted")
	}

	cli.flags.Output.NATS.URL = "nats://b:4222"

	_, out, err := cli.resolve()
	if err != nil {
		t.Fatal(err)
	}

	if out.NATS.URL != "nats://b:4222" || out.NATS.Subject != "ward.7" {
		t.Errorf("nats = %+v", out.NATS)
	}
}
