// Package config loads thump run options from a YAML file.
//
// Every field is optional; unset fields keep the value of the config they
// are applied to, so command line flags can still override the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/noriah/thump"
	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/dsp/window"
	"github.com/noriah/thump/input"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration.
type File struct {
	Input    InputConfig    `yaml:"input"`
	Estimate EstimateConfig `yaml:"estimate"`
	Presence PresenceConfig `yaml:"presence"`
	Output   OutputConfig   `yaml:"output"`
}

type InputConfig struct {
	Backend   string  `yaml:"backend"`
	Device    string  `yaml:"device"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Layout    string  `yaml:"layout"`
	FrameRate float64 `yaml:"frame_rate"`
}

type EstimateConfig struct {
	Mode         string        `yaml:"mode"`
	SpectralSize int           `yaml:"spectral_size"`
	TemporalSize int           `yaml:"temporal_size"`
	Epsilon      int           `yaml:"epsilon"`
	Warmup       time.Duration `yaml:"warmup"`
	Window       string        `yaml:"window"`
	// Threaded runs cycles on a worker goroutine. Defaults to true.
	Threaded *bool `yaml:"threaded"`
}

type PresenceConfig struct {
	Threshold float64       `yaml:"threshold"`
	Settle    time.Duration `yaml:"settle"`
}

type OutputConfig struct {
	Raw     bool   `yaml:"raw"`
	Smooth  bool   `yaml:"smooth"`
	Metrics string `yaml:"metrics"`
	NATS    struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
}

// Load reads the YAML file at path and returns a validated File.
func Load(path string) (*File, error) {
	file, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(file); err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return file, nil
}

// LoadFromReader decodes a YAML config from r and validates it. An empty
// document is a valid empty File.
func LoadFromReader(r io.Reader) (*File, error) {
	file, err := Decode(r)
	if err != nil {
		return nil, err
	}

	if err := Validate(file); err != nil {
		return nil, err
	}
	return file, nil
}

// Read decodes the YAML file at path without validating it, for callers that
// merge it with other values first.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return file, nil
}

// Decode reads a YAML config from r, rejecting unknown fields.
func Decode(r io.Reader) (*File, error) {
	file := &File{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return file, nil
}

// Merge copies every set field of over onto file. Boolean output switches
// are turned on when either side sets them.
func (file *File) Merge(over *File) {
	in, oin := &file.Input, over.Input
	setString(&in.Backend, oin.Backend)
	setString(&in.Device, oin.Device)
	setInt(&in.Width, oin.Width)
	setInt(&in.Height, oin.Height)
	setString(&in.Layout, oin.Layout)
	setFloat(&in.FrameRate, oin.FrameRate)

	est, oest := &file.Estimate, over.Estimate
	setString(&est.Mode, oest.Mode)
	setInt(&est.SpectralSize, oest.SpectralSize)
	setInt(&est.TemporalSize, oest.TemporalSize)
	setInt(&est.Epsilon, oest.Epsilon)
	setString(&est.Window, oest.Window)

	if oest.Warmup != 0 {
		est.Warmup = oest.Warmup
	}

	if oest.Threaded != nil {
		est.Threaded = oest.Threaded
	}

	setFloat(&file.Presence.Threshold, over.Presence.Threshold)
	if over.Presence.Settle != 0 {
		file.Presence.Settle = over.Presence.Settle
	}

	out, oout := &file.Output, over.Output
	out.Raw = out.Raw || oout.Raw
	out.Smooth = out.Smooth || oout.Smooth
	setString(&out.Metrics, oout.Metrics)
	setString(&out.NATS.URL, oout.NATS.URL)
	setString(&out.NATS.Subject, oout.NATS.Subject)
}

// Validate checks the names and ranges a file can hold on its own. Checks
// that depend on the combined config are left to thump.Config.Validate.
// It returns all failures joined.
func Validate(file *File) error {
	var errs []error

	if _, err := input.ParseLayout(file.Input.Layout); err != nil {
		errs = append(errs, fmt.Errorf("input.layout: %w", err))
	}

	if file.Input.Width < 0 || file.Input.Height < 0 {
		errs = append(errs, errors.New("input.width and input.height can not be negative"))
	}

	if file.Input.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("input.frame_rate %v can not be negative", file.Input.FrameRate))
	}

	if _, err := dsp.ParseMode(file.Estimate.Mode); err != nil {
		errs = append(errs, fmt.Errorf("estimate.mode: %w", err))
	}

	if _, err := window.Lookup(file.Estimate.Window); err != nil {
		errs = append(errs, fmt.Errorf("estimate.window: %w", err))
	}

	if file.Estimate.Warmup < 0 {
		errs = append(errs, errors.New("estimate.warmup can not be negative"))
	}

	if file.Presence.Settle < 0 {
		errs = append(errs, errors.New("presence.settle can not be negative"))
	}

	if t := file.Presence.Threshold; t < 0 || t > 255 {
		errs = append(errs, fmt.Errorf("presence.threshold %v is out of range [0, 255]", t))
	}

	if file.Output.NATS.Subject != "" && file.Output.NATS.URL == "" {
		errs = append(errs, errors.New("output.nats.subject is set but output.nats.url is not"))
	}

	return errors.Join(errs...)
}

// Apply copies every set field of file onto cfg. file must have passed
// Validate.
func (file *File) Apply(cfg *thump.Config) {
	in := file.Input
	setString(&cfg.Backend, in.Backend)
	setString(&cfg.Device, in.Device)
	setInt(&cfg.Width, in.Width)
	setInt(&cfg.Height, in.Height)

	if in.Layout != "" {
		cfg.Layout, _ = input.ParseLayout(in.Layout)
	}

	if in.FrameRate > 0 {
		cfg.FrameRate = in.FrameRate
	}

	est := file.Estimate
	if est.Mode != "" {
		cfg.Mode, _ = dsp.ParseMode(est.Mode)
	}

	setInt(&cfg.SpectralSize, est.SpectralSize)
	setInt(&cfg.TemporalSize, est.TemporalSize)
	setInt(&cfg.Epsilon, est.Epsilon)

	if est.Warmup > 0 {
		cfg.Warmup = est.Warmup
	}

	if est.Window != "" {
		cfg.Windower, _ = window.Lookup(est.Window)
	}

	if est.Threaded != nil {
		cfg.UseThreaded = *est.Threaded
	}

	if file.Presence.Threshold > 0 {
		cfg.Threshold = file.Presence.Threshold
	}

	if file.Presence.Settle > 0 {
		cfg.Settle = file.Presence.Settle
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
