package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/noriah/thump"
	"github.com/noriah/thump/config"
	"github.com/noriah/thump/dsp"
	"github.com/noriah/thump/dsp/window"
	"github.com/noriah/thump/graphic"
	"github.com/noriah/thump/input"
	"github.com/noriah/thump/observe"
	"github.com/noriah/thump/processor"
	"github.com/noriah/thump/publish"

	_ "github.com/noriah/thump/input/all"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// AppName is the app name
const AppName = "thump"

// AppDesc is the app description
const AppDesc = "heart rate from a fingertip on the camera"

// AppSite is the app website
const AppSite = "https://github.com/noriah/thump"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cli := cliConfig{}

	if doFlags(&cli) {
		return
	}

	cfg, out, err := cli.resolve()
	chk(err, "invalid config")

	if cfg.Backend == "" {
		cfg.Backend = input.DefaultBackend()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chk(run(ctx, &cli, &cfg, out), "failed to run thump")
}

func run(ctx context.Context, cli *cliConfig, cfg *thump.Config, out config.OutputConfig) error {
	debug := log.New(io.Discard, "", log.Ltime)
	if cli.debug {
		debug.SetOutput(os.Stderr)
	}

	cfg.Logger = debug
	cfg.Power = logPower{logger: debug}

	var smoother *dsp.Kalman
	if out.Smooth {
		smoother = dsp.NewKalman(1, 16)
	}

	var outputs processor.Outputs

	if out.Raw {
		raw := NewRawOutput(os.Stdout)
		raw.Smoother = smoother
		raw.Verbose = cli.verbose
		outputs = append(outputs, raw)
	} else {
		display := &graphic.Display{
			MarkPeaks: cfg.Mode == dsp.ModeTemporal,
			Smoother:  smoother,
		}

		cfg.SetupFunc = display.Init
		cfg.StartFunc = func(ctx context.Context) (context.Context, error) {
			return display.Start(ctx), nil
		}
		cfg.CleanupFunc = func() error {
			display.Stop()
			return display.Close()
		}

		outputs = append(outputs, display)
	}

	if out.NATS.URL != "" {
		nc, err := publish.Connect(out.NATS.URL)
		if err != nil {
			return err
		}
		defer nc.Drain()

		subject := out.NATS.Subject
		if subject == "" {
			subject = "thump.bpm"
		}

		pub := publish.NewNATS(nc, subject)
		pub.Series = cli.verbose
		outputs = append(outputs, pub)
	}

	cfg.Output = outputs

	if out.Metrics == "" {
		return thump.Run(cfg, ctx)
	}

	provider, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    AppName,
		ServiceVersion: version,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics, err = observe.NewMetrics(provider.MeterProvider()); err != nil {
		return errors.Wrap(err, "failed to create metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", provider.Handler())

	srv := &http.Server{
		Addr:              out.Metrics,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "metrics server")
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			srv.Shutdown(shutdownCtx)
			provider.Shutdown(shutdownCtx)
		}()

		return thump.Run(cfg, gctx)
	})

	return g.Wait()
}

func doFlags(cli *cliConfig) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	f := &cli.flags

	parser.String(&cli.configFile, "c", "config", "YAML config file")

	parser.String(&f.Input.Backend, "b", "backend", "backend name")
	parser.String(&f.Input.Device, "d", "device", "device name")
	parser.Int(&f.Input.Width, "W", "width", "frame width in pixels")
	parser.Int(&f.Input.Height, "H", "height", "frame height in pixels")
	parser.String(&f.Input.Layout, "l", "layout", "pixel layout (nv21, nv12, gray)")
	parser.Float64(&f.Input.FrameRate, "r", "fps", "nominal frame rate")

	parser.String(&f.Estimate.Mode, "m", "mode", "estimator (spectral, temporal)")
	parser.Int(&f.Estimate.SpectralSize, "n", "samples", "samples per spectral transform")
	parser.Int(&f.Estimate.TemporalSize, "tn", "temporal-samples", "samples in the temporal window")
	parser.Int(&f.Estimate.Epsilon, "e", "epsilon", "temporal peak tolerance in samples")
	parser.Duration(&f.Estimate.Warmup, "w", "warmup", "delay before temporal estimates")
	parser.String(&f.Estimate.Window, "wf", "window",
		"spectral window function ("+strings.Join(window.Names, ", ")+")")
	parser.Bool(&cli.inline, "i", "inline", "run cycles on the capture goroutine")

	parser.Float64(&f.Presence.Threshold, "th", "threshold", "finger intensity threshold [0, 255]")
	parser.Duration(&f.Presence.Settle, "s", "settle", "finger debounce time")

	parser.Bool(&f.Output.Raw, "R", "raw", "print estimates instead of drawing")
	parser.Bool(&f.Output.Smooth, "k", "kalman", "show a kalman smoothed rate")
	parser.String(&f.Output.Metrics, "M", "metrics", "serve prometheus metrics on this address")
	parser.String(&f.Output.NATS.URL, "N", "nats", "publish estimates to this NATS server")
	parser.String(&f.Output.NATS.Subject, "S", "subject", "NATS subject (default thump.bpm)")
	parser.Bool(&cli.verbose, "v", "verbose", "also print or publish the sample series")
	parser.Bool(&cli.debug, "D", "debug", "log processor events to stderr")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		def := input.DefaultBackend()
		for _, backend := range input.Backends {
			star := ' '
			if backend.Name == def {
				star = '*'
			}

			fmt.Printf("- %s %c\n", backend.Name, star)
		}

		return true

	case listDevicesCmd.Used:
		name := f.Input.Backend
		if name == "" {
			name = input.DefaultBackend()
		}

		backend, err := input.InitBackend(name)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", name)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
