package main

import (
	"github.com/noriah/thump"
	"github.com/noriah/thump/config"
	"github.com/pkg/errors"
)

// cliConfig holds what the command line adds on top of a thump.Config.
type cliConfig struct {
	// Path of a YAML config file
	configFile string
	// Values set by flags, applied over the file
	flags config.File
	// Run cycles on the capture goroutine
	inline bool
	// Print the sample series with every estimate
	verbose bool
	// Log processor debug lines
	debug bool
}

// resolve merges defaults, the config file and the flags, in that order.
// The merged values are validated together, so a flag may complete a
// setting the file started. The returned output section carries the merged
// output options.
func (cli *cliConfig) resolve() (thump.Config, config.OutputConfig, error) {
	cfg := thump.NewZeroConfig()

	merged := &config.File{}
	if cli.configFile != "" {
		file, err := config.Read(cli.configFile)
		if err != nil {
			return cfg, config.OutputConfig{}, err
		}
		merged = file
	}

	merged.Merge(&cli.flags)

	if err := config.Validate(merged); err != nil {
		return cfg, config.OutputConfig{}, errors.Wrap(err, "invalid config")
	}

	merged.Apply(&cfg)

	if cli.inline {
		cfg.UseThreaded = false
	}

	return cfg, merged.Output, nil
}
