package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/githubixx/nextpvr-go/internal/infrastructure/config"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nextpvr-go",
		Short: "NextPVR recordings and timers gateway",
		Long: `nextpvr-go reads recordings, timers and series timers from a NextPVR
server and serves them as a small JSON API.

The recordings, timers and series-timers commands map a saved
ManageService response offline and print the records as JSON.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		newServeCmd(opts),
		newMapCmd(opts, familyRecordings),
		newMapCmd(opts, familyTimers),
		newMapCmd(opts, familySeriesTimers),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration and configures logging from it. Logs go to
// logOut so command output on stdout stays machine readable.
func (o *rootOptions) load(logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logging.Configure(logging.Config{
		Level:   cfg.Log.Level,
		Output:  logOut,
		Service: cfg.Log.Service,
		Version: version,
	})
	return cfg, nil
}
