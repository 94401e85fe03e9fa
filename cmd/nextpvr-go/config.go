package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/githubixx/nextpvr-go/internal/infrastructure/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force    bool
		baseURL  string
		timeZone string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				return errors.New("--config must name a file")
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("failed to stat %s: %w", path, err)
				}
			}

			cfg := config.Default()
			if baseURL != "" {
				cfg.NextPVR.BaseURL = baseURL
			}
			if timeZone != "" {
				cfg.NextPVR.TimeZone = timeZone
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "NextPVR web API base URL")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "zone for timestamps without an offset")
	return cmd
}
