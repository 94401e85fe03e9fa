package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/githubixx/nextpvr-go/internal/adapters/primary/http"
	"github.com/githubixx/nextpvr-go/internal/adapters/secondary/nextpvr"
	"github.com/githubixx/nextpvr-go/internal/application/services"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.WithComponent("server")
			logger.Info().
				Str("commit", commit).
				Str(logging.FieldBaseURL, cfg.NextPVR.BaseURL).
				Str("server_host", cfg.Server.Host).
				Int("server_port", cfg.Server.Port).
				Msg("starting nextpvr-go")

			loc, err := cfg.NextPVR.Location()
			if err != nil {
				return err
			}
			client := nextpvr.NewClient(cfg.NextPVR.BaseURL, cfg.NextPVR.SessionID, cfg.NextPVR.Timeout, loc)

			// Early reachability check (non-fatal).
			pingCtx, cancel := context.WithTimeout(cmd.Context(), cfg.NextPVR.Timeout)
			if err := client.Ping(pingCtx); err != nil {
				logger.Warn().Err(err).Msg("NextPVR not reachable (continuing without it)")
			}
			cancel()

			recordingService := services.NewRecordingService(client, cfg.Cache.RecordingExpiry)
			timerService := services.NewTimerService(client)
			dashboard := services.NewDashboardService(recordingService, timerService)

			handler := httpAdapter.NewHandler(logging.WithComponent("api"), client, recordingService, timerService, dashboard)
			mux := httpAdapter.SetupRoutes(handler, cfg, logging.WithComponent("http"))
			server := httpAdapter.NewServer(&cfg.Server, logger, mux)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			logger.Info().Msg("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "server host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "server port (overrides config)")
	return cmd
}
