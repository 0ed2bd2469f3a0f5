package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fiberflow/opsdash/internal/api"
	"github.com/fiberflow/opsdash/internal/dashboard"
	"github.com/fiberflow/opsdash/internal/logging"
	"github.com/fiberflow/opsdash/internal/metrics"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard server",
	Long:  `Start the HTTP server with the HTML dashboard, the JSON API and the live update feed`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := logging.L()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.DefaultConfig())
	}

	hub := api.NewHub(logger, m)

	dashOpts := []dashboard.Option{dashboard.WithPublisher(hub)}
	if m != nil {
		dashOpts = append(dashOpts, dashboard.WithMetrics(m))
	}
	d, err := newDashboard(cfg, logger, dashOpts...)
	if err != nil {
		return err
	}

	serverOpts := []api.Option{api.WithLogger(logger)}
	if m != nil {
		serverOpts = append(serverOpts, api.WithMetrics(m))
	}
	server := api.New(cfg, hub, d, serverOpts...)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
