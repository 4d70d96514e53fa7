package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/molcraft/molcraft/internal/analysis"
	httpiface "github.com/molcraft/molcraft/internal/interfaces/http"

	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/prometheus"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(app)
		},
	}
}

// runServer wires the full HTTP stack and blocks until SIGINT/SIGTERM.
func runServer(app *App) error {
	metrics := prometheus.NewMetrics()

	// Rebuild the service with metrics attached; the plain CLI path skips
	// instrumentation entirely.
	svc := analysis.NewService(
		app.engine(),
		analysis.WithLogger(app.log.Named("analysis")),
		analysis.WithRecorder(metrics),
		analysis.WithMCSTimeout(app.cfg.Analysis.MCSTimeout),
		analysis.WithConformerMaxIterations(app.cfg.Analysis.ConformerMaxIterations),
	)

	handlers := httpiface.NewHandlers(svc, app.cfg, app.log.Named("http"))
	router := httpiface.NewRouter(handlers, app.cfg, app.log.Named("http"), metrics)
	server := httpiface.NewServer(router, app.cfg, app.log.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		app.log.Info("signal received, shutting down", logging.String("signal", sig.String()))
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}
