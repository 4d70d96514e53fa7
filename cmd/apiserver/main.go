// Command apiserver runs the molecule analysis HTTP API.  It is the
// container-friendly entrypoint: configuration comes from the environment or
// a discovered config file, logs are structured JSON, and shutdown is
// graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/molcraft/molcraft/internal/analysis"
	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/molcraft/molcraft/internal/interfaces/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		return err
	}
	logging.SetDefault(log)

	// Hot-reload the log level when an explicit config file changes; other
	// settings require a restart.
	if path := os.Getenv("MOLCRAFT_CONFIG"); path != "" {
		config.Watch(path, func(next *config.Config) {
			nl, lerr := logging.NewLogger(logging.LogConfig{
				Level:       next.Log.Level,
				Format:      next.Log.Format,
				OutputPaths: []string{next.Log.Output},
			})
			if lerr != nil {
				return
			}
			logging.SetDefault(nl)
			nl.Info("configuration reloaded", logging.String("path", path))
		})
	}

	engine := chem.NewEngine(
		chem.WithFingerprintBits(cfg.Analysis.FingerprintBits),
		chem.WithMorganRadius(cfg.Analysis.MorganRadius),
	)

	metrics := prometheus.NewMetrics()
	svc := analysis.NewService(engine,
		analysis.WithLogger(log.Named("analysis")),
		analysis.WithRecorder(metrics),
		analysis.WithMCSTimeout(cfg.Analysis.MCSTimeout),
		analysis.WithConformerMaxIterations(cfg.Analysis.ConformerMaxIterations),
	)

	handlers := httpiface.NewHandlers(svc, cfg, log.Named("http"))
	router := httpiface.NewRouter(handlers, cfg, log.Named("http"), metrics)
	server := httpiface.NewServer(router, cfg, log.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("signal received, shutting down", logging.String("signal", sig.String()))
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}

// loadConfig honors MOLCRAFT_CONFIG when set and falls back to discovery.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("MOLCRAFT_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.Discover()
}
