// Package cli implements the molcraft command-line interface.  Every façade
// operation is exposed as a subcommand; results print as indented JSON by
// default or compact JSON with --output=compact.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/molcraft/molcraft/internal/analysis"
	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
)

// App holds the CLI's shared state, built once in the root command's
// PersistentPreRun and consumed by every subcommand.
type App struct {
	cfg *config.Config
	log logging.Logger
	svc *analysis.Service
	eng *chem.Engine

	configPath string
	output     string
	logLevel   string

	stdout io.Writer
}

// NewRootCmd assembles the root command and its subcommand tree.
func NewRootCmd() *cobra.Command {
	app := &App{stdout: os.Stdout}

	root := &cobra.Command{
		Use:   "molcraft",
		Short: "Molecule analysis toolkit",
		Long: `molcraft parses chemical notation, computes descriptors and fingerprints,
searches substructures, applies reaction transforms, and generates conformers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize()
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to config file (default: auto-discover)")
	root.PersistentFlags().StringVarP(&app.output, "output", "o", "json", "output format: json|compact")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "error", "log level: debug|info|warn|error")

	root.AddCommand(
		newParseCmd(app),
		newRenderCmd(app),
		newFingerprintCmd(app),
		newSimilarityCmd(app),
		newMCSCmd(app),
		newMatchCmd(app),
		newReactCmd(app),
		newRetroCmd(app),
		newConformersCmd(app),
		newStereoCmd(app),
		newLipinskiCmd(app),
		newServeCmd(app),
	)
	return root
}

func (a *App) initialize() error {
	var cfg *config.Config
	var err error
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.Discover()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  a.logLevel,
		Format: "console",
	})
	if err != nil {
		return err
	}
	a.log = log
	logging.SetDefault(log)

	a.eng = chem.NewEngine(
		chem.WithFingerprintBits(cfg.Analysis.FingerprintBits),
		chem.WithMorganRadius(cfg.Analysis.MorganRadius),
	)
	a.svc = analysis.NewService(a.eng,
		analysis.WithLogger(log.Named("analysis")),
		analysis.WithMCSTimeout(cfg.Analysis.MCSTimeout),
		analysis.WithConformerMaxIterations(cfg.Analysis.ConformerMaxIterations),
	)
	return nil
}

// engine exposes the configured chemistry engine to subcommands that build
// their own service wiring (the server path attaches metrics).
func (a *App) engine() *chem.Engine { return a.eng }

// printResult renders a value according to the --output flag.
func (a *App) printResult(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	if a.output != "compact" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
