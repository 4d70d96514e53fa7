package cli

import (
	"os"

	"github.com/spf13/cobra"

	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

func newParseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <smiles>",
		Short: "Parse a SMILES string and print its descriptors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printResult(app.svc.Parse(cmd.Context(), args[0]))
		},
	}
}

func newRenderCmd(app *App) *cobra.Command {
	var width, height int
	var outPath string
	cmd := &cobra.Command{
		Use:   "render <smiles>",
		Short: "Render a molecule to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			png, err := app.svc.Render2D(cmd.Context(), args[0], width, height)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, png, 0o644); err != nil {
				return err
			}
			return app.printResult(map[string]interface{}{
				"file":  outPath,
				"bytes": len(png),
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 400, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 400, "image height in pixels")
	cmd.Flags().StringVar(&outPath, "out", "molecule.png", "output file path")
	return cmd
}

func newFingerprintCmd(app *App) *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "fingerprint <smiles>",
		Short: "Generate a molecular fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := chemtypes.ParseFingerprintMethod(method)
			if err != nil {
				return err
			}
			record, err := app.svc.Fingerprint(cmd.Context(), args[0], m)
			if err != nil {
				return err
			}
			return app.printResult(record)
		},
	}
	cmd.Flags().StringVar(&method, "method", "morgan", "fingerprint method: morgan|rdkit|atompair|torsion|maccs")
	return cmd
}

func newSimilarityCmd(app *App) *cobra.Command {
	var threshold float64
	var method string
	cmd := &cobra.Command{
		Use:   "similarity <query> <target>...",
		Short: "Rank targets by Tanimoto similarity to a query molecule",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := chemtypes.ParseFingerprintMethod(method)
			if err != nil {
				return err
			}
			results, err := app.svc.Similarity(cmd.Context(), args[0], args[1:], threshold, m)
			if err != nil {
				return err
			}
			return app.printResult(map[string]interface{}{
				"query":   args[0],
				"count":   len(results),
				"results": results,
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.7, "minimum similarity in [0,1]")
	cmd.Flags().StringVar(&method, "method", "morgan", "fingerprint method")
	return cmd
}

func newConformersCmd(app *App) *cobra.Command {
	var count, maxIters int
	cmd := &cobra.Command{
		Use:   "conformers <smiles>",
		Short: "Generate 3D conformers and report their energies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printResult(app.svc.GenerateConformers(cmd.Context(), args[0], count, maxIters))
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "number of conformers")
	cmd.Flags().IntVar(&maxIters, "max-iterations", 0, "minimization iteration cap (0 = config default)")
	return cmd
}

func newStereoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stereo <smiles>",
		Short: "Analyze chiral centers and stereoisomer count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printResult(app.svc.AnalyzeStereochemistry(cmd.Context(), args[0]))
		},
	}
}

func newLipinskiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lipinski <smiles>",
		Short: "Evaluate Lipinski Rule-of-Five descriptors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.svc.CheckLipinski(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.printResult(report)
		},
	}
}
