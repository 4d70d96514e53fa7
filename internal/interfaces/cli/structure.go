package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newMCSCmd(app *App) *cobra.Command {
	var timeoutSec float64
	cmd := &cobra.Command{
		Use:   "mcs <smiles>...",
		Short: "Find the maximum common substructure of two or more molecules",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout := time.Duration(timeoutSec * float64(time.Second))
			return app.printResult(app.svc.FindCommonSubstructure(cmd.Context(), args, timeout))
		},
	}
	cmd.Flags().Float64Var(&timeoutSec, "timeout", 0, "search bound in seconds (0 = config default)")
	return cmd
}

func newMatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "match <pattern> <target>...",
		Short: "Match a structural pattern against target molecules",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printResult(app.svc.MatchPattern(cmd.Context(), args[0], args[1:]))
		},
	}
}

func newReactCmd(app *App) *cobra.Command {
	var timeoutSec float64
	cmd := &cobra.Command{
		Use:   "react <reaction-smarts> <reactants>...",
		Short: "Apply a reaction transform to reactant sets",
		Long: `Apply a mapped reaction transform.  Each <reactants> argument is one
reactant set; separate the members of a set with commas:

  molcraft react "[C:1](=[O:2])O[C:3]>>[C:1](=[O:2])O.[C:3]" "CC(=O)OC"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := make([][]string, 0, len(args)-1)
			for _, raw := range args[1:] {
				sets = append(sets, strings.Split(raw, ","))
			}
			timeout := time.Duration(timeoutSec * float64(time.Second))
			return app.printResult(app.svc.ApplyReaction(cmd.Context(), args[0], sets, timeout))
		},
	}
	cmd.Flags().Float64Var(&timeoutSec, "timeout", 0, "batch bound in seconds (0 = config default)")
	return cmd
}

func newRetroCmd(app *App) *cobra.Command {
	var maxSuggestions int
	cmd := &cobra.Command{
		Use:   "retro <smiles>",
		Short: "Suggest naive one-bond retrosynthetic disconnections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printResult(app.svc.SuggestRetrosynthesis(cmd.Context(), args[0], maxSuggestions))
		},
	}
	cmd.Flags().IntVar(&maxSuggestions, "max", 10, "maximum number of disconnections")
	return cmd
}
