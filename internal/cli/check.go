package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// checkCommand dry-runs a recipe. Nothing is written.
func (c *CLI) checkCommand() *cobra.Command {
	var recipePath string
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [graph.json]",
		Short: "Dry-run an import recipe and report unused rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), printer{w: cmd.OutOrStdout()}, args[0], recipePath, strict)
		},
	}

	cmd.Flags().StringVarP(&recipePath, "recipe", "r", "", "import recipe (.toml, .yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any rule matched nothing")
	_ = cmd.MarkFlagRequired("recipe")

	return cmd
}

func runCheck(ctx context.Context, out printer, graphPath, recipePath string, strict bool) error {
	g, rcp, err := loadInputs(ctx, graphPath, recipePath)
	if err != nil {
		return err
	}
	res, err := rewrite(ctx, g, rcp, strict)
	if err != nil {
		if res != nil {
			reportUnused(out, res)
		}
		return err
	}

	out.keyValue("project", rcp.Project)
	out.keyValue("run", res.RunID)
	out.keyValue("targets", formatDelta(res.Stats.TargetsBefore, res.Stats.TargetsAfter))
	summarize(out, rcp, res)
	if n := res.Report.Protected.Len(); n > 0 {
		out.info("%d paths would be protected from re-import", n)
	}
	return nil
}
