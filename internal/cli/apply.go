package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
	bpio "github.com/matzehuels/buildport/pkg/io"
	"github.com/matzehuels/buildport/pkg/keep"
	"github.com/matzehuels/buildport/pkg/pipeline"
	"github.com/matzehuels/buildport/pkg/recipe"
)

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	recipe    string // recipe file (TOML or YAML)
	output    string // rewritten graph output path
	deletions string // deletion side channel output path
	keep      string // keep-paths ledger to update
	tree      string // output source tree to prune, if set
	strict    bool   // fail if any rule matched nothing
}

func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply [graph.json]",
		Short: "Rewrite a build graph with an import recipe",
		Long: `Apply an import recipe to a build graph and write the rewritten graph.

The deletion list and the keep-paths ledger are written alongside when
--deletions and --keep are given. With --tree, the scheduled deletions are
also removed from the output source tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), printer{w: cmd.OutOrStdout()}, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.recipe, "recipe", "r", "", "import recipe (.toml, .yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output graph file (default: overwrite input)")
	cmd.Flags().StringVar(&opts.deletions, "deletions", "", "write paths scheduled for deletion to this file")
	cmd.Flags().StringVar(&opts.keep, "keep", "", "keep-paths ledger to update")
	cmd.Flags().StringVar(&opts.tree, "tree", "", "output source tree to remove deleted files from")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail if any rule matched nothing")
	_ = cmd.MarkFlagRequired("recipe")

	return cmd
}

func runApply(ctx context.Context, out printer, graphPath string, opts applyOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, rcp, err := loadInputs(ctx, graphPath, opts.recipe)
	if err != nil {
		return err
	}
	res, err := rewrite(ctx, g, rcp, opts.strict)
	if err != nil {
		if res != nil {
			reportUnused(out, res)
		}
		return err
	}

	output := opts.output
	if output == "" {
		output = graphPath
	}
	if err := bpio.ExportJSON(ctx, res.Graph, output); err != nil {
		return err
	}

	deletions := res.Report.Deletions.Sorted()
	if opts.deletions != "" {
		if err := bpio.ExportDeletions(ctx, deletions, opts.deletions); err != nil {
			return err
		}
	}
	if opts.tree != "" {
		if err := pruneTree(opts.tree, deletions); err != nil {
			return err
		}
	}
	if opts.keep != "" {
		if err := updateLedger(ctx, opts.keep, rcp, res); err != nil {
			return err
		}
	}

	prog.done("Rewrote " + rcp.Project)
	summarize(out, rcp, res)
	out.file(output)
	if opts.deletions != "" {
		out.file(opts.deletions)
	}
	if opts.keep != "" {
		out.file(opts.keep)
	}
	return nil
}

// pruneTree removes deleted sources from the output tree. Files that are
// already gone are skipped.
func pruneTree(root string, paths []string) error {
	for _, p := range paths {
		if err := bperrors.ValidatePath(p); err != nil {
			return err
		}
		err := os.Remove(filepath.Join(root, filepath.FromSlash(p)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return bperrors.Wrap(bperrors.ErrCodeIO, err, "delete %s", p)
		}
	}
	return nil
}

// updateLedger merges the recipe's keep paths and the run's protected
// paths into the ledger file.
func updateLedger(ctx context.Context, path string, rcp *recipe.Recipe, res *pipeline.Result) error {
	ledger, err := keep.Load(ctx, path, rcp.Project)
	if err != nil {
		return err
	}
	added := ledger.Add(rcp.KeepPaths...)
	added += ledger.Add(res.Report.Protected.Sorted()...)
	loggerFromContext(ctx).Debug("updated keep ledger", "path", path, "added", added, "total", len(ledger.Paths))
	return ledger.Save(ctx, path)
}

func summarize(out printer, rcp *recipe.Recipe, res *pipeline.Result) {
	rep := res.Report
	out.success("%s: %d rules applied to %d targets", rcp.Project, res.Stats.Rules, res.Stats.TargetsAfter)
	out.stats(
		"reclassified", rep.SourcesReclassified,
		"duplicates resolved", rep.DuplicatesResolved,
		"always linked", rep.AlwaysLinked,
		"unbundled", rep.DependenciesUnbundled,
		"sub-targets", rep.SubTargetsCreated,
		"gated", rep.RecursionGated,
		"includes disabled", rep.IncludesDisabled,
		"deletions", rep.Deletions.Len(),
	)
	reportUnused(out, res)
}

func reportUnused(out printer, res *pipeline.Result) {
	if len(res.Report.Unused) == 0 {
		return
	}
	out.warning("%d rules matched nothing", len(res.Report.Unused))
	for _, u := range res.Report.Unused {
		out.detail("%s", u.Message)
	}
}
