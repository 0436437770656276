// Package cli implements the buildport command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	"github.com/matzehuels/buildport/pkg/buildinfo"
	bpio "github.com/matzehuels/buildport/pkg/io"
	"github.com/matzehuels/buildport/pkg/pipeline"
	"github.com/matzehuels/buildport/pkg/recipe"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "buildport"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Buildport rewrites imported build graphs for the downstream build system",
		Long: `Buildport applies an import recipe to a build graph extracted from a third-party
project: it reclassifies instruction-set sources, resolves duplicated proxy sources,
fixes weak-symbol linkage, unbundles vendored libraries and gates optional recursion.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Steps
// =============================================================================

// loadInputs reads the recipe and the graph a rewrite command works on.
func loadInputs(ctx context.Context, graphPath, recipePath string) (*buildgraph.Graph, *recipe.Recipe, error) {
	logger := loggerFromContext(ctx)

	rcp, err := recipe.Load(recipePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded recipe", "path", recipePath, "recipe", rcp.String())

	g, err := bpio.ImportJSON(ctx, graphPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded graph", "path", graphPath, "targets", g.Len())
	return g, rcp, nil
}

// rewrite runs the recipe against g.
func rewrite(ctx context.Context, g *buildgraph.Graph, rcp *recipe.Recipe, strict bool) (*pipeline.Result, error) {
	rules, err := rcp.Rules()
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(loggerFromContext(ctx))
	return runner.Run(ctx, g, pipeline.Options{Project: rcp.Project, Rules: rules, Strict: strict})
}
