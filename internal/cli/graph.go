package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
	bpio "github.com/matzehuels/buildport/pkg/io"
	"github.com/matzehuels/buildport/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

type graphOpts struct {
	output   string
	format   string
	detailed bool
	external bool
}

// graphCommand renders a build graph for review.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [graph.json]",
		Short: "Render a build graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), printer{w: cmd.OutOrStdout()}, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot; inferred from --output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show source, group and block counts")
	cmd.Flags().BoolVar(&opts.external, "external", false, "draw dependencies outside the graph")

	return cmd
}

func runGraph(ctx context.Context, out printer, graphPath string, opts graphOpts) error {
	format, err := graphFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(graphPath, filepath.Ext(graphPath)) + "." + format
	}

	g, err := bpio.ImportJSON(ctx, graphPath)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed, External: opts.external})

	data := []byte(dot)
	if format == formatSVG {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write %s", output)
	}

	out.success("Rendered %d targets", g.Len())
	out.file(output)
	return nil
}

// graphFormat resolves the output format from the flag or the output
// file's extension.
func graphFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "", formatSVG:
		return formatSVG, nil
	case formatDOT, "gv":
		return formatDOT, nil
	}
	return "", bperrors.New(bperrors.ErrCodeInvalidConfig, "unsupported graph format %q (want svg or dot)", format)
}

func formatDelta(before, after int) string {
	if before == after {
		return fmt.Sprint(after)
	}
	return fmt.Sprintf("%d → %d", before, after)
}
