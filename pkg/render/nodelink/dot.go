package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds source, group and block counts to target labels.
	// When false, only the target name is shown.
	Detailed bool

	// External draws dependencies that are not targets of the graph.
	External bool
}

// ToDOT converts a build graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *buildgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	external := buildgraph.StringSet{}
	for _, t := range g.Targets() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", t.Name, fmtLabel(t, opts.Detailed))
		for dep := range t.Dependencies {
			if _, ok := g.Lookup(dep); !ok {
				external.Add(dep)
			}
		}
	}
	if opts.External {
		for _, dep := range external.Sorted() {
			fmt.Fprintf(&buf, "  %q [shape=ellipse, fillcolor=lightgrey, fontcolor=black];\n", dep)
		}
	}

	buf.WriteString("\n")
	for _, t := range g.Targets() {
		for _, dep := range t.Dependencies.Sorted() {
			if external.Has(dep) && !opts.External {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", t.Name, dep)
		}
		for _, sub := range t.Recurse.Sorted() {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", t.Name, sub)
		}
		for _, b := range t.Blocks {
			for _, c := range b.Cases {
				for _, sub := range c.Patch.Recurse.Sorted() {
					fmt.Fprintf(&buf, "  %q -> %q [style=dotted, label=%q];\n", t.Name, sub, c.When.String())
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *buildgraph.Target, detailed bool) string {
	if !detailed {
		return t.Name
	}

	parts := []string{fmt.Sprintf("sources: %d", t.Sources.Len())}
	for _, g := range t.Groups {
		parts = append(parts, fmt.Sprintf("%s: %d", g.Name, len(g.Sources)))
	}
	if len(t.Blocks) > 0 {
		parts = append(parts, fmt.Sprintf("blocks: %d", len(t.Blocks)))
	}
	return t.Name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// that scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
