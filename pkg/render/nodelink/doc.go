// Package nodelink renders build graphs as node-link diagrams.
//
// # Overview
//
// Targets appear as boxes connected by dependency arrows. References to
// libraries outside the graph (the external builds that unbundling points
// at) appear as grey ellipses when [Options.External] is set. Recursion
// gated behind a predicate is drawn as a dotted edge labeled with the
// predicate, so a reviewer can see at a glance which sub-builds only
// happen in the gated configuration.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{External: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source is also useful on its own and can be fed to any Graphviz
// tool.
package nodelink
