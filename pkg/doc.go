// Package pkg provides the core libraries for Buildport build graph rewriting.
//
// # Overview
//
// Buildport takes the build graph extracted from a third-party project and
// rewrites it into a shape the downstream build system accepts: sources that
// need special instruction-set flags are moved into groups, duplicated proxy
// sources are replaced by curated parts, weak-symbol sources are linked
// whole, vendored libraries are replaced by references to their external
// builds, and optional subdirectories are built only when a condition holds.
// The pkg directory is organized into these areas:
//
//  1. [buildgraph] - The in-memory build graph and its conditional blocks
//  2. [rewrite] - Per-target transformations and the [rewrite.Rule] adapters
//  3. [recipe] - Declarative import recipes (TOML, YAML, JSON)
//  4. [pipeline] - Ordered rule execution over a cloned graph
//  5. [io], [keep], [render/nodelink] - Graph files, the keep ledger, DOT/SVG
//
// # Architecture
//
// The typical data flow through Buildport:
//
//	graph.json (front end)     recipe.toml
//	         ↓                      ↓
//	    [io] package          [recipe] package
//	         ↓                      ↓
//	         └──→ [pipeline] ←──────┘   ([rewrite] rules)
//	                   ↓
//	    graph.json + deletions + keep ledger
//
// # Quick Start
//
//	rcp, _ := recipe.Load("recipe.toml")
//	rules, _ := rcp.Rules()
//	g, _ := io.ImportJSON(ctx, "graph.json")
//
//	res, err := pipeline.NewRunner(logger).Run(ctx, g, pipeline.Options{
//	    Project: rcp.Project,
//	    Rules:   rules,
//	})
//	if err != nil {
//	    return err
//	}
//	_ = io.ExportJSON(ctx, res.Graph, "graph.json")
//
// # Error Handling
//
// All packages return *[errors.Error] values carrying a code. UNUSED_RULE is
// the only non-fatal code: a rule that matched nothing is reported and the
// run continues. See [errors.IsFatal].
//
// # Observability
//
// The [observability] package exposes hooks for pipeline runs and file
// I/O. The defaults are no-ops.
//
// [buildgraph]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/buildgraph
// [rewrite]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/rewrite
// [rewrite.Rule]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/rewrite#Rule
// [recipe]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/recipe
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/io
// [keep]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/keep
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/errors
// [errors.Error]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/errors#Error
// [errors.IsFatal]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/errors#IsFatal
// [observability]: https://pkg.go.dev/github.com/matzehuels/buildport/pkg/observability
package pkg
