// Package buildgraph provides the in-memory model of an imported build graph.
//
// # Overview
//
// A [Graph] maps target names to [Target] values. The graph is constructed
// by an external producer (usually decoded with pkg/io), mutated in place by
// the rewrite rules in pkg/rewrite, and handed to a downstream renderer. It
// has exactly one owner at a time and is not safe for concurrent use.
//
// # Targets
//
// Every field of a [Target] is a set: [SourceSet] for sources, [StringSet]
// for dependencies, include paths, recursive subdirectories, scanned includes
// and link flags. Set operations are idempotent: adding a present element or
// removing an absent one is a no-op, so the fields can never hold duplicates.
//
// Sources carry one extra attribute. A [Source] with Global set is
// "always-linked": the downstream build system must keep its object file in
// the final link even if no strong symbol references it.
//
// # Conditional Blocks
//
// Deferred branches are modeled as a [Block] of (predicate, patch) cases
// attached to a field of a target with [Target.Attach]. A [Predicate] is an
// opaque expression over platform and feature identifiers; it is rendered to
// the downstream syntax with String and never evaluated here. A [Patch] only
// ever adds values when its predicate holds.
//
//	t.Attach(buildgraph.FieldSources, buildgraph.Branch(
//	    buildgraph.Flag("OS_DARWIN"),
//	    buildgraph.Patch{Sources: buildgraph.NewSourceSet("apple_log_sink.mm")},
//	))
//
// Blocks attached later are emitted later by the renderer.
package buildgraph
