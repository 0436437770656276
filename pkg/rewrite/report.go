package rewrite

import (
	"path"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Report collects the side outputs and metrics of a sequence of rules.
//
// A Report is filled in by [Rule.Apply] and read by the caller once the
// whole pipeline has succeeded.
//
// Protected and Deletions hold paths relative to the output tree root,
// the same base as the recipe's keep_paths. Sources are relative to their
// target's directory, so rules join the two.
type Report struct {
	// Protected lists paths that a future re-import of the vendored tree
	// must not overwrite.
	Protected buildgraph.StringSet

	// Deletions lists paths that must be physically removed from the output
	// source tree, as opposed to merely dropped from a target.
	Deletions buildgraph.StringSet

	// Unused holds the UNUSED_RULE errors recorded so far, in order.
	Unused []*bperrors.Error

	// SourcesReclassified counts sources moved into extension groups.
	SourcesReclassified int

	// DuplicatesResolved counts proxy sources replaced by curated parts.
	DuplicatesResolved int

	// AlwaysLinked counts sources newly tagged GLOBAL.
	AlwaysLinked int

	// DependenciesUnbundled counts vendored dependency edges rewritten to
	// external references, including per-component edges.
	DependenciesUnbundled int

	// IncludePathsStripped counts include paths removed because they pointed
	// into a vendored copy.
	IncludePathsStripped int

	// SubTargetsCreated counts component sub-targets added by
	// [UnbundleComponents].
	SubTargetsCreated int

	// RecursionGated counts targets whose recursion moved behind a predicate.
	RecursionGated int

	// TargetsIgnored, TargetsMerged and TargetsRelocated count placement work.
	TargetsIgnored   int
	TargetsMerged    int
	TargetsRelocated int

	// IncludesDisabled counts scanned includes removed by disable patterns.
	IncludesDisabled int

	// BlocksAttached counts conditional blocks attached by rules.
	BlocksAttached int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Protected: buildgraph.StringSet{},
		Deletions: buildgraph.StringSet{},
	}
}

// unused records a non-fatal UNUSED_RULE error.
func (r *Report) unused(format string, args ...any) {
	r.Unused = append(r.Unused, bperrors.New(bperrors.ErrCodeUnusedRule, format, args...))
}

// treePath resolves a source path of target against the output tree root.
// Targets addressed by post-install rules are named by their output
// directory, "." being the root.
func treePath(target, p string) string {
	return path.Join(target, p)
}
