package rewrite

import (
	"fmt"
	"strings"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Rule is one step of an import pipeline.
//
// Apply mutates g in place and records side outputs in rep. It returns a
// fatal error if its preconditions do not hold, in which case g is left as
// it was before the call. Non-fatal UNUSED_RULE outcomes are recorded in
// rep.Unused instead of being returned.
type Rule interface {
	Name() string
	Apply(g *buildgraph.Graph, rep *Report) error
}

// TargetIgnore drops targets the downstream build must not see, such as
// bundled code generators.
type TargetIgnore struct {
	Names []string
}

func (r TargetIgnore) Name() string { return "ignore targets" }

func (r TargetIgnore) Apply(g *buildgraph.Graph, rep *Report) error {
	removed, missing := Ignore(g, r.Names)
	rep.TargetsIgnored += len(removed)
	for _, name := range missing {
		rep.unused("ignored target %q is not in the graph", name)
	}
	return nil
}

// TargetMerge folds helper targets into a host target (put_with).
type TargetMerge struct {
	Host    string
	Members []string
}

func (r TargetMerge) Name() string { return fmt.Sprintf("merge into %s", r.Host) }

func (r TargetMerge) Apply(g *buildgraph.Graph, rep *Report) error {
	if _, err := g.Get(r.Host); err != nil {
		return err
	}
	for _, m := range r.Members {
		if _, ok := g.Lookup(m); !ok {
			rep.unused("merge member %q of %q is not in the graph", m, r.Host)
			continue
		}
		if err := g.Absorb(r.Host, m); err != nil {
			return err
		}
		rep.TargetsMerged++
	}
	return nil
}

// TargetRelocation renames a target to its output directory (put).
type TargetRelocation struct {
	Target string
	Dir    string
}

func (r TargetRelocation) Name() string { return fmt.Sprintf("put %s at %s", r.Target, r.Dir) }

func (r TargetRelocation) Apply(g *buildgraph.Graph, rep *Report) error {
	if _, ok := g.Lookup(r.Target); !ok {
		rep.unused("placed target %q is not in the graph", r.Target)
		return nil
	}
	if err := Relocate(g, r.Target, r.Dir); err != nil {
		return err
	}
	rep.TargetsRelocated++
	return nil
}

// IncludeDisable removes scanned includes that are never compiled in the
// downstream configuration.
type IncludeDisable struct {
	Patterns []IncludePattern
}

func (r IncludeDisable) Name() string { return "disable includes" }

func (r IncludeDisable) Apply(g *buildgraph.Graph, rep *Report) error {
	hits := DisableIncludes(g, r.Patterns)
	for _, p := range r.Patterns {
		n := hits[p.Pattern]
		rep.IncludesDisabled += n
		if n == 0 {
			rep.unused("disabled include %q matched nothing", p.Pattern)
		}
	}
	return nil
}

// Reclassification distributes a target's sources into extension groups.
type Reclassification struct {
	Target string
	Groups []GroupRule
}

func (r Reclassification) Name() string { return fmt.Sprintf("reclassify %s", r.Target) }

func (r Reclassification) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	moved := Reclassify(t, r.Groups)
	n := 0
	for _, paths := range moved {
		n += len(paths)
	}
	rep.SourcesReclassified += n
	if n == 0 {
		rep.unused("reclassification of %q matched no sources", r.Target)
	}
	return nil
}

// DuplicateResolution replaces a proxy source with curated parts and
// protects the parts from re-import.
type DuplicateResolution struct {
	Target       string
	Proxy        string
	Replacements []string
}

func (r DuplicateResolution) Name() string { return fmt.Sprintf("resolve duplicate %s", r.Proxy) }

func (r DuplicateResolution) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	protected, err := ResolveDuplicate(t, r.Proxy, r.Replacements)
	if err != nil {
		return err
	}
	for _, p := range protected {
		rep.Protected.Add(treePath(t.Name, p))
	}
	rep.DuplicatesResolved++
	return nil
}

// AlwaysLink tags one source GLOBAL.
type AlwaysLink struct {
	Target string
	Path   string
}

func (r AlwaysLink) Name() string { return fmt.Sprintf("always link %s", r.Path) }

func (r AlwaysLink) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	changed, err := MarkAlwaysLinked(t, r.Path)
	if err != nil {
		return err
	}
	if changed {
		rep.AlwaysLinked++
	}
	return nil
}

// SourceRemoval drops a source from a target. With Delete set, the file is
// also scheduled for physical deletion from the output tree.
type SourceRemoval struct {
	Target string
	Path   string
	Delete bool
}

func (r SourceRemoval) Name() string { return fmt.Sprintf("remove source %s", r.Path) }

func (r SourceRemoval) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	if err := RemoveSource(t, r.Path); err != nil {
		return err
	}
	if r.Delete {
		rep.Deletions.Add(treePath(t.Name, r.Path))
	}
	return nil
}

// DependencyFix adds and removes dependency references and include paths
// the producer could not derive on its own.
type DependencyFix struct {
	Target             string
	AddDependencies    []string
	RemoveDependencies []string
	AddIncludePaths    []string
	RemoveIncludePaths []string
}

func (r DependencyFix) Name() string { return fmt.Sprintf("fix dependencies of %s", r.Target) }

func (r DependencyFix) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	for _, dep := range r.AddDependencies {
		if strings.TrimSpace(dep) == "" {
			return bperrors.New(bperrors.ErrCodeInvalidConfig, "empty dependency for %q", r.Target)
		}
	}
	t.Dependencies.Add(r.AddDependencies...)
	for _, dep := range r.RemoveDependencies {
		if t.Dependencies.Remove(dep) == 0 {
			rep.unused("dependency %q is not in target %q", dep, r.Target)
		}
	}
	t.IncludePaths.Add(r.AddIncludePaths...)
	for _, p := range r.RemoveIncludePaths {
		if t.IncludePaths.Remove(p) == 0 {
			rep.unused("include path %q is not in target %q", p, r.Target)
			continue
		}
		rep.IncludePathsStripped++
	}
	return nil
}

// PlatformBranch attaches a deferred branch to a target field, e.g.
// Objective-C sources and framework link flags that only apply on Darwin.
type PlatformBranch struct {
	Target string
	Field  buildgraph.Field
	When   buildgraph.Predicate
	Patch  buildgraph.Patch
}

func (r PlatformBranch) Name() string { return fmt.Sprintf("branch %s on %s", r.Target, r.When) }

func (r PlatformBranch) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	if err := AttachBranch(t, r.Field, r.When, r.Patch); err != nil {
		return err
	}
	rep.BlocksAttached++
	return nil
}

// RecursionGate moves a target's recursion behind a predicate.
type RecursionGate struct {
	Target string
	When   buildgraph.Predicate
}

func (r RecursionGate) Name() string { return fmt.Sprintf("gate recursion of %s", r.Target) }

func (r RecursionGate) Apply(g *buildgraph.Graph, rep *Report) error {
	t, err := g.Get(r.Target)
	if err != nil {
		return err
	}
	captured, err := GateRecurse(t, r.When)
	if err != nil {
		return err
	}
	if captured == nil {
		rep.unused("target %q has no recursion to gate", r.Target)
		return nil
	}
	rep.RecursionGated++
	rep.BlocksAttached++
	return nil
}

// Unbundling applies an unbundle rule to the listed targets, or to every
// target when Targets is empty. It is unused only if no target matched.
type Unbundling struct {
	Targets []string
	Rule    UnbundleRule
}

func (r Unbundling) Name() string { return fmt.Sprintf("unbundle %s", r.Rule.Internal) }

func (r Unbundling) Apply(g *buildgraph.Graph, rep *Report) error {
	if err := r.Rule.validate(); err != nil {
		return err
	}
	targets, err := resolveTargets(g, r.Targets)
	if err != nil {
		return err
	}

	var misses []error
	for _, t := range targets {
		res, err := Unbundle(t, r.Rule)
		if err != nil {
			misses = append(misses, err)
			continue
		}
		rep.DependenciesUnbundled++
		rep.IncludePathsStripped += len(res.StrippedIncludes)
	}
	if len(misses) == len(targets) {
		rep.unused("unbundle rule for %q matched no target%s", r.Rule.Internal, mismatchHint(misses))
	}
	return nil
}

// ComponentUnbundling applies a multi-component rule to the listed targets,
// or to every target when Targets is empty.
type ComponentUnbundling struct {
	Targets []string
	Rule    ComponentRule
}

func (r ComponentUnbundling) Name() string { return fmt.Sprintf("unbundle %s components", r.Rule.Library) }

func (r ComponentUnbundling) Apply(g *buildgraph.Graph, rep *Report) error {
	if err := r.Rule.validate(); err != nil {
		return err
	}
	targets, err := resolveTargets(g, r.Targets)
	if err != nil {
		return err
	}
	// Every target is checked before any of them changes.
	for _, t := range targets {
		if _, err := r.Rule.present(t); err != nil {
			return err
		}
	}

	var misses []error
	for _, t := range targets {
		res, err := UnbundleComponents(g, t, r.Rule)
		if err != nil {
			if bperrors.IsFatal(err) {
				return err
			}
			misses = append(misses, err)
			continue
		}
		rep.DependenciesUnbundled += len(res.Components)
		rep.SubTargetsCreated += len(res.SubTargets)
		rep.IncludePathsStripped += len(res.StrippedIncludes)
	}
	if len(misses) == len(targets) {
		rep.unused("component rule for %q matched no target%s", r.Rule.Library, mismatchHint(misses))
	}
	return nil
}

// resolveTargets returns the named targets, or all targets in name order
// when names is empty. Sub-targets created while a rule runs are not
// visited by that rule.
func resolveTargets(g *buildgraph.Graph, names []string) ([]*buildgraph.Target, error) {
	if len(names) == 0 {
		return g.Targets(), nil
	}
	out := make([]*buildgraph.Target, 0, len(names))
	for _, name := range names {
		t, err := g.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// mismatchHint surfaces per-target messages that suggest the library is
// vendored under another internal name.
func mismatchHint(misses []error) string {
	var hints []string
	for _, err := range misses {
		if msg := bperrors.UserMessage(err); strings.Contains(msg, "another name") {
			hints = append(hints, msg)
		}
	}
	if len(hints) == 0 {
		return ""
	}
	return " (" + strings.Join(hints, "; ") + ")"
}
