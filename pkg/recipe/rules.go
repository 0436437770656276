package recipe

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/rewrite"
)

func parseField(s string) (buildgraph.Field, error) {
	if s == "" {
		return buildgraph.FieldSources, nil
	}
	return buildgraph.ParseField(s)
}

// Rules builds the rewrite rules of the recipe in application order:
// ignored targets, put_with merges, put relocations, disabled includes,
// the post-install steps as listed, the unbundling table, and finally
// multi-component unbundling. Map-valued tables are visited in key order.
func (r *Recipe) Rules() ([]rewrite.Rule, error) {
	var rules []rewrite.Rule

	if len(r.IgnoreTargets) > 0 {
		rules = append(rules, rewrite.TargetIgnore{Names: r.IgnoreTargets})
	}
	for _, host := range slices.Sorted(maps.Keys(r.PutWith)) {
		rules = append(rules, rewrite.TargetMerge{Host: host, Members: r.PutWith[host]})
	}
	for _, name := range slices.Sorted(maps.Keys(r.Put)) {
		rules = append(rules, rewrite.TargetRelocation{Target: name, Dir: r.Put[name]})
	}
	if len(r.DisableIncludes) > 0 {
		patterns, err := rewrite.CompileIncludePatterns(r.DisableIncludes)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rewrite.IncludeDisable{Patterns: patterns})
	}

	for i, s := range r.Steps {
		rule, err := r.stepRule(s)
		if err != nil {
			return nil, bperrors.Wrap(bperrors.GetCode(err), err, "step %d (%s)", i+1, s.Target)
		}
		rules = append(rules, rule)
	}

	for _, internal := range slices.Sorted(maps.Keys(r.Unbundle)) {
		e := r.Unbundle[internal]
		rules = append(rules, rewrite.Unbundling{
			Targets: e.Targets,
			Rule: rewrite.UnbundleRule{
				Internal: internal,
				External: e.External,
				Prefix:   r.prefix(e.Prefix),
			},
		})
	}

	for _, c := range r.Components {
		rule := rewrite.ComponentRule{Library: c.Library, Prefix: r.prefix(c.Prefix)}
		for _, spec := range c.Components {
			rule.Components = append(rule.Components, rewrite.Component(spec))
		}
		rules = append(rules, rewrite.ComponentUnbundling{Targets: c.Targets, Rule: rule})
	}
	return rules, nil
}

func (r *Recipe) stepRule(s Step) (rewrite.Rule, error) {
	switch {
	case s.Reclassify != nil:
		return rewrite.Reclassification{Target: s.Target, Groups: groupRules(s.Reclassify)}, nil

	case s.ResolveDuplicate != nil:
		return rewrite.DuplicateResolution{
			Target:       s.Target,
			Proxy:        s.ResolveDuplicate.Proxy,
			Replacements: s.ResolveDuplicate.Replacements,
		}, nil

	case s.AlwaysLink != "":
		return rewrite.AlwaysLink{Target: s.Target, Path: s.AlwaysLink}, nil

	case s.RemoveSource != nil:
		return rewrite.SourceRemoval{Target: s.Target, Path: s.RemoveSource.Path, Delete: s.RemoveSource.Delete}, nil

	case s.FixDependencies != nil:
		f := s.FixDependencies
		return rewrite.DependencyFix{
			Target:             s.Target,
			AddDependencies:    f.AddDependencies,
			RemoveDependencies: f.RemoveDependencies,
			AddIncludePaths:    r.expandAll(f.AddIncludePaths),
			RemoveIncludePaths: r.expandAll(f.RemoveIncludePaths),
		}, nil

	case s.Branch != nil:
		return r.branchRule(s.Target, s.Branch)

	case s.GateRecurse != nil:
		when, err := s.GateRecurse.Build()
		if err != nil {
			return nil, err
		}
		return rewrite.RecursionGate{Target: s.Target, When: when}, nil
	}
	return nil, bperrors.New(bperrors.ErrCodeInvalidConfig, "step has no action")
}

func (r *Recipe) branchRule(target string, b *BranchStep) (rewrite.Rule, error) {
	field, err := parseField(b.Field)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "branch field")
	}
	when, err := b.When.Build()
	if err != nil {
		return nil, err
	}

	patch := buildgraph.Patch{
		Sources:      buildgraph.NewSourceSet(b.Sources...),
		Dependencies: buildgraph.NewStringSet(b.Dependencies...),
		IncludePaths: buildgraph.NewStringSet(r.expandAll(b.IncludePaths)...),
		Recurse:      buildgraph.NewStringSet(b.Recurse...),
		LinkFlags:    buildgraph.NewStringSet(b.LinkFlags...),
	}
	for _, p := range b.GlobalSources {
		patch.Sources.Insert(buildgraph.Source{Path: p, Global: true})
	}
	return rewrite.PlatformBranch{Target: target, Field: field, When: when, Patch: patch}, nil
}

func groupRules(s *ReclassifyStep) []rewrite.GroupRule {
	rules := rewrite.ExtensionRules(s.Extensions...)
	for _, g := range s.Groups {
		var m rewrite.AnyOf
		for _, d := range g.Dirs {
			m = append(m, rewrite.DirSegment(d))
		}
		for _, st := range g.Stems {
			m = append(m, rewrite.StemSuffix(st))
		}
		for _, n := range g.Names {
			m = append(m, rewrite.NameSuffix(n))
		}
		rules = append(rules, rewrite.GroupRule{Group: g.Group, Match: m})
	}
	return rules
}

func (r *Recipe) expandAll(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = r.expand(s)
	}
	return out
}

// String summarizes the recipe for log lines.
func (r *Recipe) String() string {
	return fmt.Sprintf("%s (%d steps, %d unbundled, %d component libraries)",
		r.Project, len(r.Steps), len(r.Unbundle), len(r.Components))
}
