package rewrite

import (
	"cmp"
	"slices"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Component is one fine-grained unit of a library that the producer sees as
// many separate link libraries, such as absl_strings inside abseil-cpp.
type Component struct {
	// Name is the vendored component's dependency reference.
	Name string
	// External is the reference of the component's own sub-target.
	External string
	// Sources are the files that belong to this component.
	Sources []string
}

// ComponentRule unbundles a multi-component library.
type ComponentRule struct {
	// Library is the single external reference every sub-target depends on.
	Library string
	// Prefix is the vendored copy's directory, stripped from include paths.
	Prefix string
	// Components lists the library's components.
	Components []Component
}

func (r ComponentRule) validate() error {
	if r.Library == "" {
		return bperrors.New(bperrors.ErrCodeInvalidConfig, "component rule needs an external library reference")
	}
	seen := make(map[string]bool, len(r.Components))
	for _, c := range r.Components {
		if c.Name == "" || c.External == "" {
			return bperrors.New(bperrors.ErrCodeInvalidConfig,
				"component of %q needs both a name and an external reference (got %q -> %q)", r.Library, c.Name, c.External)
		}
		if err := bperrors.ValidateTargetName(c.External); err != nil {
			return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "component %q of %q", c.Name, r.Library)
		}
		if seen[c.Name] {
			return bperrors.New(bperrors.ErrCodeInvalidConfig, "component %q of %q is listed twice", c.Name, r.Library)
		}
		seen[c.Name] = true
		if err := bperrors.ValidatePaths(c.Sources); err != nil {
			return err
		}
	}
	return nil
}

// ComponentResult describes what [UnbundleComponents] changed.
type ComponentResult struct {
	// Components are the names of the components that were unbundled, sorted.
	Components []string
	// SubTargets are the sub-targets that did not exist before, sorted.
	SubTargets []string
	// Relocated counts sources moved out of the host target.
	Relocated int
	// StrippedIncludes are the include paths removed from the host, sorted.
	StrippedIncludes []string
}

// present returns the components t depends on. A component whose
// sub-target would be t itself is an INVARIANT_VIOLATION.
func (r ComponentRule) present(t *buildgraph.Target) ([]Component, error) {
	var out []Component
	for _, c := range r.Components {
		if !t.Dependencies.Has(c.Name) {
			continue
		}
		if c.External == t.Name {
			return nil, bperrors.New(bperrors.ErrCodeInvariantViolation,
				"component %q would relocate into its own host target %q", c.Name, t.Name)
		}
		out = append(out, c)
	}
	return out, nil
}

// UnbundleComponents rewrites t's dependencies on the components of a
// vendored multi-component library.
//
// For each component t depends on, the component's declared sources move
// into a dedicated sub-target named after the component's external
// reference. The sub-target depends on rule.Library, and t depends on the
// sub-target instead of the vendored component. The library's compiled-unit
// boundaries are preserved rather than collapsed into one monolithic
// dependency. Include paths under rule.Prefix are stripped from t.
//
// If t depends on none of the components, t is unchanged and an
// UNUSED_RULE error is returned. Re-applying a rule finds no vendored
// components left and is a no-op.
func UnbundleComponents(g *buildgraph.Graph, t *buildgraph.Target, rule ComponentRule) (ComponentResult, error) {
	if err := rule.validate(); err != nil {
		return ComponentResult{}, err
	}

	present, err := rule.present(t)
	if err != nil {
		return ComponentResult{}, err
	}
	if len(present) == 0 {
		return ComponentResult{}, unusedUnbundle(t, rule.Library+" components", rule.Prefix)
	}
	slices.SortFunc(present, func(a, b Component) int { return cmp.Compare(a.Name, b.Name) })

	var res ComponentResult
	for _, c := range present {
		if _, exists := g.Lookup(c.External); !exists {
			res.SubTargets = append(res.SubTargets, c.External)
		}
		sub, err := g.Ensure(c.External)
		if err != nil {
			return ComponentResult{}, bperrors.Wrap(bperrors.ErrCodeInternal, err, "create sub-target %q", c.External)
		}

		for _, p := range c.Sources {
			if t.Sources.Has(p) {
				src, _ := t.Sources.Get(p)
				t.Sources.Remove(p)
				sub.Sources.Insert(src)
				res.Relocated++
				continue
			}
			sub.Sources.Add(p)
		}
		sub.Dependencies.Add(rule.Library)

		t.ReplaceDependency(c.Name, c.External)
		res.Components = append(res.Components, c.Name)
	}

	slices.Sort(res.SubTargets)
	res.StrippedIncludes = stripIncludes(t, rule.Prefix)
	return res, nil
}
