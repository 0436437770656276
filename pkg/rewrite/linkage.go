package rewrite

import (
	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// MarkAlwaysLinked re-adds p to t.Sources tagged GLOBAL.
//
// An object file that no strong symbol references may be dropped by the
// linker before a weak symbol inside it gets to override a default
// definition elsewhere. A GLOBAL source is always part of the final link.
//
// It fails with INVARIANT_VIOLATION if p is not in t.Sources. Marking an
// already GLOBAL source is a no-op. The returned flag reports whether the
// source changed.
func MarkAlwaysLinked(t *buildgraph.Target, p string) (bool, error) {
	src, ok := t.Sources.Get(p)
	if !ok {
		return false, bperrors.New(bperrors.ErrCodeInvariantViolation,
			"source %q is not in target %q", p, t.Name)
	}
	if src.Global {
		return false, nil
	}
	t.Sources.Remove(p)
	t.Sources.Insert(buildgraph.Source{Path: p, Global: true})
	return true, nil
}
