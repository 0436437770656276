package rewrite

import (
	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// GateRecurse moves t's recursive subdirectories behind a predicate.
//
// The current recurse set is captured, t.Recurse is cleared, and a branch
// re-adding the captured set under when is attached to the recurse field.
// The default build (predicate false) then performs no recursive
// sub-builds and the gated build performs exactly the original set.
//
// The captured subdirectories are returned sorted. Gating a target whose
// recurse set is already empty is a no-op and returns nil, which makes a
// second call with the same predicate harmless.
func GateRecurse(t *buildgraph.Target, when buildgraph.Predicate) ([]string, error) {
	if when == nil {
		return nil, bperrors.New(bperrors.ErrCodeInvalidConfig, "recursion gate for %q has no predicate", t.Name)
	}
	if t.Recurse.Len() == 0 {
		return nil, nil
	}

	captured := t.Recurse.Sorted()
	block := buildgraph.Branch(when, buildgraph.Patch{Recurse: buildgraph.NewStringSet(captured...)})
	if err := t.Attach(buildgraph.FieldRecurse, block); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInternal, err, "gate recursion of %q", t.Name)
	}
	t.Recurse.Clear()
	return captured, nil
}
