package rewrite

import (
	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// RemoveSource drops p from t.Sources. It fails with INVARIANT_VIOLATION
// if p is absent. Whether the file should also disappear from disk is the
// caller's decision; see [SourceRemoval].
func RemoveSource(t *buildgraph.Target, p string) error {
	if t.Sources.Remove(p) == 0 {
		return bperrors.New(bperrors.ErrCodeInvariantViolation, "source %q is not in target %q", p, t.Name)
	}
	return nil
}

// AttachBranch attaches a single-case block to t after field. The patch's
// sources must be valid relative paths.
func AttachBranch(t *buildgraph.Target, field buildgraph.Field, when buildgraph.Predicate, patch buildgraph.Patch) error {
	if err := bperrors.ValidatePaths(patch.Sources.Paths()); err != nil {
		return err
	}
	if patch.Empty() {
		return bperrors.New(bperrors.ErrCodeInvalidConfig, "branch on %q for target %q adds nothing", when, t.Name)
	}
	if err := t.Attach(field, buildgraph.Branch(when, patch)); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "attach branch to %q", t.Name)
	}
	return nil
}
