package rewrite

import (
	"errors"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Ignore removes the named targets and every dependency edge on them.
// It returns the names that were removed and the names that matched no
// target, both in input order.
func Ignore(g *buildgraph.Graph, names []string) (removed, missing []string) {
	for _, name := range names {
		if g.Remove(name) {
			removed = append(removed, name)
		} else {
			missing = append(missing, name)
		}
	}
	return removed, missing
}

// Relocate renames a target to its output directory and rewrites every
// dependency reference to it. Relocating onto an existing target is an
// INVARIANT_VIOLATION; a missing source target is NOT_FOUND.
func Relocate(g *buildgraph.Graph, name, dir string) error {
	err := g.Rename(name, dir)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, buildgraph.ErrDuplicateTarget):
		return bperrors.Wrap(bperrors.ErrCodeInvariantViolation, err, "relocate %q to %q", name, dir)
	case errors.Is(err, buildgraph.ErrInvalidTargetName):
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "relocate %q", name)
	}
	return err
}
