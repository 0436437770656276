package rewrite

import (
	"slices"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// ResolveDuplicate replaces a proxy source with a curated set of smaller
// sources.
//
// The proxy re-exports the same API surface on both sides of a link
// boundary, so statically linking both copies fails with duplicate
// definitions. The replacements are hand-curated extracts of the proxy and
// cannot be re-derived automatically; ResolveDuplicate returns them sorted
// so the caller can protect them from being overwritten by the next
// re-import of the vendored tree.
//
// It fails with INVARIANT_VIOLATION if proxy is not in t.Sources or is
// listed among the replacements, and with INVALID_PATH if a replacement is
// malformed. On failure t is unchanged.
func ResolveDuplicate(t *buildgraph.Target, proxy string, replacements []string) ([]string, error) {
	if !t.Sources.Has(proxy) {
		return nil, bperrors.New(bperrors.ErrCodeInvariantViolation,
			"proxy source %q is not in target %q", proxy, t.Name)
	}
	if len(replacements) == 0 {
		return nil, bperrors.New(bperrors.ErrCodeInvariantViolation,
			"proxy source %q in target %q has no replacements", proxy, t.Name)
	}
	if slices.Contains(replacements, proxy) {
		return nil, bperrors.New(bperrors.ErrCodeInvariantViolation,
			"proxy source %q cannot replace itself", proxy)
	}
	if err := bperrors.ValidatePaths(replacements); err != nil {
		return nil, err
	}

	t.Sources.Remove(proxy)
	t.Sources.Add(replacements...)

	protected := slices.Clone(replacements)
	slices.Sort(protected)
	return slices.Compact(protected), nil
}
