package rewrite

import (
	"path"
	"strings"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// UnbundleRule maps a vendored library to its externally maintained build.
type UnbundleRule struct {
	// Internal is the dependency reference of the vendored copy.
	Internal string
	// External is the canonical reference of the external build.
	External string
	// Prefix is the vendored copy's directory. Include paths equal to it or
	// nested under it are stripped. Empty strips nothing.
	Prefix string
}

func (r UnbundleRule) validate() error {
	if r.Internal == "" || r.External == "" {
		return bperrors.New(bperrors.ErrCodeInvalidConfig,
			"unbundle rule needs both an internal and an external reference (got %q -> %q)", r.Internal, r.External)
	}
	return nil
}

// UnbundleResult describes what [Unbundle] changed.
type UnbundleResult struct {
	// StrippedIncludes are the include paths removed, sorted.
	StrippedIncludes []string
}

// Unbundle rewrites t's dependency on a vendored library to its external
// build: the internal reference is removed, the external one added, and
// include paths into the vendored copy are stripped. References inside
// attached conditional patches are rewritten as well.
//
// If neither t nor its patches reference rule.Internal, t is left unchanged and an
// UNUSED_RULE error is returned: unbundling tables are shared across many
// import runs and not every project uses every library. The error message
// says whether include paths under the prefix were still present, which
// usually means the library is vendored under a different internal name.
// Applying the same rule twice therefore changes t only once.
func Unbundle(t *buildgraph.Target, rule UnbundleRule) (UnbundleResult, error) {
	if err := rule.validate(); err != nil {
		return UnbundleResult{}, err
	}

	if t.ReplaceDependency(rule.Internal, rule.External) == 0 {
		return UnbundleResult{}, unusedUnbundle(t, rule.Internal, rule.Prefix)
	}
	return UnbundleResult{StrippedIncludes: stripIncludes(t, rule.Prefix)}, nil
}

func unusedUnbundle(t *buildgraph.Target, internal, prefix string) error {
	if prefix != "" && hasIncludeUnder(t, prefix) {
		return bperrors.New(bperrors.ErrCodeUnusedRule,
			"target %q does not depend on %q but has include paths under %q; the library may be vendored under another name",
			t.Name, internal, prefix)
	}
	return bperrors.New(bperrors.ErrCodeUnusedRule, "target %q does not depend on %q", t.Name, internal)
}

func stripIncludes(t *buildgraph.Target, prefix string) []string {
	if prefix == "" {
		return nil
	}
	return t.IncludePaths.RemoveFunc(func(p string) bool { return underPrefix(p, prefix) })
}

func hasIncludeUnder(t *buildgraph.Target, prefix string) bool {
	for p := range t.IncludePaths {
		if underPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// underPrefix reports whether p equals prefix or is nested under it,
// comparing whole path segments.
func underPrefix(p, prefix string) bool {
	p, prefix = path.Clean(p), path.Clean(prefix)
	if p == prefix {
		return true
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(p, prefix)
}
