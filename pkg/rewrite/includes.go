package rewrite

import (
	"github.com/gobwas/glob"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// IncludePattern is a compiled disabled-include pattern. "*" matches within
// one path segment and "**" across segments.
type IncludePattern struct {
	Pattern string
	glob    glob.Glob
}

// Match reports whether the include path matches the pattern.
func (p IncludePattern) Match(include string) bool { return p.glob.Match(include) }

// CompileIncludePatterns compiles disabled-include patterns. A malformed
// pattern is an INVALID_CONFIG error.
func CompileIncludePatterns(patterns []string) ([]IncludePattern, error) {
	out := make([]IncludePattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "disabled include %q", p)
		}
		out = append(out, IncludePattern{Pattern: p, glob: g})
	}
	return out, nil
}

// DisableIncludes removes every scanned include matching a pattern from
// every target. It returns how many includes each pattern removed; a
// pattern with a zero count matched nothing.
//
// An include is credited to the first pattern that matches it.
func DisableIncludes(g *buildgraph.Graph, patterns []IncludePattern) map[string]int {
	hits := make(map[string]int, len(patterns))
	for _, p := range patterns {
		hits[p.Pattern] = 0
	}
	for _, t := range g.Targets() {
		t.Includes.RemoveFunc(func(inc string) bool {
			for _, p := range patterns {
				if p.Match(inc) {
					hits[p.Pattern]++
					return true
				}
			}
			return false
		})
	}
	return hits
}
