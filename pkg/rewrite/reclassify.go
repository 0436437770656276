package rewrite

import (
	"path"
	"strings"

	"github.com/matzehuels/buildport/pkg/buildgraph"
)

// Matcher decides whether a source path belongs to a compilation group.
type Matcher interface {
	Match(p string) bool
	String() string
}

// DirSegment matches paths with a directory component equal to the
// segment, e.g. DirSegment("avx2") matches "mlas/lib/avx2/sgemm.cpp".
// The file name itself is not a directory component.
type DirSegment string

func (d DirSegment) Match(p string) bool {
	dir := path.Dir(p)
	if dir == "." {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == string(d) {
			return true
		}
	}
	return false
}

func (d DirSegment) String() string { return "dir:" + string(d) }

// StemSuffix matches paths whose file name, without its extension, ends
// with the suffix, e.g. StemSuffix("_avx2") matches "qgemm_kernel_avx2.cpp".
type StemSuffix string

func (s StemSuffix) Match(p string) bool {
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return strings.HasSuffix(stem, string(s))
}

func (s StemSuffix) String() string { return "stem:*" + string(s) }

// NameSuffix matches paths whose file name ends with the suffix,
// extension included.
type NameSuffix string

func (s NameSuffix) Match(p string) bool { return strings.HasSuffix(path.Base(p), string(s)) }

func (s NameSuffix) String() string { return "name:*" + string(s) }

// AnyOf matches when any of its matchers does.
type AnyOf []Matcher

func (a AnyOf) Match(p string) bool {
	for _, m := range a {
		if m.Match(p) {
			return true
		}
	}
	return false
}

func (a AnyOf) String() string {
	parts := make([]string, len(a))
	for i, m := range a {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

// GroupRule routes matching sources into the named compilation group.
type GroupRule struct {
	Group string
	Match Matcher
}

// ExtensionGroup returns the group name for an instruction-set extension,
// e.g. "avx512" becomes "SRC_C_AVX512".
func ExtensionGroup(ext string) string {
	return "SRC_C_" + strings.ToUpper(ext)
}

// ExtensionRules builds one rule per instruction-set extension, in the
// given priority order. A source matches an extension when it lives under a
// directory named after it or its stem ends with "_<ext>".
func ExtensionRules(exts ...string) []GroupRule {
	rules := make([]GroupRule, 0, len(exts))
	for _, ext := range exts {
		rules = append(rules, GroupRule{
			Group: ExtensionGroup(ext),
			Match: AnyOf{DirSegment(ext), StemSuffix("_" + ext)},
		})
	}
	return rules
}

// Reclassify moves every source matching a rule out of t.Sources and into
// the first matching rule's group. Rules are evaluated in slice order;
// sources matching none stay where they are.
//
// Sources are visited in sorted order so the per-group lists are identical
// across runs. Groups are recorded on t in rule order and the moved paths
// are also returned, keyed by group. A GLOBAL source stays always-linked
// inside its group.
func Reclassify(t *buildgraph.Target, rules []GroupRule) map[string][]string {
	moved := make(map[string][]buildgraph.Source)
	for _, src := range t.Sources.Sorted() {
		for _, r := range rules {
			if r.Match != nil && r.Match.Match(src.Path) {
				moved[r.Group] = append(moved[r.Group], src)
				break
			}
		}
	}

	out := make(map[string][]string, len(moved))
	for _, r := range rules {
		srcs, ok := moved[r.Group]
		if !ok {
			continue
		}
		if _, done := out[r.Group]; done {
			continue
		}
		paths := make([]string, 0, len(srcs))
		for _, src := range srcs {
			paths = append(paths, src.Path)
		}
		t.Sources.Remove(paths...)
		t.AddSourcesToGroup(r.Group, srcs...)
		out[r.Group] = paths
	}
	return out
}
