package buildgraph

import (
	"maps"
	"slices"
)

// Source is a member of a target's source set.
//
// Global marks the source as always-linked: its object file is exempt from
// dead-code and duplicate elimination at static-link time, so weak symbols
// defined in it can override default definitions elsewhere.
type Source struct {
	Path   string
	Global bool
}

// String renders the source the way the downstream syntax spells it.
func (s Source) String() string {
	if s.Global {
		return "GLOBAL " + s.Path
	}
	return s.Path
}

// SourceSet is a set of sources keyed by path. A path appears at most once
// regardless of its Global attribute.
type SourceSet map[string]Source

// NewSourceSet returns a set of plain sources for paths.
func NewSourceSet(paths ...string) SourceSet {
	s := make(SourceSet, len(paths))
	s.Add(paths...)
	return s
}

// Add inserts plain sources for paths and returns how many were new.
// A path that is already present keeps its current attributes.
func (s SourceSet) Add(paths ...string) int {
	n := 0
	for _, p := range paths {
		if s.Insert(Source{Path: p}) {
			n++
		}
	}
	return n
}

// Insert adds src unless its path is already present.
func (s SourceSet) Insert(src Source) bool {
	if _, ok := s[src.Path]; ok {
		return false
	}
	s[src.Path] = src
	return true
}

// Remove deletes paths and returns how many were present.
func (s SourceSet) Remove(paths ...string) int {
	n := 0
	for _, p := range paths {
		if _, ok := s[p]; ok {
			delete(s, p)
			n++
		}
	}
	return n
}

// Has reports whether path is in the set.
func (s SourceSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Get returns the source stored for path.
func (s SourceSet) Get(path string) (Source, bool) {
	src, ok := s[path]
	return src, ok
}

// Len returns the number of sources.
func (s SourceSet) Len() int { return len(s) }

// Union adds every source of o whose path is not yet present.
func (s SourceSet) Union(o SourceSet) {
	for _, src := range o {
		s.Insert(src)
	}
}

// Difference removes every source whose path is in o.
func (s SourceSet) Difference(o SourceSet) {
	for p := range o {
		delete(s, p)
	}
}

// Paths returns all paths in ascending order.
func (s SourceSet) Paths() []string {
	out := slices.Sorted(maps.Keys(s))
	if out == nil {
		return []string{}
	}
	return out
}

// Sorted returns all sources ordered by path.
func (s SourceSet) Sorted() []Source {
	out := make([]Source, 0, len(s))
	for _, p := range s.Paths() {
		out = append(out, s[p])
	}
	return out
}

// Clone returns an independent copy of the set.
func (s SourceSet) Clone() SourceSet {
	out := make(SourceSet, len(s))
	maps.Copy(out, s)
	return out
}
