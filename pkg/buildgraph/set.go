package buildgraph

import (
	"maps"
	"slices"
)

// StringSet is an unordered set of strings.
//
// A nil StringSet reads as empty but must be created with [NewStringSet]
// before adding elements. All mutating methods operate in place.
type StringSet map[string]struct{}

// NewStringSet returns a set holding vals.
func NewStringSet(vals ...string) StringSet {
	s := make(StringSet, len(vals))
	s.Add(vals...)
	return s
}

// Add inserts vals and returns how many were not already present.
func (s StringSet) Add(vals ...string) int {
	n := 0
	for _, v := range vals {
		if _, ok := s[v]; !ok {
			s[v] = struct{}{}
			n++
		}
	}
	return n
}

// Remove deletes vals and returns how many were present.
func (s StringSet) Remove(vals ...string) int {
	n := 0
	for _, v := range vals {
		if _, ok := s[v]; ok {
			delete(s, v)
			n++
		}
	}
	return n
}

// RemoveFunc deletes every element for which del returns true and
// returns the removed elements in sorted order.
func (s StringSet) RemoveFunc(del func(string) bool) []string {
	var removed []string
	for v := range s {
		if del(v) {
			removed = append(removed, v)
		}
	}
	for _, v := range removed {
		delete(s, v)
	}
	slices.Sort(removed)
	return removed
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of elements.
func (s StringSet) Len() int { return len(s) }

// Union adds every element of o to s.
func (s StringSet) Union(o StringSet) {
	for v := range o {
		s[v] = struct{}{}
	}
}

// Difference removes every element of o from s.
func (s StringSet) Difference(o StringSet) {
	for v := range o {
		delete(s, v)
	}
}

// Clear removes all elements.
func (s StringSet) Clear() { clear(s) }

// Sorted returns the elements in ascending order.
// The result is a fresh slice; it is never nil.
func (s StringSet) Sorted() []string {
	out := slices.Sorted(maps.Keys(s))
	if out == nil {
		return []string{}
	}
	return out
}

// Clone returns an independent copy of the set. Cloning a nil set
// yields an empty, usable set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	maps.Copy(out, s)
	return out
}

// Equal reports whether both sets hold the same elements.
func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if _, ok := o[v]; !ok {
			return false
		}
	}
	return true
}
