package buildgraph

import (
	"errors"
	"maps"
	"slices"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

var (
	// ErrInvalidTargetName is returned by [Graph.Add] and [Graph.Rename]
	// when the target name is empty.
	ErrInvalidTargetName = errors.New("target name must not be empty")

	// ErrDuplicateTarget is returned by [Graph.Add] and [Graph.Rename] when a
	// target with the same name already exists.
	ErrDuplicateTarget = errors.New("duplicate target")

	// ErrTargetNotFound is wrapped by the NOT_FOUND errors returned from
	// [Graph.Get] and [Graph.Rename].
	ErrTargetNotFound = errors.New("target not found")
)

// Graph maps target names to targets.
//
// The zero value is not usable - use New to create a graph.
// Graph is not safe for concurrent use; it has a single owner at a time.
type Graph struct {
	targets map[string]*Target
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{targets: make(map[string]*Target)}
}

// Add inserts t. Returns ErrInvalidTargetName for an empty name and
// ErrDuplicateTarget if the name is taken.
func (g *Graph) Add(t *Target) error {
	if t.Name == "" {
		return ErrInvalidTargetName
	}
	if _, exists := g.targets[t.Name]; exists {
		return ErrDuplicateTarget
	}
	g.targets[t.Name] = t
	return nil
}

// Ensure returns the named target, creating an empty one if it is absent.
func (g *Graph) Ensure(name string) (*Target, error) {
	if t, ok := g.targets[name]; ok {
		return t, nil
	}
	t := NewTarget(name)
	if err := g.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the named target. A missing target yields a NOT_FOUND error
// wrapping ErrTargetNotFound.
func (g *Graph) Get(name string) (*Target, error) {
	t, ok := g.targets[name]
	if !ok {
		return nil, bperrors.Wrap(bperrors.ErrCodeNotFound, ErrTargetNotFound, "target %q", name)
	}
	return t, nil
}

// Lookup returns the named target and whether it exists.
func (g *Graph) Lookup(name string) (*Target, bool) {
	t, ok := g.targets[name]
	return t, ok
}

// Remove deletes the named target and every dependency reference to it,
// including references inside conditional patches. It reports whether the
// target existed.
func (g *Graph) Remove(name string) bool {
	if _, ok := g.targets[name]; !ok {
		return false
	}
	delete(g.targets, name)
	for _, t := range g.targets {
		t.dropDependency(name)
	}
	return true
}

// Rename changes a target's name and rewrites every dependency reference
// to it. This is an O(T) operation over all targets.
func (g *Graph) Rename(oldName, newName string) error {
	if newName == "" {
		return ErrInvalidTargetName
	}
	t, ok := g.targets[oldName]
	if !ok {
		return bperrors.Wrap(bperrors.ErrCodeNotFound, ErrTargetNotFound, "target %q", oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := g.targets[newName]; exists {
		return ErrDuplicateTarget
	}

	delete(g.targets, oldName)
	t.Name = newName
	g.targets[newName] = t

	for _, other := range g.targets {
		other.ReplaceDependency(oldName, newName)
	}
	return nil
}

// Names returns all target names in ascending order.
func (g *Graph) Names() []string {
	return slices.Sorted(maps.Keys(g.targets))
}

// Targets returns all targets ordered by name. The pointers refer to the
// live targets, so modifications affect the graph.
func (g *Graph) Targets() []*Target {
	out := make([]*Target, 0, len(g.targets))
	for _, name := range g.Names() {
		out = append(out, g.targets[name])
	}
	return out
}

// Len returns the number of targets.
func (g *Graph) Len() int { return len(g.targets) }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := New()
	for name, t := range g.targets {
		out.targets[name] = t.Clone()
	}
	return out
}

// Validate checks that every target name and source path is well formed.
// It returns an INVALID_GRAPH or INVALID_PATH error for the first problem,
// visiting targets in name order.
func (g *Graph) Validate() error {
	for _, t := range g.Targets() {
		if err := bperrors.ValidateTargetName(t.Name); err != nil {
			return err
		}
		for _, p := range t.Sources.Paths() {
			if err := bperrors.ValidatePath(p); err != nil {
				return bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "target %q", t.Name)
			}
		}
		for _, dep := range t.Dependencies.Sorted() {
			if dep == "" {
				return bperrors.New(bperrors.ErrCodeInvalidGraph, "target %q has an empty dependency", t.Name)
			}
		}
	}
	return nil
}

// Absorb folds member into host and deletes member. Targets that depended
// on member depend on host instead, and host never depends on itself.
func (g *Graph) Absorb(host, member string) error {
	h, ok := g.targets[host]
	if !ok {
		return bperrors.Wrap(bperrors.ErrCodeNotFound, ErrTargetNotFound, "target %q", host)
	}
	m, ok := g.targets[member]
	if !ok {
		return bperrors.Wrap(bperrors.ErrCodeNotFound, ErrTargetNotFound, "target %q", member)
	}
	if host == member {
		return nil
	}

	h.Merge(m)
	delete(g.targets, member)
	for _, t := range g.targets {
		t.ReplaceDependency(member, host)
	}
	h.Dependencies.Remove(host)
	return nil
}
