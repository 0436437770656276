package buildgraph

import (
	"fmt"
	"slices"
)

// Field names a target field that conditional blocks can be attached after.
type Field string

const (
	FieldSources      Field = "sources"
	FieldDependencies Field = "dependencies"
	FieldIncludePaths Field = "include_paths"
	FieldRecurse      Field = "recurse"
	FieldLinkFlags    Field = "link_flags"
)

var knownFields = []Field{FieldSources, FieldDependencies, FieldIncludePaths, FieldRecurse, FieldLinkFlags}

// ParseField converts a field name into a [Field].
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !slices.Contains(knownFields, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Group is a dedicated compilation list split out of a target's sources,
// such as the files compiled with AVX2 flags. Sources keep the order in
// which they were recorded. Global holds the members that are always
// linked; it is a subset of Sources.
type Group struct {
	Name    string
	Sources []string
	Global  StringSet
}

// Members returns the group's sources with their GLOBAL attribute, in
// recorded order.
func (g Group) Members() []Source {
	out := make([]Source, 0, len(g.Sources))
	for _, p := range g.Sources {
		out = append(out, Source{Path: p, Global: g.Global.Has(p)})
	}
	return out
}

// Target is a named node of the build graph.
//
// The zero value is not usable; create targets with [NewTarget] so that
// every set is initialized.
type Target struct {
	Name string

	Sources      SourceSet
	Dependencies StringSet // opaque library references
	IncludePaths StringSet
	Recurse      StringSet // subdirectories built recursively

	// Includes lists headers the producer found referenced by the sources.
	Includes StringSet
	// LinkFlags are extra linker words (EXTRALIBS in the downstream syntax).
	LinkFlags StringSet

	// Groups are side outputs of source reclassification, in creation order.
	Groups []Group
	// Blocks are deferred conditional branches, in attachment order.
	Blocks []Block
}

// NewTarget creates an empty target with all sets initialized.
func NewTarget(name string) *Target {
	return &Target{
		Name:         name,
		Sources:      SourceSet{},
		Dependencies: StringSet{},
		IncludePaths: StringSet{},
		Recurse:      StringSet{},
		Includes:     StringSet{},
		LinkFlags:    StringSet{},
	}
}

// Attach appends b to the target's conditional blocks, anchored after field.
// Blocks compose in attachment order; the last attached is emitted last.
func (t *Target) Attach(field Field, b Block) error {
	if !slices.Contains(knownFields, field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err := b.validate(); err != nil {
		return err
	}
	b = b.Clone()
	b.Field = field
	t.Blocks = append(t.Blocks, b)
	return nil
}

// Group returns the sources recorded under the named group, or nil.
func (t *Target) Group(name string) []string {
	for _, g := range t.Groups {
		if g.Name == name {
			return g.Sources
		}
	}
	return nil
}

// AddToGroup appends paths to the named group, creating it if needed.
// Paths already recorded in that group are skipped. It returns how many
// paths were appended.
func (t *Target) AddToGroup(name string, paths ...string) int {
	srcs := make([]Source, 0, len(paths))
	for _, p := range paths {
		srcs = append(srcs, Source{Path: p})
	}
	return t.AddSourcesToGroup(name, srcs...)
}

// AddSourcesToGroup is [Target.AddToGroup] for sources that may carry the
// GLOBAL attribute. A GLOBAL source already in the group as a plain path is
// upgraded in place.
func (t *Target) AddSourcesToGroup(name string, srcs ...Source) int {
	i := slices.IndexFunc(t.Groups, func(g Group) bool { return g.Name == name })
	if i < 0 {
		t.Groups = append(t.Groups, Group{Name: name, Global: StringSet{}})
		i = len(t.Groups) - 1
	}
	g := &t.Groups[i]
	if g.Global == nil {
		g.Global = StringSet{}
	}
	n := 0
	for _, src := range srcs {
		if !slices.Contains(g.Sources, src.Path) {
			g.Sources = append(g.Sources, src.Path)
			n++
		}
		if src.Global {
			g.Global.Add(src.Path)
		}
	}
	return n
}

// Merge folds o into t: every set is unioned, groups are appended per name
// and blocks are appended after t's own.
func (t *Target) Merge(o *Target) {
	t.Sources.Union(o.Sources)
	t.Dependencies.Union(o.Dependencies)
	t.IncludePaths.Union(o.IncludePaths)
	t.Recurse.Union(o.Recurse)
	t.Includes.Union(o.Includes)
	t.LinkFlags.Union(o.LinkFlags)
	for _, g := range o.Groups {
		t.AddSourcesToGroup(g.Name, g.Members()...)
	}
	for _, b := range o.Blocks {
		t.Blocks = append(t.Blocks, b.Clone())
	}
}

// Clone returns a deep copy of the target.
func (t *Target) Clone() *Target {
	out := &Target{
		Name:         t.Name,
		Sources:      t.Sources.Clone(),
		Dependencies: t.Dependencies.Clone(),
		IncludePaths: t.IncludePaths.Clone(),
		Recurse:      t.Recurse.Clone(),
		Includes:     t.Includes.Clone(),
		LinkFlags:    t.LinkFlags.Clone(),
	}
	for _, g := range t.Groups {
		out.Groups = append(out.Groups, Group{Name: g.Name, Sources: slices.Clone(g.Sources), Global: g.Global.Clone()})
	}
	for _, b := range t.Blocks {
		out.Blocks = append(out.Blocks, b.Clone())
	}
	return out
}

// ReplaceDependency rewrites references to old inside t into references to
// new, including the dependency lists of attached patches. It returns how
// many lists held old.
func (t *Target) ReplaceDependency(old, new string) int {
	n := 0
	if t.Dependencies.Remove(old) > 0 {
		t.Dependencies.Add(new)
		n++
	}
	for _, b := range t.Blocks {
		for _, c := range b.Cases {
			if c.Patch.Dependencies.Remove(old) > 0 {
				c.Patch.Dependencies.Add(new)
				n++
			}
		}
	}
	return n
}

// dropDependency removes every reference to name from t and its patches.
func (t *Target) dropDependency(name string) {
	t.Dependencies.Remove(name)
	for _, b := range t.Blocks {
		for _, c := range b.Cases {
			c.Patch.Dependencies.Remove(name)
		}
	}
}
