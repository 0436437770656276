package buildgraph

import "errors"

var (
	// ErrEmptyBlock is returned by [Target.Attach] when a block has no cases.
	ErrEmptyBlock = errors.New("conditional block has no cases")

	// ErrNilPredicate is returned by [Target.Attach] when a case has no predicate.
	ErrNilPredicate = errors.New("conditional case has no predicate")

	// ErrUnknownField is returned by [Target.Attach] for a field name the
	// model does not know.
	ErrUnknownField = errors.New("unknown target field")
)

// Patch is a partial target. Every non-nil field lists values to add when
// the enclosing predicate holds; a patch never replaces or removes values.
type Patch struct {
	Sources      SourceSet
	Dependencies StringSet
	IncludePaths StringSet
	Recurse      StringSet
	LinkFlags    StringSet
}

// Empty reports whether the patch adds nothing.
func (p Patch) Empty() bool {
	return p.Sources.Len() == 0 && p.Dependencies.Len() == 0 &&
		p.IncludePaths.Len() == 0 && p.Recurse.Len() == 0 && p.LinkFlags.Len() == 0
}

// Clone returns a deep copy of the patch, preserving nil fields.
func (p Patch) Clone() Patch {
	var out Patch
	if p.Sources != nil {
		out.Sources = p.Sources.Clone()
	}
	out.Dependencies = cloneOrNil(p.Dependencies)
	out.IncludePaths = cloneOrNil(p.IncludePaths)
	out.Recurse = cloneOrNil(p.Recurse)
	out.LinkFlags = cloneOrNil(p.LinkFlags)
	return out
}

func cloneOrNil(s StringSet) StringSet {
	if s == nil {
		return nil
	}
	return s.Clone()
}

// Case is one predicate and the patch applied when it holds.
type Case struct {
	When  Predicate
	Patch Patch
}

// Block is a deferred switch attached to a target field. Cases are not
// checked for mutual exclusivity; by convention at most one holds for a
// given platform.
type Block struct {
	Field Field
	Cases []Case
}

// Branch builds a single-case block. The field is set when the block is
// attached to a target.
func Branch(when Predicate, patch Patch) Block {
	return Block{Cases: []Case{{When: when, Patch: patch}}}
}

// Switch builds a block from several cases, rendered in order.
func Switch(cases ...Case) Block {
	return Block{Cases: cases}
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := Block{Field: b.Field, Cases: make([]Case, len(b.Cases))}
	for i, c := range b.Cases {
		out.Cases[i] = Case{When: c.When, Patch: c.Patch.Clone()}
	}
	return out
}

func (b Block) validate() error {
	if len(b.Cases) == 0 {
		return ErrEmptyBlock
	}
	for _, c := range b.Cases {
		if c.When == nil {
			return ErrNilPredicate
		}
	}
	return nil
}
