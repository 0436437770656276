package buildgraph

import "strings"

// Predicate is a deferred boolean expression over platform and feature
// identifiers. Predicates are rendered with String for the downstream build
// system and are never evaluated by buildport.
type Predicate interface {
	String() string
	predicate()
}

// Flag is true when the named platform or capability variable is set,
// for example "OS_DARWIN" or "HAVE_CUDA".
type Flag string

// VersionAtLeast compares a version variable against a minimum version.
type VersionAtLeast struct {
	Var     string
	Version string
}

// All is the conjunction of its operands.
type All []Predicate

// Any is the disjunction of its operands.
type Any []Predicate

// Not negates its operand.
type Not struct{ P Predicate }

// Expr is a predicate already written in downstream syntax. Decoders use it
// for expressions they carry through without interpreting.
type Expr string

func (Flag) predicate()           {}
func (VersionAtLeast) predicate() {}
func (All) predicate()            {}
func (Any) predicate()            {}
func (Not) predicate()            {}
func (Expr) predicate()           {}

func (f Flag) String() string { return string(f) }

func (v VersionAtLeast) String() string {
	return v.Var + " VERSION_GE " + v.Version
}

func (a All) String() string { return join(a, " AND ") }

func (a Any) String() string { return join(a, " OR ") }

func (n Not) String() string {
	if n.P == nil {
		return "NOT ()"
	}
	return "NOT " + operand(n.P)
}

func (e Expr) String() string { return string(e) }

func join(ps []Predicate, sep string) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			continue
		}
		if len(ps) == 1 {
			parts = append(parts, p.String())
			continue
		}
		parts = append(parts, operand(p))
	}
	return strings.Join(parts, sep)
}

// operand parenthesizes compound predicates nested inside another operator.
func operand(p Predicate) string {
	switch v := p.(type) {
	case All:
		if len(v) > 1 {
			return "(" + v.String() + ")"
		}
	case Any:
		if len(v) > 1 {
			return "(" + v.String() + ")"
		}
	case Expr:
		if strings.Contains(string(v), " ") && !strings.HasPrefix(string(v), "(") {
			return "(" + string(v) + ")"
		}
	}
	return p.String()
}
