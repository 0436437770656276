package recipe

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Predicate is the recipe form of a [buildgraph.Predicate]. A bare string
// is an opaque expression; an object sets exactly one of its fields.
type Predicate struct {
	Flag    string       `json:"flag,omitempty"`
	Version *VersionSpec `json:"version,omitempty"`
	All     []Predicate  `json:"all,omitempty"`
	Any     []Predicate  `json:"any,omitempty"`
	Not     *Predicate   `json:"not,omitempty"`
	Expr    string       `json:"expr,omitempty"`
}

// VersionSpec is a "Var VERSION_GE AtLeast" comparison.
type VersionSpec struct {
	Var     string `json:"var"`
	AtLeast string `json:"at_least"`
}

func (p *Predicate) UnmarshalJSON(bs []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(bs), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(bs, &s); err != nil {
			return err
		}
		*p = Predicate{Expr: s}
		return nil
	}
	type rawPredicate Predicate // avoid recursing into UnmarshalJSON
	var raw rawPredicate
	if err := json.Unmarshal(bs, &raw); err != nil {
		return err
	}
	*p = Predicate(raw)
	return nil
}

// Build converts the recipe form into a graph predicate.
func (p Predicate) Build() (buildgraph.Predicate, error) {
	switch {
	case p.Flag != "":
		return buildgraph.Flag(p.Flag), nil
	case p.Version != nil:
		return buildgraph.VersionAtLeast{Var: p.Version.Var, Version: p.Version.AtLeast}, nil
	case len(p.All) > 0:
		ps, err := buildAll(p.All)
		if err != nil {
			return nil, err
		}
		return buildgraph.All(ps), nil
	case len(p.Any) > 0:
		ps, err := buildAll(p.Any)
		if err != nil {
			return nil, err
		}
		return buildgraph.Any(ps), nil
	case p.Not != nil:
		inner, err := p.Not.Build()
		if err != nil {
			return nil, err
		}
		return buildgraph.Not{P: inner}, nil
	case p.Expr != "":
		return buildgraph.Expr(p.Expr), nil
	}
	return nil, bperrors.New(bperrors.ErrCodeInvalidConfig, "empty predicate")
}

func buildAll(ps []Predicate) ([]buildgraph.Predicate, error) {
	out := make([]buildgraph.Predicate, 0, len(ps))
	for _, p := range ps {
		b, err := p.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
