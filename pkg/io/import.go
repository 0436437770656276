package io

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/observability"
)

// ReadJSON decodes a JSON build graph from r.
//
// ReadJSON returns an INVALID_GRAPH error if:
//   - The JSON is malformed or has unknown fields
//   - Two targets share a name, or a name is empty
//   - A group marks a global source that is not one of its members
//   - A block names an unknown field or has no cases
//   - A source path is absolute or escapes the tree
//
// The returned graph is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*buildgraph.Graph, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var data graph
	if err := dec.Decode(&data); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "decode graph")
	}

	g := buildgraph.New()
	for _, tj := range data.Targets {
		t, err := decodeTarget(tj)
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "target %q", tj.Name)
		}
		if err := g.Add(t); err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "target %q", tj.Name)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeTarget(tj target) (*buildgraph.Target, error) {
	t := buildgraph.NewTarget(tj.Name)
	t.Sources.Add(tj.Sources...)
	for _, p := range tj.GlobalSources {
		t.Sources.Insert(buildgraph.Source{Path: p, Global: true})
	}
	t.Dependencies.Add(tj.Dependencies...)
	t.IncludePaths.Add(tj.IncludePaths...)
	t.Recurse.Add(tj.Recurse...)
	t.Includes.Add(tj.Includes...)
	t.LinkFlags.Add(tj.LinkFlags...)
	for _, gj := range tj.Groups {
		t.AddToGroup(gj.Name, gj.Sources...)
		for _, p := range gj.GlobalSources {
			if !slices.Contains(gj.Sources, p) {
				return nil, bperrors.New(bperrors.ErrCodeInvalidGraph,
					"global source %q is not a member of group %q", p, gj.Name)
			}
			t.AddSourcesToGroup(gj.Name, buildgraph.Source{Path: p, Global: true})
		}
	}

	for _, bj := range tj.Blocks {
		field, err := buildgraph.ParseField(bj.Field)
		if err != nil {
			return nil, err
		}
		b := buildgraph.Block{}
		for _, cj := range bj.Cases {
			if cj.When == "" {
				return nil, buildgraph.ErrNilPredicate
			}
			b.Cases = append(b.Cases, buildgraph.Case{When: buildgraph.Expr(cj.When), Patch: decodePatch(cj.Patch)})
		}
		if err := t.Attach(field, b); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodePatch(pj patch) buildgraph.Patch {
	p := buildgraph.Patch{}
	if len(pj.Sources)+len(pj.GlobalSources) > 0 {
		p.Sources = buildgraph.NewSourceSet(pj.Sources...)
		for _, s := range pj.GlobalSources {
			p.Sources.Insert(buildgraph.Source{Path: s, Global: true})
		}
	}
	p.Dependencies = setOrNil(pj.Dependencies)
	p.IncludePaths = setOrNil(pj.IncludePaths)
	p.Recurse = setOrNil(pj.Recurse)
	p.LinkFlags = setOrNil(pj.LinkFlags)
	return p
}

func setOrNil(vals []string) buildgraph.StringSet {
	if len(vals) == 0 {
		return nil
	}
	return buildgraph.NewStringSet(vals...)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
//
// A missing file is NOT_FOUND and an unreadable one IO_ERROR. Decoding
// failures are the same INVALID_GRAPH errors [ReadJSON] returns.
func ImportJSON(ctx context.Context, path string) (*buildgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, bperrors.Wrap(bperrors.ErrCodeNotFound, err, "graph %s", path)
		}
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "read %s", path)
	}
	observability.IO().OnRead(ctx, "graph", path, len(data))

	g, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, bperrors.Wrap(bperrors.GetCode(err), err, "%s", path)
	}
	return g, nil
}
