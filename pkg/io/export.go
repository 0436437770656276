package io

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/observability"
)

type graph struct {
	Targets []target `json:"targets"`
}

type target struct {
	Name          string   `json:"name"`
	Sources       []string `json:"sources,omitempty"`
	GlobalSources []string `json:"global_sources,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
	IncludePaths  []string `json:"include_paths,omitempty"`
	Recurse       []string `json:"recurse,omitempty"`
	Includes      []string `json:"includes,omitempty"`
	LinkFlags     []string `json:"link_flags,omitempty"`
	Groups        []group  `json:"groups,omitempty"`
	Blocks        []block  `json:"blocks,omitempty"`
}

// group lists every member under sources; global_sources marks the
// always-linked subset without changing the recorded order.
type group struct {
	Name          string   `json:"name"`
	Sources       []string `json:"sources"`
	GlobalSources []string `json:"global_sources,omitempty"`
}

type block struct {
	Field string     `json:"field"`
	Cases []caseJSON `json:"cases"`
}

type caseJSON struct {
	When  string `json:"when"`
	Patch patch  `json:"patch"`
}

type patch struct {
	Sources       []string `json:"sources,omitempty"`
	GlobalSources []string `json:"global_sources,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
	IncludePaths  []string `json:"include_paths,omitempty"`
	Recurse       []string `json:"recurse,omitempty"`
	LinkFlags     []string `json:"link_flags,omitempty"`
}

// WriteJSON encodes a build graph as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *buildgraph.Graph, w io.Writer) error {
	out := graph{Targets: make([]target, 0, g.Len())}
	for _, t := range g.Targets() {
		out.Targets = append(out.Targets, encodeTarget(t))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "encode graph")
	}
	return nil
}

func encodeTarget(t *buildgraph.Target) target {
	plain, global := splitSources(t.Sources)
	out := target{
		Name:          t.Name,
		Sources:       plain,
		GlobalSources: global,
		Dependencies:  orNil(t.Dependencies),
		IncludePaths:  orNil(t.IncludePaths),
		Recurse:       orNil(t.Recurse),
		Includes:      orNil(t.Includes),
		LinkFlags:     orNil(t.LinkFlags),
	}
	for _, g := range t.Groups {
		out.Groups = append(out.Groups, group{Name: g.Name, Sources: g.Sources, GlobalSources: orNil(g.Global)})
	}
	for _, b := range t.Blocks {
		bj := block{Field: string(b.Field)}
		for _, c := range b.Cases {
			bj.Cases = append(bj.Cases, caseJSON{When: c.When.String(), Patch: encodePatch(c.Patch)})
		}
		out.Blocks = append(out.Blocks, bj)
	}
	return out
}

func encodePatch(p buildgraph.Patch) patch {
	plain, global := splitSources(p.Sources)
	return patch{
		Sources:       plain,
		GlobalSources: global,
		Dependencies:  orNil(p.Dependencies),
		IncludePaths:  orNil(p.IncludePaths),
		Recurse:       orNil(p.Recurse),
		LinkFlags:     orNil(p.LinkFlags),
	}
}

func splitSources(s buildgraph.SourceSet) (plain, global []string) {
	for _, src := range s.Sorted() {
		if src.Global {
			global = append(global, src.Path)
		} else {
			plain = append(plain, src.Path)
		}
	}
	return plain, global
}

func orNil(s buildgraph.StringSet) []string {
	if s.Len() == 0 {
		return nil
	}
	return s.Sorted()
}

// ExportJSON writes a build graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(ctx context.Context, g *buildgraph.Graph, path string) error {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write %s", path)
	}
	observability.IO().OnWrite(ctx, "graph", path, buf.Len())
	return nil
}

// WriteDeletions writes paths one per line.
func WriteDeletions(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := io.WriteString(w, p+"\n"); err != nil {
			return bperrors.Wrap(bperrors.ErrCodeIO, err, "write deletions")
		}
	}
	return nil
}

// ExportDeletions writes the deletion side channel to a file at path.
func ExportDeletions(ctx context.Context, paths []string, path string) error {
	var buf bytes.Buffer
	if err := WriteDeletions(&buf, paths); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write %s", path)
	}
	observability.IO().OnWrite(ctx, "deletions", path, buf.Len())
	return nil
}
