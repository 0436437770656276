package recipe

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

// Format is a recipe file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension. Unknown extensions
// are read as YAML.
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Recipe is the decoded form of an import recipe.
type Recipe struct {
	Project string `json:"project"`
	// Arcdir is the project's directory in the destination tree. Unbundle
	// prefixes and "{arcdir}" placeholders are resolved against it.
	Arcdir string `json:"arcdir,omitempty"`

	IgnoreTargets   []string            `json:"ignore_targets,omitempty"`
	KeepPaths       []string            `json:"keep_paths,omitempty"`
	DisableIncludes []string            `json:"disable_includes,omitempty"`
	Put             map[string]string   `json:"put,omitempty"`
	PutWith         map[string][]string `json:"put_with,omitempty"`

	Unbundle   map[string]UnbundleEntry `json:"unbundle,omitempty"`
	Components []ComponentEntry         `json:"components,omitempty"`

	Steps []Step `json:"steps,omitempty"`
}

// UnbundleEntry maps one vendored library, keyed by its internal
// dependency reference, to its external build.
type UnbundleEntry struct {
	External string   `json:"external"`
	Prefix   string   `json:"prefix,omitempty"`
	Targets  []string `json:"targets,omitempty"`
}

// ComponentEntry describes a multi-component library to unbundle.
type ComponentEntry struct {
	Library    string          `json:"library"`
	Prefix     string          `json:"prefix,omitempty"`
	Targets    []string        `json:"targets,omitempty"`
	Components []ComponentSpec `json:"components"`
}

// ComponentSpec is one component of a [ComponentEntry].
type ComponentSpec struct {
	Name     string   `json:"name"`
	External string   `json:"external"`
	Sources  []string `json:"sources,omitempty"`
}

// Step is one post-install rewrite. Exactly one action field is set.
type Step struct {
	Target string `json:"target"`

	Reclassify       *ReclassifyStep `json:"reclassify,omitempty"`
	ResolveDuplicate *DuplicateStep  `json:"resolve_duplicate,omitempty"`
	AlwaysLink       string          `json:"always_link,omitempty"`
	RemoveSource     *RemoveStep     `json:"remove_source,omitempty"`
	FixDependencies  *FixStep        `json:"fix_dependencies,omitempty"`
	Branch           *BranchStep     `json:"branch,omitempty"`
	GateRecurse      *Predicate      `json:"gate_recurse,omitempty"`
}

// ReclassifyStep lists extension shorthands and explicit groups.
// Extensions are evaluated before groups.
type ReclassifyStep struct {
	Extensions []string    `json:"extensions,omitempty"`
	Groups     []GroupSpec `json:"groups,omitempty"`
}

// GroupSpec routes sources into Group when any matcher applies.
type GroupSpec struct {
	Group string   `json:"group"`
	Dirs  []string `json:"dirs,omitempty"`
	Stems []string `json:"stems,omitempty"`
	Names []string `json:"names,omitempty"`
}

type DuplicateStep struct {
	Proxy        string   `json:"proxy"`
	Replacements []string `json:"replacements"`
}

type RemoveStep struct {
	Path   string `json:"path"`
	Delete bool   `json:"delete,omitempty"`
}

type FixStep struct {
	AddDependencies    []string `json:"add_dependencies,omitempty"`
	RemoveDependencies []string `json:"remove_dependencies,omitempty"`
	AddIncludePaths    []string `json:"add_include_paths,omitempty"`
	RemoveIncludePaths []string `json:"remove_include_paths,omitempty"`
}

// BranchStep attaches a conditional patch after Field (default "sources").
type BranchStep struct {
	Field         string    `json:"field,omitempty"`
	When          Predicate `json:"when"`
	Sources       []string  `json:"sources,omitempty"`
	GlobalSources []string  `json:"global_sources,omitempty"`
	Dependencies  []string  `json:"dependencies,omitempty"`
	IncludePaths  []string  `json:"include_paths,omitempty"`
	Recurse       []string  `json:"recurse,omitempty"`
	LinkFlags     []string  `json:"link_flags,omitempty"`
}

// Load reads and validates a recipe file.
func Load(p string) (*Recipe, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "read recipe %s", p)
	}
	r, err := Parse(data, FormatFromPath(p))
	if err != nil {
		return nil, bperrors.Wrap(bperrors.GetCode(err), err, "recipe %s", p)
	}
	return r, nil
}

// Parse decodes and validates a recipe.
func Parse(data []byte, format Format) (*Recipe, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var r Recipe
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "decode recipe")
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		doc, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "parse YAML recipe")
		}
		return doc, nil
	case FormatTOML:
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "parse TOML recipe")
		}
		doc, err := json.Marshal(raw)
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInternal, err, "convert TOML recipe")
		}
		return doc, nil
	}
	return nil, bperrors.New(bperrors.ErrCodeInvalidConfig, "unknown recipe format %q", format)
}

// check enforces what the schema cannot express.
func (r *Recipe) check() error {
	if r.Arcdir != "" {
		if err := bperrors.ValidatePath(r.Arcdir); err != nil {
			return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "arcdir")
		}
	}
	if err := bperrors.ValidatePaths(r.KeepPaths); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "keep_paths")
	}
	for name, dir := range r.Put {
		if err := bperrors.ValidateTargetName(dir); err != nil {
			return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "put %q", name)
		}
	}
	for host, members := range r.PutWith {
		for _, m := range members {
			if m == host {
				return bperrors.New(bperrors.ErrCodeInvalidConfig, "put_with %q lists itself", host)
			}
		}
	}
	for i, s := range r.Steps {
		if s.Branch != nil && s.Branch.Field != "" {
			if _, err := parseField(s.Branch.Field); err != nil {
				return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "step %d", i+1)
			}
		}
	}
	return nil
}

// expand resolves "{arcdir}" placeholders.
func (r *Recipe) expand(s string) string {
	return strings.ReplaceAll(s, "{arcdir}", r.Arcdir)
}

// prefix joins a vendored directory to the arcdir. Absolute prefixes are
// used as given.
func (r *Recipe) prefix(p string) string {
	if p == "" || path.IsAbs(p) || r.Arcdir == "" {
		return p
	}
	return path.Join(r.Arcdir, p)
}
