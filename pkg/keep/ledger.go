// Package keep maintains the keep-paths ledger of an import.
//
// Some files in the output tree are curated by hand, such as the smaller
// extracts that replace a proxy source. The next re-import of the vendored
// tree must leave them alone. The ledger lists those paths per project and
// is read by the re-import step before it overwrites the tree.
package keep

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/observability"
)

// Ledger is the on-disk list of protected paths.
type Ledger struct {
	Project string   `json:"project"`
	Paths   []string `json:"paths"`
}

// New returns an empty ledger for project.
func New(project string) *Ledger {
	return &Ledger{Project: project, Paths: []string{}}
}

// Load reads the ledger at path. A missing file yields an empty ledger for
// project; a ledger recorded for another project is INVALID_CONFIG.
func Load(ctx context.Context, path, project string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(project), nil
	}
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "read keep ledger %s", path)
	}
	observability.IO().OnRead(ctx, "keep", path, len(data))

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "decode keep ledger %s", path)
	}
	if l.Project != project {
		return nil, bperrors.New(bperrors.ErrCodeInvalidConfig,
			"keep ledger %s belongs to %q, not %q", path, l.Project, project)
	}
	if err := bperrors.ValidatePaths(l.Paths); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "keep ledger %s", path)
	}
	l.normalize()
	return &l, nil
}

// Add records paths and returns how many were new.
func (l *Ledger) Add(paths ...string) int {
	before := len(l.Paths)
	l.Paths = append(l.Paths, paths...)
	l.normalize()
	return len(l.Paths) - before
}

// Has reports whether p is protected.
func (l *Ledger) Has(p string) bool {
	_, found := slices.BinarySearch(l.Paths, p)
	return found
}

func (l *Ledger) normalize() {
	if l.Paths == nil {
		l.Paths = []string{}
	}
	slices.Sort(l.Paths)
	l.Paths = slices.Compact(l.Paths)
}

// Save writes the ledger to path, creating parent directories.
func (l *Ledger) Save(ctx context.Context, path string) error {
	l.normalize()
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInternal, err, "encode keep ledger")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write keep ledger %s", path)
	}
	observability.IO().OnWrite(ctx, "keep", path, len(data))
	return nil
}
