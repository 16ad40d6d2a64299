// Package fs provides file-based bundle storage and response caching.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Ensure DocsetStore implements docset.BundleStore at compile time.
var _ docset.BundleStore = (*DocsetStore)(nil)

// DocsetStore implements docset.BundleStore with atomic update semantics.
// The bundle is staged at baseDir/<name>.docset.tmp and moved to
// baseDir/<name>.docset on Commit, so an interrupted build never leaves a
// half-written bundle at the final location.
type DocsetStore struct {
	baseDir string
	name    string
}

// NewDocsetStore creates a store for a docset called name under baseDir.
func NewDocsetStore(baseDir, name string) *DocsetStore {
	return &DocsetStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *DocsetStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".docset.tmp")
}

// Path returns the final location of the bundle.
func (s *DocsetStore) Path() string {
	return filepath.Join(s.baseDir, s.name+".docset")
}

// DocumentsPath returns the staged Documents directory.
func (s *DocsetStore) DocumentsPath() string {
	return filepath.Join(s.tempDir(), "Contents", "Resources", "Documents")
}

// IndexPath returns the staged path of the search index database.
func (s *DocsetStore) IndexPath() string {
	return filepath.Join(s.tempDir(), "Contents", "Resources", "docSet.dsidx")
}

// SaveDocument writes data at rel under the staged Documents directory,
// creating parent directories as needed.
func (s *DocsetStore) SaveDocument(ctx context.Context, rel string, data []byte) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return docset.Errorf(docset.EINVALID, "document path %q escapes the bundle", rel)
	}
	return writeFile(filepath.Join(s.DocumentsPath(), clean), data)
}

// SavePlist writes the bundle's Info.plist.
func (s *DocsetStore) SavePlist(ctx context.Context, data []byte) error {
	return writeFile(filepath.Join(s.tempDir(), "Contents", "Info.plist"), data)
}

// SaveIcon writes the docset icon. Dash looks for both icon.png and
// icon@2x.png at the bundle root; the same image serves both densities.
func (s *DocsetStore) SaveIcon(ctx context.Context, data []byte) error {
	if err := writeFile(filepath.Join(s.tempDir(), "icon.png"), data); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.tempDir(), "icon@2x.png"), data)
}

// Commit atomically publishes the staged bundle, replacing any previous
// bundle of the same name.
func (s *DocsetStore) Commit() error {
	if err := os.RemoveAll(s.Path()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.Path())
}

// Abort discards the staged bundle.
func (s *DocsetStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
