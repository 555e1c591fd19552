package testutil

import (
	"os"
	"path"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// MemFS is an in-memory types.FS that also exposes its afero backend
type MemFS struct {
	types.FS
	Afero afero.Fs
}

// NewTestFS creates an empty in-memory filesystem
func NewTestFS() *MemFS {
	fs := afero.NewMemMapFs()
	return &MemFS{FS: filesystem.NewAferoFS(fs), Afero: fs}
}

// NewTestFSWith creates an in-memory filesystem holding files, keyed by
// absolute path. A key ending in "/" creates an empty directory.
func NewTestFSWith(t *testing.T, files map[string]string) *MemFS {
	t.Helper()
	m := NewTestFS()
	m.CreateTree(t, files)
	return m
}

// CreateTree writes files, creating parent directories as needed
func (m *MemFS) CreateTree(t *testing.T, files map[string]string) {
	t.Helper()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if p[len(p)-1] == '/' {
			if err := m.MkdirAll(p, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", p, err)
			}
			continue
		}
		if err := m.MkdirAll(path.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", p, err)
		}
		if err := m.WriteFile(p, []byte(files[p]), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", p, err)
		}
	}
}

// SetModTime changes the modification time of p
func (m *MemFS) SetModTime(t *testing.T, p string, mtime time.Time) {
	t.Helper()
	if err := m.Afero.Chtimes(p, mtime, mtime); err != nil {
		t.Fatalf("Failed to set times of %s: %v", p, err)
	}
}

// Content returns the content of p, failing the test when unreadable
func (m *MemFS) Content(t *testing.T, p string) string {
	t.Helper()
	data, err := m.ReadFile(p)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", p, err)
	}
	return string(data)
}

// Files lists every regular file on the filesystem, sorted
func (m *MemFS) Files(t *testing.T) []string {
	t.Helper()
	var out []string
	err := afero.Walk(m.Afero, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk test filesystem: %v", err)
	}
	sort.Strings(out)
	return out
}
