package types

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/resource"
)

// Well known context keys
const (
	KeyFS           = "fs"
	KeyFSPath       = "fs_path"
	KeyRelativePath = "relative_path"
	KeyPath         = "path"
	KeyEnv          = "env"
	KeyNow          = "now"
	KeyUTCNow       = "utcnow"
)

// ResourceOf returns the filesystem and path the context currently points at
func ResourceOf(ctx *resource.Context) (FS, string, error) {
	rawFS, _ := ctx.Get(KeyFS)
	fsys, ok := rawFS.(FS)
	if !ok {
		return nil, "", errors.Newf(errors.ErrInternal, "context has no filesystem (got %T)", rawFS)
	}
	rawPath, _ := ctx.Get(KeyFSPath)
	path, ok := rawPath.(string)
	if !ok || path == "" {
		return nil, "", errors.New(errors.ErrInternal, "context has no resource path")
	}
	return fsys, path, nil
}

// RealPathValue returns a deferred producer of the real path of path on fsys.
// When the backend cannot resolve it the cleaned path itself is produced.
func RealPathValue(fsys FS, path string) resource.Deferred {
	return func() any {
		real, err := fsys.RealPath(path)
		if err != nil {
			return filepath.Clean(path)
		}
		return real
	}
}

// RefreshPath recomputes the deferred real path from the context's current
// filesystem and path fields.
func RefreshPath(ctx *resource.Context) {
	fsys, path, err := ResourceOf(ctx)
	if err != nil {
		return
	}
	ctx.Set(KeyPath, RealPathValue(fsys, path))
}

// NewContext builds the initial context of the resource at path, found
// while walking root on fsys.
func NewContext(fsys FS, root, path string, now time.Time, environ map[string]string) *resource.Context {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	env := make(map[string]any, len(environ))
	for k, v := range environ {
		env[k] = v
	}

	return resource.FromMap(map[string]any{
		KeyFS:           fsys,
		KeyFSPath:       path,
		KeyRelativePath: filepath.ToSlash(rel),
		KeyEnv:          env,
		KeyNow:          now.Local(),
		KeyUTCNow:       now.UTC(),
		KeyPath:         RealPathValue(fsys, path),
	}, KeyFS, KeyFSPath, KeyRelativePath, KeyEnv, KeyNow, KeyUTCNow, KeyPath)
}

// Environ snapshots the process environment
func Environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
