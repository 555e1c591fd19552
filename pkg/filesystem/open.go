package filesystem

import (
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
)

const (
	memScheme      = "mem://"
	fileScheme     = "file://"
	readonlyPrefix = "readonly:"
)

var (
	memMu     sync.Mutex
	memByName = map[string]types.FS{}
)

// Open returns the filesystem backend described by uri.
//
// Supported forms:
//
//	""  "os"  "local"      the host filesystem
//	file:///srv/data      the host filesystem rooted at /srv/data
//	mem://name            a named in-memory filesystem, shared within the process
//	readonly:<uri>        any of the above, refusing mutations
func Open(uri string) (types.FS, error) {
	logger := logging.GetLogger("filesystem.open")
	uri = strings.TrimSpace(uri)

	if rest, ok := strings.CutPrefix(uri, readonlyPrefix); ok {
		inner, err := openAfero(rest)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("uri", rest).Msg("opening read-only filesystem")
		return &aferoFS{fs: afero.NewReadOnlyFs(inner), desc: uri}, nil
	}

	switch {
	case uri == "", uri == "os", uri == "local":
		return NewOS(), nil
	case strings.HasPrefix(uri, memScheme):
		name := strings.TrimPrefix(uri, memScheme)
		memMu.Lock()
		defer memMu.Unlock()
		if fsys, ok := memByName[name]; ok {
			return fsys, nil
		}
		logger.Debug().Str("name", name).Msg("creating in-memory filesystem")
		fsys := &aferoFS{fs: afero.NewMemMapFs(), desc: uri}
		memByName[name] = fsys
		return fsys, nil
	case strings.HasPrefix(uri, fileScheme):
		base := strings.TrimPrefix(uri, fileScheme)
		if base == "" {
			return nil, errors.Newf(errors.ErrLocation, "filesystem %q has no base path", uri)
		}
		return &aferoFS{fs: afero.NewBasePathFs(afero.NewOsFs(), base), desc: uri}, nil
	}

	return nil, errors.Newf(errors.ErrLocation, "unsupported filesystem %q", uri).
		WithDetail("supported", []string{"os", "file://", "mem://", "readonly:"})
}

// openAfero opens uri as a raw afero filesystem, for wrapping
func openAfero(uri string) (afero.Fs, error) {
	fsys, err := Open(uri)
	if err != nil {
		return nil, err
	}
	if a, ok := fsys.(*aferoFS); ok {
		return a.fs, nil
	}
	return afero.NewOsFs(), nil
}

// ResetMemory forgets every named in-memory filesystem
func ResetMemory() {
	memMu.Lock()
	defer memMu.Unlock()
	memByName = map[string]types.FS{}
}
