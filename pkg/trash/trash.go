// Package trash moves resources to a freedesktop.org style trash can.
//
// The can lives under $XDG_DATA_HOME/Trash unless configured otherwise.
// Each trashed resource is stored in files/ next to an info/<name>.trashinfo
// record holding its original location and deletion date.
package trash

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
)

const infoSuffix = ".trashinfo"

// Can is a trash can on some filesystem
type Can struct {
	// Dir is the root of the can, holding files/ and info/
	Dir string

	// FS is the filesystem Dir lives on
	FS types.FS

	// Now stamps deletion dates
	Now func() time.Time
}

var _ types.Trasher = (*Can)(nil)

// DefaultDir returns the user's trash directory
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "Trash")
}

// New returns a can on the host filesystem. An empty dir selects DefaultDir.
func New(dir string) *Can {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Can{Dir: dir, FS: filesystem.NewOS(), Now: time.Now}
}

// Trash moves path on fsys into the can
func (c *Can) Trash(fsys types.FS, path string) error {
	logger := logging.GetLogger("trash")

	if !filesystem.Exists(fsys, path) {
		return errors.Newf(errors.ErrNotFound, "cannot trash %s: no such file or directory",
			filesystem.Describe(fsys, path))
	}

	filesDir := filesystem.Join(c.FS, c.Dir, "files")
	infoDir := filesystem.Join(c.FS, c.Dir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := c.FS.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to create trash directory %s", dir)
		}
	}

	_, base := filesystem.Split(fsys, path)
	name := c.freeName(filesDir, infoDir, base)
	infoPath := filesystem.Join(c.FS, infoDir, name+infoSuffix)
	if err := c.FS.WriteFile(infoPath, c.info(fsys, path), 0600); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", infoPath)
	}

	dst := filesystem.Join(c.FS, filesDir, name)
	if err := filesystem.Move(fsys, path, c.FS, dst); err != nil {
		_ = c.FS.Remove(infoPath)
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s to the trash",
			filesystem.Describe(fsys, path))
	}

	logger.Debug().Str("path", path).Str("trashed_as", dst).Msg("resource trashed")
	return nil
}

// freeName returns a name unused in both files/ and info/
func (c *Can) freeName(filesDir, infoDir, base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for i := 2; ; i++ {
		if !filesystem.Exists(c.FS, filesystem.Join(c.FS, filesDir, name)) &&
			!filesystem.Exists(c.FS, filesystem.Join(c.FS, infoDir, name+infoSuffix)) {
			return name
		}
		name = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
}

func (c *Can) info(fsys types.FS, path string) []byte {
	original, err := fsys.RealPath(path)
	if err != nil {
		original = path
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return fmt.Appendf(nil, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: original}).EscapedPath(),
		now().Format("2006-01-02T15:04:05"))
}
