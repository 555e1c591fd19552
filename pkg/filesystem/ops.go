package filesystem

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Exists reports whether name exists on fsys, without following a final symlink
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// IsDir reports whether name is a directory on fsys
func IsDir(fsys types.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// Describe returns a user facing description of a resource. Paths on the
// host filesystem are shown as is; others name their backend.
func Describe(fsys types.FS, name string) string {
	if _, ok := fsys.(osFS); ok {
		if real, err := fsys.RealPath(name); err == nil {
			return real
		}
		return name
	}
	return name + " on " + fsys.String()
}

// Join joins path elements using the separator of fsys
func Join(fsys types.FS, elem ...string) string {
	if _, ok := fsys.(osFS); ok {
		return filepath.Join(elem...)
	}
	return path.Join(elem...)
}

// Split splits name into its directory and last element, using the separator of fsys
func Split(fsys types.FS, name string) (dir, file string) {
	if _, ok := fsys.(osFS); ok {
		dir, file = filepath.Split(filepath.Clean(name))
		return filepath.Clean(dir), file
	}
	dir, file = path.Split(path.Clean(name))
	return path.Clean(dir), file
}

// Move moves src on srcFS to dst on dstFS, creating the parent directory of
// dst. Within one backend a rename is attempted first; across backends (or
// devices) the resource is copied and the source removed.
func Move(srcFS types.FS, src string, dstFS types.FS, dst string) error {
	logger := logging.GetLogger("filesystem.move")

	dstDir, _ := Split(dstFS, dst)
	if err := dstFS.MkdirAll(dstDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create directory %s", dstDir)
	}

	if srcFS == dstFS {
		err := srcFS.Rename(src, dst)
		if err == nil {
			return nil
		}
		if !stderrors.Is(err, syscall.EXDEV) {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s to %s", src, dst)
		}
		logger.Debug().Str("src", src).Str("dst", dst).Msg("cross device move, falling back to copy")
	}

	if err := Copy(srcFS, src, dstFS, dst); err != nil {
		return err
	}
	if err := srcFS.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s after copy", src)
	}
	return nil
}

// Copy copies the file or directory tree src on srcFS to dst on dstFS
func Copy(srcFS types.FS, src string, dstFS types.FS, dst string) error {
	info, err := srcFS.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}

	dstDir, _ := Split(dstFS, dst)
	if err := dstFS.MkdirAll(dstDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create directory %s", dstDir)
	}

	if !info.IsDir() {
		return copyFile(srcFS, src, dstFS, dst, info.Mode().Perm())
	}
	return copyTree(srcFS, src, dstFS, dst, info.Mode().Perm())
}

func copyFile(srcFS types.FS, src string, dstFS types.FS, dst string, perm fs.FileMode) error {
	data, err := srcFS.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}
	if err := dstFS.WriteFile(dst, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", dst)
	}
	return nil
}

func copyTree(srcFS types.FS, src string, dstFS types.FS, dst string, perm fs.FileMode) error {
	if err := dstFS.MkdirAll(dst, perm|0700); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create directory %s", dst)
	}
	entries, err := srcFS.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", src)
	}
	for _, entry := range entries {
		from := Join(srcFS, src, entry.Name())
		to := Join(dstFS, dst, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", from)
		}
		if entry.IsDir() {
			err = copyTree(srcFS, from, dstFS, to, info.Mode().Perm())
		} else {
			err = copyFile(srcFS, from, dstFS, to, info.Mode().Perm())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ExpandUser replaces a leading "~" with the user's home directory
func ExpandUser(p string) string {
	if p == "~" {
		return xdg.Home
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return filepath.Join(xdg.Home, rest)
	}
	return p
}
