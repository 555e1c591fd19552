package walker

import (
	"io/fs"
	"iter"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Search is the traversal order
type Search string

const (
	DepthFirst   Search = "depth"
	BreadthFirst Search = "breadth"
)

// Options configure a Walker
type Options struct {
	// MinDepth hides entries above this depth. They are still descended into.
	MinDepth int

	// MaxDepth hides entries below this depth and stops descent there.
	// Zero means unbounded.
	MaxDepth int

	// Search defaults to DepthFirst
	Search Search

	// ExcludeFiles are glob patterns matched against file names
	ExcludeFiles []string

	// ExcludeDirs are glob patterns matched against directory names.
	// A matching directory is pruned with everything below it.
	ExcludeDirs []string

	// IgnoreErrors turns per entry I/O errors into warnings
	IgnoreErrors bool

	// OnError is called for every ignored error
	OnError func(path string, err error)
}

// Walker walks a filesystem according to its Options. It holds no state
// between walks.
type Walker struct {
	opts         Options
	excludeFiles []string
	excludeDirs  []string
	logger       zerolog.Logger
}

// New validates opts and creates a Walker
func New(opts Options) (*Walker, error) {
	if opts.Search == "" {
		opts.Search = DepthFirst
	}
	if opts.Search != DepthFirst && opts.Search != BreadthFirst {
		return nil, errors.Newf(errors.ErrConfig, "unknown search method %q (expected depth or breadth)", opts.Search)
	}
	if opts.MinDepth < 0 || opts.MaxDepth < 0 {
		return nil, errors.New(errors.ErrConfig, "depth bounds must not be negative")
	}
	if opts.MaxDepth > 0 && opts.MinDepth > opts.MaxDepth {
		return nil, errors.Newf(errors.ErrConfig, "min depth %d is greater than max depth %d", opts.MinDepth, opts.MaxDepth)
	}

	excludeFiles, err := normalizePatterns(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}
	excludeDirs, err := normalizePatterns(opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}

	return &Walker{
		opts:         opts,
		excludeFiles: excludeFiles,
		excludeDirs:  excludeDirs,
		logger:       logging.GetLogger("walker"),
	}, nil
}

// Options returns the options the walker was created with
func (w *Walker) Options() Options {
	return w.opts
}

// Files yields the files below root
func (w *Walker) Files(fsys types.FS, root string) iter.Seq2[string, error] {
	return w.walk(fsys, root, false)
}

// Dirs yields the directories below root, root itself excluded
func (w *Walker) Dirs(fsys types.FS, root string) iter.Seq2[string, error] {
	return w.walk(fsys, root, true)
}

type frame struct {
	path  string
	depth int
}

func (w *Walker) walk(fsys types.FS, root string, wantDirs bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pending := []frame{{path: root, depth: 0}}

		for len(pending) > 0 {
			var cur frame
			if w.opts.Search == BreadthFirst {
				cur, pending = pending[0], pending[1:]
			} else {
				cur, pending = pending[len(pending)-1], pending[:len(pending)-1]
			}

			entries, err := fsys.ReadDir(cur.path)
			if err != nil {
				if !w.fail(cur.path, err, yield) {
					return
				}
				continue
			}

			depth := cur.depth + 1
			var subdirs []frame
			for _, entry := range entries {
				path := filesystem.Join(fsys, cur.path, entry.Name())

				isDir, descend, err := w.kind(fsys, path, entry)
				if err != nil {
					if !w.fail(path, err, yield) {
						return
					}
					continue
				}

				if isDir {
					if w.excluded(w.excludeDirs, entry.Name()) {
						w.logger.Trace().Str("path", path).Msg("directory excluded")
						continue
					}
					if wantDirs && w.inRange(depth) {
						if !yield(path, nil) {
							return
						}
					}
					if descend && (w.opts.MaxDepth == 0 || depth < w.opts.MaxDepth) {
						subdirs = append(subdirs, frame{path: path, depth: depth})
					}
					continue
				}

				if wantDirs || w.excluded(w.excludeFiles, entry.Name()) {
					continue
				}
				if w.inRange(depth) {
					if !yield(path, nil) {
						return
					}
				}
			}

			if w.opts.Search == BreadthFirst {
				pending = append(pending, subdirs...)
			} else {
				// reversed, so the lexically first directory is popped next
				slices.Reverse(subdirs)
				pending = append(pending, subdirs...)
			}
		}
	}
}

// kind reports whether path is a directory and whether to descend into it.
// Symlinks are classified by their target but never descended into.
func (w *Walker) kind(fsys types.FS, path string, entry fs.DirEntry) (isDir, descend bool, err error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), entry.IsDir(), nil
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return false, false, err
	}
	return info.IsDir(), false, nil
}

func (w *Walker) inRange(depth int) bool {
	if depth < w.opts.MinDepth {
		return false
	}
	return w.opts.MaxDepth == 0 || depth <= w.opts.MaxDepth
}

// excluded matches name case-insensitively against patterns
func (w *Walker) excluded(patterns []string, name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, lower) {
			return true
		}
	}
	return false
}

// fail handles an I/O error at path and reports whether the walk goes on
func (w *Walker) fail(path string, err error, yield func(string, error) bool) bool {
	err = errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	if !w.opts.IgnoreErrors {
		yield("", err)
		return false
	}
	w.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
	if w.opts.OnError != nil {
		w.opts.OnError(path, err)
	}
	return true
}

func normalizePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrConfig, "invalid exclude pattern %q", p)
		}
		out = append(out, strings.ToLower(p))
	}
	return out, nil
}
