package rules

import (
	"iter"
	"slices"

	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/pipeline"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/arthur-debert/tidyup/pkg/walker"
)

// TargetKind selects what a rule walks
type TargetKind string

const (
	TargetFiles TargetKind = "files"
	TargetDirs  TargetKind = "dirs"
)

// System artifacts excluded from every walk unless a location replaces
// the lists
var (
	systemExcludeFiles = [...]string{"thumbs.db", "desktop.ini", "~$*", ".DS_Store", ".localized"}
	systemExcludeDirs  = [...]string{".git", ".svn"}
)

// SystemExcludeFiles returns a copy of the default file exclusions
func SystemExcludeFiles() []string {
	return slices.Clone(systemExcludeFiles[:])
}

// SystemExcludeDirs returns a copy of the default directory exclusions
func SystemExcludeDirs() []string {
	return slices.Clone(systemExcludeDirs[:])
}

// Rule is a built rule, ready to run. It is not modified after Build.
type Rule struct {
	Name       string
	Targets    TargetKind
	Locations  []Location
	Filters    []types.Filter
	FilterMode pipeline.Mode
	Actions    []types.Action
	Enabled    bool
}

// Location is a root to walk on some filesystem
type Location struct {
	FS      types.FS
	Path    string
	Options walker.Options
}

// String describes the location for the user
func (l Location) String() string {
	return filesystem.Describe(l.FS, l.Path)
}

// Walk enumerates the location's targets. Errors ignored by the walk are
// handed to onError.
func (l Location) Walk(target TargetKind, onError func(path string, err error)) iter.Seq2[string, error] {
	opts := l.Options
	opts.OnError = onError
	w, err := walker.New(opts)
	if err != nil {
		return func(yield func(string, error) bool) {
			yield("", err)
		}
	}
	if target == TargetDirs {
		return w.Dirs(l.FS, l.Path)
	}
	return w.Files(l.FS, l.Path)
}
