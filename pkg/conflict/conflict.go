// Package conflict decides how to place a resource whose destination is
// already occupied.
package conflict

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// Policy is what to do when the destination exists
type Policy string

const (
	Skip           Policy = "skip"
	Overwrite      Policy = "overwrite"
	Trash          Policy = "trash"
	RenameNew      Policy = "rename_new"
	RenameExisting Policy = "rename_existing"
)

// DefaultRenameTemplate names alternatives "photo 1.jpg", "photo 2.jpg"...
const DefaultRenameTemplate = "{name} {counter}{extension}"

// Policies lists every valid policy
var Policies = []Policy{Skip, Overwrite, Trash, RenameNew, RenameExisting}

// ParsePolicy validates s as a policy name
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	names := make([]string, len(Policies))
	for i, p := range Policies {
		names[i] = string(p)
	}
	return "", errors.Newf(errors.ErrConfig, "on_conflict must be one of %s, got %q",
		strings.Join(names, ", "), s)
}

// Request describes a destination to resolve
type Request struct {
	FS     types.FS
	Path   string
	Policy Policy

	// Template names alternatives for the rename policies. Nil selects
	// DefaultRenameTemplate.
	Template *template.Template

	// Simulate skips every mutating call
	Simulate bool

	// Print receives user facing messages
	Print func(msg string)

	// Trasher is required by the trash policy
	Trasher types.Trasher
}

// Result is where the incoming resource should go
type Result struct {
	FS   types.FS
	Path string

	// Skip is set when the incoming resource must be left alone
	Skip bool
}

// Resolve applies the request's policy to its destination. A destination
// that does not exist is returned unchanged.
func Resolve(req Request) (Result, error) {
	logger := logging.GetLogger("conflict")
	result := Result{FS: req.FS, Path: req.Path}
	if !filesystem.Exists(req.FS, req.Path) {
		return result, nil
	}

	emit := req.Print
	if emit == nil {
		emit = func(string) {}
	}
	desc := filesystem.Describe(req.FS, req.Path)
	logger.Debug().Str("path", req.Path).Str("policy", string(req.Policy)).Bool("simulate", req.Simulate).
		Msg("resolving conflict")

	switch req.Policy {
	case Skip:
		emit("Skipped.")
		result.Skip = true

	case Overwrite:
		emit(fmt.Sprintf("Overwrite %s.", desc))
		if !req.Simulate {
			if err := req.FS.RemoveAll(req.Path); err != nil {
				return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", desc)
			}
		}

	case Trash:
		if req.Trasher == nil {
			return result, errors.New(errors.ErrInternal, "trash policy without a trash can")
		}
		emit(fmt.Sprintf("Trash %s.", desc))
		if !req.Simulate {
			if err := req.Trasher.Trash(req.FS, req.Path); err != nil {
				return result, err
			}
		}

	case RenameNew:
		free, err := NextFreeName(req.FS, req.Path, req.Template)
		if err != nil {
			return result, err
		}
		result.Path = free

	case RenameExisting:
		free, err := NextFreeName(req.FS, req.Path, req.Template)
		if err != nil {
			return result, err
		}
		emit(fmt.Sprintf("Renaming existing to: %s", filesystem.Describe(req.FS, free)))
		if !req.Simulate {
			if err := req.FS.Rename(req.Path, free); err != nil {
				return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to rename %s", desc)
			}
		}

	default:
		return result, errors.Newf(errors.ErrConfig, "unknown conflict policy %q", req.Policy)
	}
	return result, nil
}

// NextFreeName renders tmpl with the name, extension and an increasing
// counter (from 1) until the result does not exist next to path. A template
// that renders the same candidate twice in a row fails with a CONFLICT error.
func NextFreeName(fsys types.FS, path string, tmpl *template.Template) (string, error) {
	if tmpl == nil {
		tmpl = template.Must(DefaultRenameTemplate)
	}
	dir, base := filesystem.Split(fsys, path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	prev := ""
	for counter := 1; ; counter++ {
		candidate, err := tmpl.Render(map[string]any{
			"name":      name,
			"extension": ext,
			"counter":   counter,
		})
		if err != nil {
			return "", err
		}
		full := filesystem.Join(fsys, dir, candidate)
		if !filesystem.Exists(fsys, full) {
			return full, nil
		}
		if candidate == prev {
			return "", errors.Newf(errors.ErrConflict,
				"could not find a free filename with template %q. Maybe you forgot the {counter} placeholder?", tmpl.String()).
				WithDetail("path", path)
		}
		prev = candidate
	}
}
