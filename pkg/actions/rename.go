package actions

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// RenameActionName is the name used to reference this action
const RenameActionName = "rename"

// RenameAction gives a resource a new name within its directory
type RenameAction struct {
	name     *template.Template
	conflict conflictOptions
}

type renameArgs struct {
	Name           string `mapstructure:"name"`
	OnConflict     string `mapstructure:"on_conflict"`
	RenameTemplate string `mapstructure:"rename_template"`
}

// NewRenameAction creates a RenameAction
func NewRenameAction(args types.Args) (*RenameAction, error) {
	var a renameArgs
	if err := args.Bind([]string{"name"}, &a); err != nil {
		return nil, err
	}
	name, err := mustTemplate(RenameActionName, "a name", a.Name)
	if err != nil {
		return nil, err
	}
	opts, err := newConflictOptions(a.OnConflict, a.RenameTemplate)
	if err != nil {
		return nil, err
	}
	return &RenameAction{name: name, conflict: opts}, nil
}

func (a *RenameAction) Name() string {
	return RenameActionName
}

func (a *RenameAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	logger := logging.GetLogger("actions.rename")
	fsys, src, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	newName, err := render(a.name, ctx)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(newName, `/\`) {
		return nil, errors.Newf(errors.ErrAction,
			"rename only takes a name, got %q; use move to relocate resources", newName)
	}

	dir, _ := filesystem.Split(fsys, src)
	dst := filesystem.Join(fsys, dir, newName)
	if dst == src {
		env.Print(RenameActionName, "Name did not change")
		return nil, nil
	}

	if filesystem.Exists(fsys, dst) {
		env.Print(RenameActionName, fmt.Sprintf("%s already exists (conflict mode is %q).",
			filesystem.Describe(fsys, dst), a.conflict.policy))
		res, err := a.conflict.resolve(fsys, dst, env, RenameActionName)
		if err != nil {
			return nil, err
		}
		if res.Skip {
			return nil, nil
		}
		dst = res.Path
	}

	logger.Debug().Str("src", src).Str("dst", dst).Bool("simulate", env.Simulate).Msg("renaming")
	if !env.Simulate {
		if err := fsys.Rename(src, dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to rename %s", src)
		}
	}
	env.Print(RenameActionName, fmt.Sprintf("Renamed to %s", filesystem.Describe(fsys, dst)))
	return relocated(fsys, dst), nil
}

func init() {
	registry.MustRegisterAction(RenameActionName, func(args types.Args) (types.Action, error) {
		return NewRenameAction(args)
	})
}
