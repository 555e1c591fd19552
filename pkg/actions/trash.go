package actions

import (
	"fmt"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// TrashActionName is the name used to reference this action
const TrashActionName = "trash"

// TrashAction moves the resource to the trash of the run
type TrashAction struct{}

func (TrashAction) Name() string {
	return TrashActionName
}

func (TrashAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	if env.Trasher == nil {
		return nil, errors.New(errors.ErrInternal, "no trash can configured")
	}
	env.Print(TrashActionName, fmt.Sprintf("Trash %s", filesystem.Describe(fsys, path)))
	if env.Simulate {
		return nil, nil
	}
	return nil, env.Trasher.Trash(fsys, path)
}

// DeleteActionName is the name used to reference this action
const DeleteActionName = "delete"

// DeleteAction removes the resource for good. Directories are removed with
// everything they contain.
type DeleteAction struct{}

func (DeleteAction) Name() string {
	return DeleteActionName
}

func (DeleteAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	desc := filesystem.Describe(fsys, path)
	env.Print(DeleteActionName, fmt.Sprintf("Delete %s", desc))
	if env.Simulate {
		return nil, nil
	}
	if err := fsys.RemoveAll(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", desc)
	}
	return nil, nil
}

func noArgs(name string, action types.Action) types.ActionFactory {
	return func(args types.Args) (types.Action, error) {
		if !args.Empty() {
			return nil, errors.Newf(errors.ErrConfig, "%s takes no arguments", name)
		}
		return action, nil
	}
}

func init() {
	registry.MustRegisterAction(TrashActionName, noArgs(TrashActionName, TrashAction{}))
	registry.MustRegisterAction(DeleteActionName, noArgs(DeleteActionName, DeleteAction{}))
}
