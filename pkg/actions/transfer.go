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

const (
	// MoveActionName is the name used to reference the move action
	MoveActionName = "move"
	// CopyActionName is the name used to reference the copy action
	CopyActionName = "copy"
)

// TransferAction moves or copies a resource to a destination.
//
// A destination ending with a slash is a directory the resource is placed
// in, keeping its name; otherwise it is the full new path. Missing parent
// directories are created. With `filesystem` the destination is on the
// backend that URI opens instead of the resource's own.
type TransferAction struct {
	name       string
	dest       *template.Template
	filesystem *template.Template
	conflict   conflictOptions
}

type transferArgs struct {
	Dest           string `mapstructure:"dest"`
	OnConflict     string `mapstructure:"on_conflict"`
	RenameTemplate string `mapstructure:"rename_template"`
	Filesystem     string `mapstructure:"filesystem"`
}

// NewMoveAction creates a TransferAction that moves
func NewMoveAction(args types.Args) (*TransferAction, error) {
	return newTransfer(MoveActionName, args)
}

// NewCopyAction creates a TransferAction that copies
func NewCopyAction(args types.Args) (*TransferAction, error) {
	return newTransfer(CopyActionName, args)
}

func newTransfer(name string, args types.Args) (*TransferAction, error) {
	var a transferArgs
	if err := args.Bind([]string{"dest"}, &a); err != nil {
		return nil, err
	}
	dest, err := mustTemplate(name, "a destination", a.Dest)
	if err != nil {
		return nil, err
	}
	opts, err := newConflictOptions(a.OnConflict, a.RenameTemplate)
	if err != nil {
		return nil, err
	}
	t := &TransferAction{name: name, dest: dest, conflict: opts}
	if a.Filesystem != "" {
		if t.filesystem, err = template.New(a.Filesystem); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfig, "invalid filesystem")
		}
	}
	return t, nil
}

func (a *TransferAction) Name() string {
	return a.name
}

func (a *TransferAction) Apply(ctx *resource.Context, env types.Env) (map[string]any, error) {
	logger := logging.GetLogger("actions." + a.name)
	srcFS, src, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	dstFS, dst, err := a.destination(ctx, srcFS, src)
	if err != nil {
		return nil, err
	}

	if dstFS == srcFS && dst == src {
		env.Print(a.name, "Same resource: Skipped.")
		return nil, nil
	}

	if filesystem.Exists(dstFS, dst) {
		env.Print(a.name, fmt.Sprintf("%s already exists (conflict mode is %q).",
			filesystem.Describe(dstFS, dst), a.conflict.policy))
		res, err := a.conflict.resolve(dstFS, dst, env, a.name)
		if err != nil {
			return nil, err
		}
		if res.Skip {
			return nil, nil
		}
		dstFS, dst = res.FS, res.Path
	}

	logger.Debug().Str("src", src).Str("dst", dst).Bool("simulate", env.Simulate).Msg("transferring")
	desc := filesystem.Describe(dstFS, dst)
	if a.name == MoveActionName {
		if !env.Simulate {
			if err := filesystem.Move(srcFS, src, dstFS, dst); err != nil {
				return nil, err
			}
		}
		env.Print(a.name, fmt.Sprintf("Moved to %s", desc))
	} else {
		if !env.Simulate {
			if err := filesystem.Copy(srcFS, src, dstFS, dst); err != nil {
				return nil, err
			}
		}
		env.Print(a.name, fmt.Sprintf("Copy to %s", desc))
	}
	return relocated(dstFS, dst), nil
}

// destination renders the target backend and path
func (a *TransferAction) destination(ctx *resource.Context, srcFS types.FS, src string) (types.FS, string, error) {
	dest, err := render(a.dest, ctx)
	if err != nil {
		return nil, "", err
	}

	dstFS := srcFS
	if a.filesystem != nil {
		uri, err := render(a.filesystem, ctx)
		if err != nil {
			return nil, "", err
		}
		if dstFS, err = filesystem.Open(uri); err != nil {
			return nil, "", errors.Wrap(err, errors.ErrAction, "cannot open destination filesystem")
		}
	}

	dest = filesystem.ExpandUser(dest)
	if strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, `\`) {
		_, base := filesystem.Split(srcFS, src)
		return dstFS, filesystem.Join(dstFS, dest, base), nil
	}
	return dstFS, filesystem.Join(dstFS, dest), nil
}
func init() {
	registry.MustRegisterAction(MoveActionName, func(args types.Args) (types.Action, error) {
		return NewMoveAction(args)
	})
	registry.MustRegisterAction(CopyActionName, func(args types.Args) (types.Action, error) {
		return NewCopyAction(args)
	})
}
