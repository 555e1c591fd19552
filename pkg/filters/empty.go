package filters

import (
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// EmptyFilterName is the name used to reference this filter
const EmptyFilterName = "empty"

// EmptyFilter matches empty files and directories without entries
type EmptyFilter struct{}

func (EmptyFilter) Name() string {
	return EmptyFilterName
}

func (EmptyFilter) Matches(ctx *resource.Context) (bool, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return false, err
	}
	info, err := stat(ctx)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return info.Size() == 0, nil
	}
	entries, err := fsys.ReadDir(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	return len(entries) == 0, nil
}

func (EmptyFilter) Parse(*resource.Context) (map[string]any, error) {
	return nil, nil
}

func init() {
	registry.MustRegisterFilter(EmptyFilterName, func(args types.Args) (types.Filter, error) {
		if !args.Empty() {
			return nil, errors.New(errors.ErrConfig, "empty takes no arguments")
		}
		return EmptyFilter{}, nil
	})
}
