package filters

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// nameParts returns the base name of the resource split into stem and
// extension, the latter without its dot
func nameParts(ctx *resource.Context) (stem, ext string, err error) {
	_, path, err := types.ResourceOf(ctx)
	if err != nil {
		return "", "", err
	}
	base := filepath.Base(path)
	dotted := filepath.Ext(base)
	return strings.TrimSuffix(base, dotted), strings.TrimPrefix(dotted, "."), nil
}

// stat returns the file info of the resource
func stat(ctx *resource.Context) (fs.FileInfo, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}
	return info, nil
}

func noKeywords(name string, args types.Args) error {
	if len(args.Keyword) > 0 {
		return errors.Newf(errors.ErrConfig, "%s takes no keyword arguments", name)
	}
	return nil
}
