package filters

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// SizeFilterName is the name used to reference this filter
const SizeFilterName = "size"

var conditionPattern = regexp.MustCompile(`^\s*(<=|>=|==|!=|=|<|>)?\s*(.+?)\s*$`)

type sizeCondition struct {
	op    string
	bytes uint64
}

func (c sizeCondition) holds(size uint64) bool {
	switch c.op {
	case "<":
		return size < c.bytes
	case "<=":
		return size <= c.bytes
	case ">":
		return size > c.bytes
	case ">=":
		return size >= c.bytes
	case "!=":
		return size != c.bytes
	}
	return size == c.bytes
}

// SizeFilter matches resources by size. Conditions look like "> 10 MB" or
// "<= 1.5GiB"; several may be given, comma separated or as a list, and all
// must hold. The size of a directory is the total of the files below it.
type SizeFilter struct {
	conditions []sizeCondition
}

// NewSizeFilter creates a SizeFilter
func NewSizeFilter(args types.Args) (*SizeFilter, error) {
	if err := noKeywords(SizeFilterName, args); err != nil {
		return nil, err
	}
	f := &SizeFilter{}
	for _, item := range types.StringList(args.Positional) {
		for _, raw := range strings.Split(item, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			c, err := parseCondition(raw)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, c)
		}
	}
	return f, nil
}

func parseCondition(raw string) (sizeCondition, error) {
	m := conditionPattern.FindStringSubmatch(raw)
	if m == nil {
		return sizeCondition{}, errors.Newf(errors.ErrConfig, "invalid size condition %q", raw)
	}
	bytes, err := humanize.ParseBytes(m[2])
	if err != nil {
		return sizeCondition{}, errors.Wrapf(err, errors.ErrConfig, "invalid size %q", m[2])
	}
	op := m[1]
	if op == "==" {
		op = "="
	}
	return sizeCondition{op: op, bytes: bytes}, nil
}

func (f *SizeFilter) Name() string {
	return SizeFilterName
}

func (f *SizeFilter) Matches(ctx *resource.Context) (bool, error) {
	size, err := resourceSize(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range f.conditions {
		if !c.holds(size) {
			return false, nil
		}
	}
	return true, nil
}

func (f *SizeFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	size, err := resourceSize(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"size": map[string]any{
			"bytes": int64(size),
			"human": humanize.Bytes(size),
		},
	}, nil
}

func resourceSize(ctx *resource.Context) (uint64, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return 0, err
	}
	return treeSize(fsys, path)
}

func treeSize(fsys types.FS, path string) (uint64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}
	entries, err := fsys.ReadDir(path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	var total uint64
	for _, e := range entries {
		n, err := treeSize(fsys, filesystem.Join(fsys, path, e.Name()))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func init() {
	registry.MustRegisterFilter(SizeFilterName, func(args types.Args) (types.Filter, error) {
		return NewSizeFilter(args)
	})
}
