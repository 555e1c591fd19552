package filters

import (
	"github.com/arthur-debert/tidyup/pkg/internal/hashutil"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// HashFilterName is the name used to reference this filter
const HashFilterName = "hash"

// HashFilter matches every file and adds the digest of its content under
// `hash`. Directories never match.
type HashFilter struct {
	algorithm string
}

type hashArgs struct {
	Algorithm string `mapstructure:"algorithm"`
}

// NewHashFilter creates a HashFilter
func NewHashFilter(args types.Args) (*HashFilter, error) {
	var a hashArgs
	if err := args.Bind([]string{"algorithm"}, &a); err != nil {
		return nil, err
	}
	algorithm, err := hashutil.Validate(a.Algorithm)
	if err != nil {
		return nil, err
	}
	return &HashFilter{algorithm: algorithm}, nil
}

func (f *HashFilter) Name() string {
	return HashFilterName
}

func (f *HashFilter) Matches(ctx *resource.Context) (bool, error) {
	info, err := stat(ctx)
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *HashFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	fsys, path, err := types.ResourceOf(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := hashutil.Checksum(fsys, path, f.algorithm)
	if err != nil {
		return nil, err
	}
	return map[string]any{"hash": sum}, nil
}

func init() {
	registry.MustRegisterFilter(HashFilterName, func(args types.Args) (types.Filter, error) {
		return NewHashFilter(args)
	})
}
