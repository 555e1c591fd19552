package filters

import (
	"strings"

	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// ExtensionFilterName is the name used to reference this filter
const ExtensionFilterName = "extension"

// ExtensionFilter matches resources by their file extension.
// Without extensions every resource matches.
type ExtensionFilter struct {
	extensions []string
}

// NewExtensionFilter creates an ExtensionFilter. Extensions may be nested
// lists and may start with a dot; matching is case-insensitive.
func NewExtensionFilter(args types.Args) (*ExtensionFilter, error) {
	if err := noKeywords(ExtensionFilterName, args); err != nil {
		return nil, err
	}
	var exts []string
	for _, e := range types.StringList(args.Positional) {
		exts = append(exts, normalizeExtension(e))
	}

	logger := logging.GetLogger("filters.extension")
	logger.Trace().Strs("extensions", exts).Msg("created extension filter")
	return &ExtensionFilter{extensions: exts}, nil
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func (f *ExtensionFilter) Name() string {
	return ExtensionFilterName
}

func (f *ExtensionFilter) Matches(ctx *resource.Context) (bool, error) {
	_, ext, err := nameParts(ctx)
	if err != nil {
		return false, err
	}
	if len(f.extensions) == 0 {
		return true, nil
	}
	ext = strings.ToLower(ext)
	for _, e := range f.extensions {
		if e == ext {
			return true, nil
		}
	}
	return false, nil
}

func (f *ExtensionFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	_, ext, err := nameParts(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"extension": map[string]any{
			"lower": strings.ToLower(ext),
			"upper": strings.ToUpper(ext),
		},
	}, nil
}

func init() {
	registry.MustRegisterFilter(ExtensionFilterName, func(args types.Args) (types.Filter, error) {
		return NewExtensionFilter(args)
	})
}
