package filters

import (
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/types"
)

// LastModifiedFilterName is the name used to reference this filter
const LastModifiedFilterName = "lastmodified"

type lastModifiedArgs struct {
	Years   float64 `mapstructure:"years"`
	Months  float64 `mapstructure:"months"`
	Weeks   float64 `mapstructure:"weeks"`
	Days    float64 `mapstructure:"days"`
	Hours   float64 `mapstructure:"hours"`
	Minutes float64 `mapstructure:"minutes"`
	Seconds float64 `mapstructure:"seconds"`
	Mode    string  `mapstructure:"mode"`
}

// LastModifiedFilter matches resources by modification time relative to
// the run's start. Mode "older" (default) matches resources last modified
// at least the given duration ago, "newer" those modified within it.
// Without a duration every resource matches.
type LastModifiedFilter struct {
	age   time.Duration
	newer bool
}

// NewLastModifiedFilter creates a LastModifiedFilter
func NewLastModifiedFilter(args types.Args) (*LastModifiedFilter, error) {
	var a lastModifiedArgs
	if err := args.Bind(nil, &a); err != nil {
		return nil, err
	}
	f := &LastModifiedFilter{}
	switch a.Mode {
	case "", "older":
	case "newer":
		f.newer = true
	default:
		return nil, errors.Newf(errors.ErrConfig, "mode must be older or newer, got %q", a.Mode)
	}

	day := 24 * time.Hour
	total := a.Years*365*float64(day) +
		a.Months*30*float64(day) +
		a.Weeks*7*float64(day) +
		a.Days*float64(day) +
		a.Hours*float64(time.Hour) +
		a.Minutes*float64(time.Minute) +
		a.Seconds*float64(time.Second)
	if total < 0 {
		return nil, errors.New(errors.ErrConfig, "lastmodified duration must not be negative")
	}
	f.age = time.Duration(total)
	return f, nil
}

func (f *LastModifiedFilter) Name() string {
	return LastModifiedFilterName
}

func (f *LastModifiedFilter) Matches(ctx *resource.Context) (bool, error) {
	info, err := stat(ctx)
	if err != nil {
		return false, err
	}
	if f.age == 0 {
		return true, nil
	}
	threshold := now(ctx).Add(-f.age)
	older := !info.ModTime().After(threshold)
	return older != f.newer, nil
}

func (f *LastModifiedFilter) Parse(ctx *resource.Context) (map[string]any, error) {
	info, err := stat(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"lastmodified": info.ModTime()}, nil
}

// now returns the run's timestamp from the context
func now(ctx *resource.Context) time.Time {
	if v, ok := ctx.Resolve(types.KeyNow); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

func init() {
	registry.MustRegisterFilter(LastModifiedFilterName, func(args types.Args) (types.Filter, error) {
		return NewLastModifiedFilter(args)
	})
}
