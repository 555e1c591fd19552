package rules

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/conflict"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/pipeline"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/template"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/arthur-debert/tidyup/pkg/walker"

	// built-in filters and actions
	_ "github.com/arthur-debert/tidyup/pkg/actions"
	_ "github.com/arthur-debert/tidyup/pkg/filters"
)

// BuildOptions carry what rule building needs from outside the rule
type BuildOptions struct {
	// RenameTemplate is the conflict rename template given to actions
	// that do not set their own
	RenameTemplate string

	// Environ and Now are visible to location path templates
	Environ map[string]string
	Now     time.Time
}

// actions taking a rename_template argument
var renamingActions = map[string]bool{"rename": true, "move": true, "copy": true}

// BuildAll builds every rule of cfg. Problems that do not prevent running
// are returned as warnings.
func BuildAll(cfg *config.Config, opts BuildOptions) ([]*Rule, []string, error) {
	if opts.RenameTemplate == "" {
		opts.RenameTemplate = cfg.Settings.RenameTemplate
	}
	var (
		rules    []*Rule
		warnings []string
	)
	for i, rc := range cfg.Rules {
		rule, w, err := Build(rc, i, opts)
		if err != nil {
			return nil, nil, err
		}
		rules = append(rules, rule)
		warnings = append(warnings, w...)
	}
	return rules, warnings, nil
}

// Build builds the rule at index of a configuration
func Build(rc config.RuleConfig, index int, opts BuildOptions) (*Rule, []string, error) {
	logger := logging.GetLogger("rules.build")

	name := strings.TrimSpace(rc.Name)
	if name == "" {
		name = fmt.Sprintf("Rule #%d", index+1)
	}
	fail := func(err error) (*Rule, []string, error) {
		return nil, nil, errors.Wrapf(err, errors.ErrConfig, "rule %q", name).WithDetail("rule", name)
	}

	rule := &Rule{Name: name, Enabled: rc.IsEnabled()}
	var warnings []string

	switch TargetKind(rc.Targets) {
	case "", TargetFiles:
		rule.Targets = TargetFiles
	case TargetDirs:
		rule.Targets = TargetDirs
	default:
		return fail(errors.Newf(errors.ErrConfig, "targets must be files or dirs, got %q", rc.Targets))
	}

	mode, err := pipeline.ParseMode(rc.FilterMode)
	if err != nil {
		return fail(err)
	}
	rule.FilterMode = mode

	locations := types.Flatten(rc.Locations)
	if len(locations) == 0 {
		return fail(errors.New(errors.ErrConfig, "no locations given"))
	}
	for _, raw := range locations {
		loc, err := buildLocation(raw, rc.Subfolders, opts)
		if err != nil {
			if ignored, ok := err.(ignoredLocation); ok {
				warnings = append(warnings, fmt.Sprintf("rule %q: %s", name, errors.Message(ignored.err)))
				continue
			}
			return fail(err)
		}
		rule.Locations = append(rule.Locations, loc)
	}

	for _, raw := range types.Flatten(rc.Filters) {
		f, err := buildFilter(raw)
		if err != nil {
			return fail(err)
		}
		rule.Filters = append(rule.Filters, f)
	}

	for _, raw := range types.Flatten(rc.Actions) {
		a, err := buildAction(raw, opts)
		if err != nil {
			return fail(err)
		}
		rule.Actions = append(rule.Actions, a)
	}
	if len(rule.Actions) == 0 {
		warnings = append(warnings, fmt.Sprintf("rule %q has no actions", name))
	}

	logger.Debug().
		Str("rule", name).
		Int("locations", len(rule.Locations)).
		Int("filters", len(rule.Filters)).
		Int("actions", len(rule.Actions)).
		Msg("rule built")
	return rule, warnings, nil
}

// entry splits a filter or action declaration into its name and arguments
func entry(raw any) (string, types.Args, error) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), types.Args{}, nil
	case map[string]any:
		if len(v) != 1 {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			return "", types.Args{}, errors.Newf(errors.ErrConfig,
				"expected a single name per entry, got %s", strings.Join(keys, ", "))
		}
		for k, args := range v {
			return strings.TrimSpace(k), types.ArgsFrom(args), nil
		}
	}
	return "", types.Args{}, errors.Newf(errors.ErrConfig, "invalid entry %v", raw)
}

func buildFilter(raw any) (types.Filter, error) {
	name, args, err := entry(raw)
	if err != nil {
		return nil, err
	}
	inverted := false
	if rest, ok := cutNot(name); ok {
		name, inverted = rest, true
	}
	f, err := registry.NewFilter(name, args)
	if err != nil {
		return nil, err
	}
	if inverted {
		return pipeline.Not(f), nil
	}
	return f, nil
}

func cutNot(name string) (string, bool) {
	if len(name) > 4 && strings.EqualFold(name[:4], "not ") {
		return strings.TrimSpace(name[4:]), true
	}
	return name, false
}

func buildAction(raw any, opts BuildOptions) (types.Action, error) {
	name, args, err := entry(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := cutNot(name); ok {
		return nil, errors.Newf(errors.ErrConfig, "action %q cannot be inverted", name)
	}
	if renamingActions[name] && opts.RenameTemplate != "" && opts.RenameTemplate != conflict.DefaultRenameTemplate {
		args = withDefault(args, "rename_template", opts.RenameTemplate)
	}
	return registry.NewAction(name, args)
}

// withDefault returns args with key set unless it is given already
func withDefault(args types.Args, key string, value any) types.Args {
	if _, ok := args.Keyword[key]; ok {
		return args
	}
	kw := make(map[string]any, len(args.Keyword)+1)
	for k, v := range args.Keyword {
		kw[k] = v
	}
	kw[key] = value
	return types.Args{Positional: args.Positional, Keyword: kw}
}

type locationArgs struct {
	Path               string `mapstructure:"path"`
	Filesystem         string `mapstructure:"filesystem"`
	MinDepth           int    `mapstructure:"min_depth"`
	MaxDepth           *int   `mapstructure:"max_depth"`
	Search             string `mapstructure:"search"`
	ExcludeFiles       any    `mapstructure:"exclude_files"`
	ExcludeDirs        any    `mapstructure:"exclude_dirs"`
	SystemExcludeFiles any    `mapstructure:"system_exclude_files"`
	SystemExcludeDirs  any    `mapstructure:"system_exclude_dirs"`
	IgnoreErrors       bool   `mapstructure:"ignore_errors"`
}

// ignoredLocation is a location that could not be opened but asked for
// its errors to be ignored
type ignoredLocation struct {
	err error
}

func (i ignoredLocation) Error() string {
	return i.err.Error()
}

func buildLocation(raw any, subfolders bool, opts BuildOptions) (Location, error) {
	var a locationArgs
	switch v := raw.(type) {
	case string:
		a.Path = v
	case map[string]any:
		if err := types.ArgsFrom(v).Bind(nil, &a); err != nil {
			return Location{}, err
		}
	default:
		return Location{}, errors.Newf(errors.ErrConfig, "invalid location %v", raw)
	}

	vars := map[string]any{
		types.KeyEnv:    envMap(opts.Environ),
		types.KeyNow:    opts.Now.Local(),
		types.KeyUTCNow: opts.Now.UTC(),
	}
	path, err := template.Render(a.Path, vars)
	if err != nil {
		return Location{}, err
	}
	fsURI, err := template.Render(a.Filesystem, vars)
	if err != nil {
		return Location{}, err
	}

	if a.MinDepth < 0 || (a.MaxDepth != nil && *a.MaxDepth < 0) {
		return Location{}, errors.New(errors.ErrConfig, "location depths must not be negative")
	}
	wopts := walker.Options{
		MinDepth:     a.MinDepth + 1,
		Search:       walker.Search(a.Search),
		IgnoreErrors: a.IgnoreErrors,
	}
	switch {
	case a.MaxDepth != nil:
		wopts.MaxDepth = *a.MaxDepth + 1
	case !subfolders:
		wopts.MaxDepth = 1
	}
	wopts.ExcludeFiles = excludes(a.SystemExcludeFiles, SystemExcludeFiles, a.ExcludeFiles)
	wopts.ExcludeDirs = excludes(a.SystemExcludeDirs, SystemExcludeDirs, a.ExcludeDirs)
	if _, err := walker.New(wopts); err != nil {
		return Location{}, err
	}

	var fsys types.FS
	if fsURI == "" {
		if path == "" {
			return Location{}, errors.New(errors.ErrConfig, "location without a path")
		}
		fsys = filesystem.NewOS()
		abs, err := filepath.Abs(filesystem.ExpandUser(path))
		if err != nil {
			return Location{}, errors.Wrapf(err, errors.ErrLocation, "cannot resolve %s", path)
		}
		path = abs
	} else {
		if path == "" {
			path = "/"
		}
		if fsys, err = filesystem.Open(fsURI); err != nil {
			if a.IgnoreErrors {
				return Location{}, ignoredLocation{err}
			}
			return Location{}, err
		}
	}
	return Location{FS: fsys, Path: path, Options: wopts}, nil
}

// excludes is the union of the system defaults, or their replacement when
// given, and the user's patterns
func excludes(system any, defaults func() []string, user any) []string {
	out := defaults()
	if system != nil {
		out = types.StringList(system)
	}
	return append(out, types.StringList(user)...)
}

func envMap(environ map[string]string) map[string]any {
	out := make(map[string]any, len(environ))
	for k, v := range environ {
		out[k] = v
	}
	return out
}
