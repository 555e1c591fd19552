package template

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/interpreter"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/resource"
)

// Protect CEL environment creation and compilation from concurrent access.
var (
	celMutex sync.Mutex
	baseEnv  *cel.Env
	envCache = map[string]*cel.Env{}
)

// envFor returns an environment declaring every key of vars as a dynamic
// variable. Environments are cached by the sorted key set.
func envFor(vars map[string]any, sig string) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	if env, ok := envCache[sig]; ok {
		return env, nil
	}
	if baseEnv == nil {
		env, err := cel.NewEnv(cel.Lib(&lib{}))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to create expression environment")
		}
		baseEnv = env
	}

	opts := make([]cel.EnvOption, 0, len(vars))
	for name := range vars {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}
	env, err := baseEnv.Extend(opts...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplate, "invalid variable names %s", sig)
	}
	envCache[sig] = env

	logger := logging.GetLogger("template")
	logger.Trace().Str("vars", sig).Msg("created expression environment")
	return env, nil
}

func compileExpr(env *cel.Env, expr string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile {%s}: %w", expr, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program for {%s}: %w", expr, err)
	}
	return program, nil
}

func signature(vars map[string]any) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// activation resolves variables from a context snapshot. Values are
// converted (and deferred ones invoked) on first reference only.
type activation struct {
	vars     map[string]any
	resolved map[string]ref.Val
}

var _ interpreter.Activation = (*activation)(nil)

func newActivation(vars map[string]any) *activation {
	return &activation{vars: vars, resolved: make(map[string]ref.Val)}
}

func (a *activation) ResolveName(name string) (any, bool) {
	if v, ok := a.resolved[name]; ok {
		return v, true
	}
	raw, ok := a.vars[name]
	if !ok {
		return nil, false
	}
	v := toCEL(raw)
	a.resolved[name] = v
	return v, true
}

func (a *activation) Parent() interpreter.Activation {
	return nil
}

// toCEL converts a context value to a CEL value. Deferred values are
// invoked, except inside maps where they wait for their key to be read.
func toCEL(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue
	case ref.Val:
		return v
	case resource.Deferred:
		return toCEL(v())
	case func() any:
		return toCEL(v())
	case time.Time:
		return types.Timestamp{Time: v}
	case time.Duration:
		return types.Duration{Duration: v}
	case []any:
		items := make([]ref.Val, len(v))
		for i, item := range v {
			items[i] = toCEL(item)
		}
		return types.NewDynamicList(types.DefaultTypeAdapter, items)
	case map[string]any:
		return newLazyMap(v)
	}

	converted := types.DefaultTypeAdapter.NativeToValue(value)
	if types.IsError(converted) {
		// Backends and other opaque values are shown by their description
		if s, ok := value.(fmt.Stringer); ok {
			return types.String(s.String())
		}
	}
	return converted
}

// lazyMap exposes a context map to expressions. Entries are converted on
// first read and cached for the rest of the render.
type lazyMap struct {
	entries  map[string]any
	resolved map[string]ref.Val
}

var _ traits.Mapper = (*lazyMap)(nil)

func newLazyMap(entries map[string]any) *lazyMap {
	return &lazyMap{entries: entries, resolved: make(map[string]ref.Val)}
}

func (m *lazyMap) get(key string) (ref.Val, bool) {
	if v, ok := m.resolved[key]; ok {
		return v, true
	}
	raw, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	v := toCEL(raw)
	m.resolved[key] = v
	return v, true
}

// full resolves every entry
func (m *lazyMap) full() traits.Mapper {
	entries := make(map[ref.Val]ref.Val, len(m.entries))
	for key := range m.entries {
		v, _ := m.get(key)
		entries[types.String(key)] = v
	}
	return types.NewDynamicMap(types.DefaultTypeAdapter, entries)
}

func (m *lazyMap) Find(key ref.Val) (ref.Val, bool) {
	k, ok := key.(types.String)
	if !ok {
		return nil, false
	}
	return m.get(string(k))
}

func (m *lazyMap) Get(key ref.Val) ref.Val {
	if v, found := m.Find(key); found {
		return v
	}
	return types.NewErr("no such key: %v", key.Value())
}

func (m *lazyMap) Contains(key ref.Val) ref.Val {
	k, ok := key.(types.String)
	if !ok {
		return types.False
	}
	_, found := m.entries[string(k)]
	return types.Bool(found)
}

func (m *lazyMap) Size() ref.Val {
	return types.Int(len(m.entries))
}

func (m *lazyMap) Iterator() traits.Iterator {
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return types.NewStringList(types.DefaultTypeAdapter, keys).Iterator()
}

func (m *lazyMap) ConvertToNative(typeDesc reflect.Type) (any, error) {
	return m.full().ConvertToNative(typeDesc)
}

func (m *lazyMap) ConvertToType(typeValue ref.Type) ref.Val {
	switch typeValue {
	case types.MapType:
		return m
	case types.TypeType:
		return types.MapType
	}
	return m.full().ConvertToType(typeValue)
}

func (m *lazyMap) Equal(other ref.Val) ref.Val {
	return m.full().Equal(other)
}

func (m *lazyMap) Type() ref.Type {
	return types.MapType
}

func (m *lazyMap) Value() any {
	return m.full().Value()
}

// toNative converts a CEL value back to plain Go values
func toNative(val ref.Val) any {
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Timestamp:
		return v.Time
	case types.Duration:
		return v.Duration
	case traits.Mapper:
		out := make(map[string]any)
		it := v.Iterator()
		for it.HasNext() == types.True {
			key := it.Next()
			out[fmt.Sprint(key.Value())] = toNative(v.Get(key))
		}
		return out
	case traits.Lister:
		size, _ := v.Size().(types.Int)
		out := make([]any, 0, int(size))
		for i := types.Int(0); i < size; i++ {
			out = append(out, toNative(v.Get(i)))
		}
		return out
	}
	return val.Value()
}
