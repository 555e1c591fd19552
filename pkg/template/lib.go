package template

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(path) == "report.pdf".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathBase", filepath.Base)),
			),
		),

		// `pathDir` returns all but the last element of the path.
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathDir", filepath.Dir)),
			),
		),

		// `pathExt` returns the extension of the path, including the dot.
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathExt", filepath.Ext)),
			),
		),

		// `pathStem` returns the last element of the path without its extension.
		// Example: pathStem("/docs/report.pdf") == "report".
		cel.Function("pathStem",
			cel.Overload("path_stem", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathStem", func(p string) string {
					base := filepath.Base(p)
					return strings.TrimSuffix(base, filepath.Ext(base))
				})),
			),
		),

		cel.Function("upper",
			cel.Overload("upper_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("upper", strings.ToUpper)),
			),
		),

		cel.Function("lower",
			cel.Overload("lower_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("lower", strings.ToLower)),
			),
		),

		// `humanBytes` formats a byte count, e.g. humanBytes(1500000) == "1.5 MB".
		cel.Function("humanBytes",
			cel.Overload("human_bytes_int", []*cel.Type{cel.IntType}, cel.StringType,
				cel.UnaryBinding(func(n ref.Val) ref.Val {
					v, ok := n.(types.Int)
					if !ok || v < 0 {
						return types.NewErr("humanBytes: invalid byte count")
					}
					return types.String(humanize.Bytes(uint64(v)))
				}),
			),
			cel.Overload("human_bytes_uint", []*cel.Type{cel.UintType}, cel.StringType,
				cel.UnaryBinding(func(n ref.Val) ref.Val {
					v, ok := n.(types.Uint)
					if !ok {
						return types.NewErr("humanBytes: invalid byte count")
					}
					return types.String(humanize.Bytes(uint64(v)))
				}),
			),
		),

		// `strftime` formats a timestamp with C style directives.
		// Example: now.strftime("%Y-%m") == "2024-05".
		cel.Function("strftime",
			cel.Overload("strftime_timestamp_string", []*cel.Type{cel.TimestampType, cel.StringType}, cel.StringType,
				cel.BinaryBinding(strftimeBinding),
			),
			cel.MemberOverload("timestamp_strftime_string", []*cel.Type{cel.TimestampType, cel.StringType}, cel.StringType,
				cel.BinaryBinding(strftimeBinding),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func stringFunc(name string, fn func(string) string) func(ref.Val) ref.Val {
	return func(arg ref.Val) ref.Val {
		s, ok := arg.(types.String)
		if !ok {
			return types.NewErr("%s: invalid string value", name)
		}
		return types.String(fn(string(s)))
	}
}

func strftimeBinding(ts, layout ref.Val) ref.Val {
	t, ok := ts.(types.Timestamp)
	if !ok {
		return types.NewErr("strftime: invalid timestamp")
	}
	l, ok := layout.(types.String)
	if !ok {
		return types.NewErr("strftime: invalid layout")
	}
	return types.String(Strftime(t.Time, string(l)))
}
