package template

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/arthur-debert/tidyup/pkg/errors"
)

type segment struct {
	text string
	expr string
	// isExpr distinguishes an empty literal from an expression
	isExpr bool
}

// Template is a parsed template. It is safe for concurrent use.
type Template struct {
	src      string
	segments []segment

	mu       sync.Mutex
	programs map[string][]cel.Program
}

// New parses src into a Template
func New(src string) (*Template, error) {
	segments, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Template{src: src, segments: segments, programs: make(map[string][]cel.Program)}, nil
}

// NewExpr creates a Template made of the single expression src, written
// without surrounding braces
func NewExpr(src string) (*Template, error) {
	expr := strings.TrimSpace(src)
	if expr == "" {
		return nil, errors.New(errors.ErrTemplate, "empty expression")
	}
	return &Template{
		src:      "{" + expr + "}",
		segments: []segment{{expr: expr, isExpr: true}},
		programs: make(map[string][]cel.Program),
	}, nil
}

// Must is like New but panics on a parse error
func Must(src string) *Template {
	t, err := New(src)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source
func (t *Template) String() string {
	return t.src
}

// IsStatic reports whether the template contains no expression
func (t *Template) IsStatic() bool {
	for _, s := range t.segments {
		if s.isExpr {
			return false
		}
	}
	return true
}

// Render evaluates the template against vars and returns the resulting text
func (t *Template) Render(vars map[string]any) (string, error) {
	if t.IsStatic() {
		return t.src, nil
	}
	programs, err := t.compile(vars)
	if err != nil {
		return "", err
	}

	act := newActivation(vars)
	var sb strings.Builder
	pi := 0
	for _, s := range t.segments {
		if !s.isExpr {
			sb.WriteString(s.text)
			continue
		}
		val, err := eval(programs[pi], act, s.expr)
		pi++
		if err != nil {
			return "", err
		}
		sb.WriteString(toString(val))
	}
	return sb.String(), nil
}

// RenderNative evaluates the template against vars. When the template is a
// single expression with no surrounding text the expression's native value
// is returned (a time.Time, int64, map...); otherwise the rendered string.
func (t *Template) RenderNative(vars map[string]any) (any, error) {
	if len(t.segments) != 1 || !t.segments[0].isExpr {
		return t.Render(vars)
	}
	programs, err := t.compile(vars)
	if err != nil {
		return nil, err
	}
	val, err := eval(programs[0], newActivation(vars), t.segments[0].expr)
	if err != nil {
		return nil, err
	}
	return toNative(val), nil
}

// Render parses and renders src in one step
func Render(src string, vars map[string]any) (string, error) {
	t, err := New(src)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}

// compile returns the programs of the template's expressions for the set
// of variable names in vars, compiling them on first use
func (t *Template) compile(vars map[string]any) ([]cel.Program, error) {
	sig := signature(vars)

	t.mu.Lock()
	defer t.mu.Unlock()
	if programs, ok := t.programs[sig]; ok {
		return programs, nil
	}

	env, err := envFor(vars, sig)
	if err != nil {
		return nil, err
	}
	var programs []cel.Program
	for _, s := range t.segments {
		if !s.isExpr {
			continue
		}
		p, err := compileExpr(env, s.expr)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTemplate, "invalid template %q", t.src)
		}
		programs = append(programs, p)
	}
	t.programs[sig] = programs
	return programs, nil
}

func eval(p cel.Program, act *activation, expr string) (ref.Val, error) {
	val, _, err := p.Eval(act)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplate, "failed to evaluate {%s}", expr)
	}
	if types.IsError(val) {
		return nil, errors.Newf(errors.ErrTemplate, "failed to evaluate {%s}: %v", expr, val)
	}
	return val, nil
}

// parse splits src into literal text and {expression} segments. Braces
// nest, and braces inside quoted strings do not count.
func parse(src string) ([]segment, error) {
	var segments []segment
	var text strings.Builder

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '{' {
			text.WriteByte(c)
			continue
		}
		end, err := matchBrace(src, i)
		if err != nil {
			return nil, err
		}
		expr := strings.TrimSpace(src[i+1 : end])
		if expr == "" {
			return nil, errors.Newf(errors.ErrTemplate, "empty expression at offset %d in %q", i, src)
		}
		if text.Len() > 0 {
			segments = append(segments, segment{text: text.String()})
			text.Reset()
		}
		segments = append(segments, segment{expr: expr, isExpr: true})
		i = end
	}
	if text.Len() > 0 {
		segments = append(segments, segment{text: text.String()})
	}
	return segments, nil
}

// matchBrace returns the index of the brace closing the one at start
func matchBrace(src string, start int) (int, error) {
	depth := 0
	var quote byte
	for i := start; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Newf(errors.ErrTemplate, "unclosed { at offset %d in %q", start, src)
}

func toString(val ref.Val) string {
	switch v := val.(type) {
	case types.String:
		return string(v)
	case types.Null:
		return ""
	case types.Timestamp:
		return v.Time.Format(time.DateTime)
	}
	return fmt.Sprint(toNative(val))
}
