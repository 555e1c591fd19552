package types

import "fmt"

// Flatten flattens nested lists depth first, as produced by YAML anchors
// inside lists. A non-list value becomes a one element list; nil an empty one.
func Flatten(value any) []any {
	if value == nil {
		return nil
	}
	var out []any
	stack := []any{value}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var items []any
		switch v := top.(type) {
		case []any:
			items = v
		case []string:
			items = make([]any, len(v))
			for i, s := range v {
				items[i] = s
			}
		default:
			out = append(out, v)
			continue
		}
		// pushed in reverse so the first item is handled next
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, items[i])
		}
	}
	return out
}

// StringList flattens value and converts every item to a string
func StringList(value any) []string {
	flat := Flatten(value)
	out := make([]string, 0, len(flat))
	for _, v := range flat {
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}
