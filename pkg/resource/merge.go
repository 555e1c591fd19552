package resource

import (
	"maps"
	"slices"
)

// DeepMerge merges src into dst in place. Nested mappings are merged
// recursively, anything else in src overwrites dst.
func DeepMerge(dst, src map[string]any) {
	for _, k := range sortedKeys(src) {
		sv := src[k]
		if dv, ok := dst[k]; ok {
			dm, dIsMap := dv.(map[string]any)
			sm, sIsMap := sv.(map[string]any)
			if dIsMap && sIsMap {
				DeepMerge(dm, sm)
				continue
			}
		}
		dst[k] = cloneValue(sv)
	}
}

func cloneValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, mv := range m {
		out[k] = cloneValue(mv)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
