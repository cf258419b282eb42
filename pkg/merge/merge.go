package merge

import (
	"fmt"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/perf"
)

// Merge deep-merges a list of maps in order: the first map is the base, the
// last one wins on conflicts. Nested maps are merged recursively; sequences
// and scalars are replaced wholesale. Keys present only in earlier maps are
// preserved. The inputs are never mutated.
func Merge(inputs []map[string]any) (map[string]any, error) {
	defer perf.Track(nil, "merge.Merge")()

	merged := map[string]any{}

	for index := range inputs {
		current := inputs[index]
		if current == nil {
			continue
		}

		// mergo modifies the source of a previous iteration if it holds a
		// pointer to a nested map inside it. Round-trip each input through
		// YAML to get a deep copy decoupled from the caller's data.
		yamlCurrent, err := yaml.Marshal(current)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUtils.ErrMerge, err)
		}

		var dataCurrent map[string]any
		if err = yaml.Unmarshal(yamlCurrent, &dataCurrent); err != nil {
			return nil, fmt.Errorf("%w: %v", errUtils.ErrMerge, err)
		}

		if err = mergo.Merge(&merged, dataCurrent, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("%w: %v", errUtils.ErrMerge, err)
		}
	}

	return merged, nil
}

// Deep merges overlay onto base and returns a new map. Equivalent to
// Merge([]map[string]any{base, overlay}).
func Deep(base map[string]any, overlay map[string]any) (map[string]any, error) {
	return Merge([]map[string]any{base, overlay})
}

// Enhanced merges overlay onto base with null-tombstone semantics: an explicit
// null in the overlay removes the key from the result (even if base defines
// it), nulls present in the base are dropped, and any mapping emptied by those
// removals is pruned from its parent, bottom-up. A mapping that was empty in
// the input (an explicit `{}`) is preserved. Neither argument is mutated.
func Enhanced(base map[string]any, overlay map[string]any) map[string]any {
	defer perf.Track(nil, "merge.Enhanced")()

	cleanBase, _ := pruneNullsMap(base)
	result, _ := applyOverlay(cleanBase, overlay)
	return result
}

// RemoveNulls returns a copy of m with every null-valued key dropped and
// every mapping emptied by those drops pruned, recursively.
func RemoveNulls(m map[string]any) map[string]any {
	defer perf.Track(nil, "merge.RemoveNulls")()

	out, _ := pruneNullsMap(m)
	return out
}

// applyOverlay merges overlay onto base (already null-free). The boolean
// reports whether any tombstone consumed a key, so callers can distinguish a
// mapping emptied by deletion from an explicit empty mapping.
func applyOverlay(base map[string]any, overlay map[string]any) (map[string]any, bool) {
	tombstoned := false

	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = copyValue(v)
	}

	for k, v := range overlay {
		if v == nil {
			delete(result, k)
			tombstoned = true
			continue
		}

		overlayMap, overlayIsMap := v.(map[string]any)
		if !overlayIsMap {
			result[k] = copyValue(v)
			continue
		}

		baseMap, baseIsMap := result[k].(map[string]any)
		if !baseIsMap {
			baseMap = map[string]any{}
		}

		merged, childTombstoned := applyOverlay(baseMap, overlayMap)
		if childTombstoned {
			tombstoned = true
			if len(merged) == 0 {
				delete(result, k)
				continue
			}
		}
		result[k] = merged
	}

	return result, tombstoned
}

// pruneNullsMap copies m, dropping null values and pruning mappings that the
// drops emptied. The boolean reports whether anything was dropped.
func pruneNullsMap(m map[string]any) (map[string]any, bool) {
	dropped := false

	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			dropped = true
			continue
		}

		if childMap, ok := v.(map[string]any); ok {
			cleaned, childDropped := pruneNullsMap(childMap)
			if childDropped {
				dropped = true
				if len(cleaned) == 0 {
					continue
				}
			}
			out[k] = cleaned
			continue
		}

		out[k] = copyValue(v)
	}

	return out, dropped
}

// copyValue deep-copies maps and slices; scalars are returned as-is.
func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
