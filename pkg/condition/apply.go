package condition

import (
	log "github.com/charmbracelet/log"

	"github.com/packmeta/packmeta/pkg/perf"
)

// WhenKey is the mapping key that attaches a condition to a template node.
const WhenKey = "when"

// Apply walks a template and filters it by `when:` conditions: a mapping node
// whose condition evaluates to false is dropped from its parent, and the
// `when` key itself never survives into the output. A condition that fails to
// parse or evaluate is logged and treated as true, so a malformed expression
// degrades to "keep the node" rather than silently erasing data. The input is
// not mutated.
func Apply(tpl map[string]any, vars map[string]string) map[string]any {
	defer perf.Track(nil, "condition.Apply")()

	result, _ := applyMap(tpl, vars)
	return result
}

// applyMap returns the filtered copy and whether the node itself should be kept.
func applyMap(m map[string]any, vars map[string]string) (map[string]any, bool) {
	if raw, ok := m[WhenKey]; ok {
		expr, isString := raw.(string)
		if isString {
			keep, err := Eval(expr, vars)
			if err != nil {
				log.Warn("invalid when condition, keeping node", "condition", expr, "error", err)
			} else if !keep {
				return nil, false
			}
		}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == WhenKey {
			continue
		}
		switch typed := v.(type) {
		case map[string]any:
			child, keep := applyMap(typed, vars)
			if !keep {
				continue
			}
			out[k] = child
		case []any:
			out[k] = applySlice(typed, vars)
		default:
			out[k] = v
		}
	}
	return out, true
}

func applySlice(s []any, vars map[string]string) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		switch typed := v.(type) {
		case map[string]any:
			child, keep := applyMap(typed, vars)
			if !keep {
				continue
			}
			out = append(out, child)
		case []any:
			out = append(out, applySlice(typed, vars))
		default:
			out = append(out, v)
		}
	}
	return out
}
