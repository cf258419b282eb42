package templates

import (
	"sort"
	"strings"

	"github.com/packmeta/packmeta/pkg/perf"
)

// Substitute recursively replaces `$name`-style placeholders in every string
// of a template node using the supplied variable map. Maps and sequences are
// rebuilt with the substitution applied to each element; other scalar types
// pass through unchanged. Tokens that do not match a known variable are left
// as literal text. The operation is idempotent for a fixed variable map and
// never mutates its input.
func Substitute(node any, variables map[string]string) any {
	defer perf.Track(nil, "templates.Substitute")()

	return substituteNode(node, orderedVariables(variables))
}

// SubstituteTemplate is a convenience wrapper for the common case of applying
// variables to a whole template.
func SubstituteTemplate(tpl map[string]any, variables map[string]string) map[string]any {
	result, _ := Substitute(tpl, variables).(map[string]any)
	if result == nil {
		return map[string]any{}
	}
	return result
}

type variable struct {
	token string
	value string
}

// orderedVariables sorts variables by descending token length so that
// `$software_name` is replaced before a shorter `$software` could match its
// prefix.
func orderedVariables(variables map[string]string) []variable {
	out := make([]variable, 0, len(variables))
	for name, value := range variables {
		out = append(out, variable{token: "$" + name, value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].token) != len(out[j].token) {
			return len(out[i].token) > len(out[j].token)
		}
		return out[i].token < out[j].token
	})
	return out
}

func substituteNode(node any, variables []variable) any {
	switch typed := node.(type) {
	case string:
		return substituteString(typed, variables)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = substituteNode(v, variables)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = substituteNode(v, variables)
		}
		return out
	default:
		return node
	}
}

func substituteString(s string, variables []variable) string {
	if !strings.Contains(s, "$") {
		return s
	}
	for _, v := range variables {
		s = strings.ReplaceAll(s, v.token, v.value)
	}
	return s
}
