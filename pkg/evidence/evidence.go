// Package evidence normalizes the repository-evidence shapes accepted at the
// reconciliation boundary. Evidence is whatever a caller fetched from a
// provider's registry; this package only answers "is there evidence that the
// provider carries the software", it never fetches anything.
package evidence

import (
	"github.com/samber/lo"
)

// Present reports whether the supplied repository data contains at least one
// record consistent with the given provider and software. Accepted shapes:
//
//   - a mapping with at least a non-empty `name` field;
//   - a sequence of such mappings;
//   - an aggregate mapping exposing a `packages` mapping keyed by software
//     name.
//
// Records carrying an explicit `provider` field that names a different
// provider are not evidence for this one. Anything else (nil, empty
// containers, scalars) counts as no evidence.
func Present(data any, softwareName string, provider string) bool {
	switch typed := data.(type) {
	case nil:
		return false
	case map[string]any:
		if packages, ok := typed["packages"].(map[string]any); ok {
			_, exists := packages[softwareName]
			return exists
		}
		return recordMatches(typed, provider)
	case []any:
		return lo.SomeBy(typed, func(item any) bool {
			record, ok := item.(map[string]any)
			return ok && recordMatches(record, provider)
		})
	case []map[string]any:
		return lo.SomeBy(typed, func(record map[string]any) bool {
			return recordMatches(record, provider)
		})
	default:
		return false
	}
}

func recordMatches(record map[string]any, provider string) bool {
	name, ok := record["name"].(string)
	if !ok || name == "" {
		return false
	}
	if recordProvider, ok := record["provider"].(string); ok && recordProvider != provider {
		return false
	}
	return true
}
