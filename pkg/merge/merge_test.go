package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeBasic(t *testing.T) {
	map1 := map[string]any{"foo": "bar"}
	map2 := map[string]any{"baz": "bat"}

	inputs := []map[string]any{map1, map2}
	expected := map[string]any{"foo": "bar", "baz": "bat"}

	result, err := Merge(inputs)
	assert.Nil(t, err)
	assert.Equal(t, expected, result)
}

func TestMergeBasicOverride(t *testing.T) {
	map1 := map[string]any{"foo": "bar"}
	map2 := map[string]any{"baz": "bat"}
	map3 := map[string]any{"foo": "ood"}

	inputs := []map[string]any{map1, map2, map3}
	expected := map[string]any{"foo": "ood", "baz": "bat"}

	result, err := Merge(inputs)
	assert.Nil(t, err)
	assert.Equal(t, expected, result)
}

func TestMergeNestedMaps(t *testing.T) {
	map1 := map[string]any{
		"services": map[string]any{
			"default": map[string]any{"enabled": false, "status": "disable"},
		},
	}
	map2 := map[string]any{
		"services": map[string]any{
			"default": map[string]any{"enabled": true},
		},
	}

	result, err := Merge([]map[string]any{map1, map2})
	assert.Nil(t, err)

	services := result["services"].(map[string]any)
	def := services["default"].(map[string]any)
	assert.Equal(t, true, def["enabled"])
	assert.Equal(t, "disable", def["status"])
}

func TestMergeListReplace(t *testing.T) {
	map1 := map[string]any{"platforms": []any{"linux", "darwin"}}
	map2 := map[string]any{"platforms": []any{"windows"}}

	result, err := Merge([]map[string]any{map1, map2})
	assert.Nil(t, err)
	assert.Equal(t, []any{"windows"}, result["platforms"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	map1 := map[string]any{
		"packages": map[string]any{"main": map[string]any{"name": "nginx"}},
	}
	map2 := map[string]any{
		"packages": map[string]any{"main": map[string]any{"name": "nginx-core"}},
	}

	_, err := Merge([]map[string]any{map1, map2})
	assert.Nil(t, err)

	main1 := map1["packages"].(map[string]any)["main"].(map[string]any)
	assert.Equal(t, "nginx", main1["name"])
}

func TestDeep(t *testing.T) {
	base := map[string]any{"version": "0.1", "urls": map[string]any{"website": "https://example.com"}}
	overlay := map[string]any{"urls": map[string]any{"website": "https://example.org"}}

	result, err := Deep(base, overlay)
	assert.Nil(t, err)
	assert.Equal(t, "0.1", result["version"])
	assert.Equal(t, "https://example.org", result["urls"].(map[string]any)["website"])
}

func TestEnhancedNullTombstone(t *testing.T) {
	base := map[string]any{
		"urls": map[string]any{
			"website":       "https://example.com",
			"documentation": "https://docs.example.com",
		},
	}
	overlay := map[string]any{
		"urls": map[string]any{"website": nil},
	}

	result := Enhanced(base, overlay)

	urls := result["urls"].(map[string]any)
	_, hasWebsite := urls["website"]
	assert.False(t, hasWebsite)
	assert.Equal(t, "https://docs.example.com", urls["documentation"])
}

func TestEnhancedEmptiedMappingPruned(t *testing.T) {
	base := map[string]any{
		"services": map[string]any{"default": map[string]any{"enabled": true}},
		"version":  "0.1",
	}
	overlay := map[string]any{
		"services": map[string]any{"default": nil},
	}

	result := Enhanced(base, overlay)

	_, hasServices := result["services"]
	assert.False(t, hasServices)
	assert.Equal(t, "0.1", result["version"])
}

func TestEnhancedExplicitEmptyMappingPreserved(t *testing.T) {
	base := map[string]any{"version": "0.1"}
	overlay := map[string]any{"services": map[string]any{}}

	result := Enhanced(base, overlay)

	services, hasServices := result["services"]
	assert.True(t, hasServices)
	assert.Equal(t, map[string]any{}, services)
}

func TestEnhancedPrunesBaseNulls(t *testing.T) {
	base := map[string]any{
		"urls": map[string]any{"website": nil, "documentation": nil},
	}
	overlay := map[string]any{
		"urls": map[string]any{"documentation": "https://docs.example.com/nginx"},
	}

	result := Enhanced(base, overlay)

	urls := result["urls"].(map[string]any)
	assert.Equal(t, map[string]any{"documentation": "https://docs.example.com/nginx"}, urls)
}

func TestEnhancedDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": 1}}
	overlay := map[string]any{"a": map[string]any{"b": nil}}

	Enhanced(base, overlay)

	assert.Equal(t, 1, base["a"].(map[string]any)["b"])
	assert.Nil(t, overlay["a"].(map[string]any)["b"])
}

func TestRemoveNulls(t *testing.T) {
	input := map[string]any{
		"version": "0.1",
		"urls":    map[string]any{"website": nil},
		"extra":   nil,
	}

	result := RemoveNulls(input)

	assert.Equal(t, map[string]any{"version": "0.1"}, result)
}
