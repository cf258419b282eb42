package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalComparisons(t *testing.T) {
	vars := map[string]string{
		"platform": "linux",
		"cores":    "8",
	}

	tests := []struct {
		expr     string
		expected bool
	}{
		{`$platform == linux`, true},
		{`$platform == "windows"`, false},
		{`$platform != windows`, true},
		{`$cores > 4`, true},
		{`$cores >= 8`, true},
		{`$cores < 8`, false},
		{`$cores <= 7`, false},
		{`2 < 10`, true},
		{`"apt" == "apt"`, true},
	}

	for _, tt := range tests {
		result, err := Eval(tt.expr, vars)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.expected, result, tt.expr)
	}
}

func TestEvalMembership(t *testing.T) {
	vars := map[string]string{"provider": "apt"}

	tests := []struct {
		expr     string
		expected bool
	}{
		{`$provider in [apt, yum, dnf]`, true},
		{`$provider in [npm, pypi]`, false},
		{`$provider not in [npm, pypi]`, true},
		{`"doc" in "documentation"`, true},
		{`"x" not in "documentation"`, true},
	}

	for _, tt := range tests {
		result, err := Eval(tt.expr, vars)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.expected, result, tt.expr)
	}
}

func TestEvalBooleanCombinators(t *testing.T) {
	vars := map[string]string{"platform": "linux", "provider": "apt"}

	tests := []struct {
		expr     string
		expected bool
	}{
		{`$platform == linux and $provider == apt`, true},
		{`$platform == linux and $provider == brew`, false},
		{`$platform == macos or $provider == apt`, true},
		{`not ($platform == macos)`, true},
		{`not $platform == linux or $provider == apt`, true},
		{`true and not false`, true},
	}

	for _, tt := range tests {
		result, err := Eval(tt.expr, vars)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.expected, result, tt.expr)
	}
}

func TestEvalUnresolvedVariableComparesAsLiteral(t *testing.T) {
	result, err := Eval(`$unknown == "$unknown"`, map[string]string{})
	require.NoError(t, err)
	assert.True(t, result)
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		``,
		`(`,
		`$platform ==`,
		`$platform === linux`,
		`[1, 2`,
		`'unterminated`,
		`and and`,
		`$`,
	}

	for _, expr := range bad {
		_, err := Parse(expr)
		assert.Error(t, err, expr)
	}
}

func TestEvalNonBooleanResultIsError(t *testing.T) {
	_, err := Eval(`$platform`, map[string]string{"platform": "linux"})
	assert.Error(t, err)
}

func TestApplyFiltersNodes(t *testing.T) {
	vars := map[string]string{"platform": "windows"}
	tpl := map[string]any{
		"version": "0.1",
		"packages": map[string]any{
			"default": map[string]any{"name": "nginx"},
			"winget": map[string]any{
				"when": `$platform == windows`,
				"name": "nginx.nginx",
			},
			"apt": map[string]any{
				"when": `$platform == linux`,
				"name": "nginx-core",
			},
		},
	}

	result := Apply(tpl, vars)

	packages := result["packages"].(map[string]any)
	assert.Contains(t, packages, "default")
	assert.Contains(t, packages, "winget")
	assert.NotContains(t, packages, "apt")

	// The when key is consumed.
	assert.NotContains(t, packages["winget"].(map[string]any), "when")

	// Input untouched.
	assert.Contains(t, tpl["packages"].(map[string]any), "apt")
}

func TestApplyMalformedConditionKeepsNode(t *testing.T) {
	tpl := map[string]any{
		"services": map[string]any{
			"default": map[string]any{
				"when":    `((( not a condition`,
				"enabled": true,
			},
		},
	}

	result := Apply(tpl, map[string]string{})

	def := result["services"].(map[string]any)["default"].(map[string]any)
	assert.Equal(t, true, def["enabled"])
	assert.NotContains(t, def, "when")
}
