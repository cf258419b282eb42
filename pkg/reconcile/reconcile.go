// Package reconcile implements the override-only reconciliation between the
// default metadata template and per-provider fragments: computing minimal
// override fragments, and merging fragments back onto defaults to produce
// final configurations.
package reconcile

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/condition"
	"github.com/packmeta/packmeta/pkg/merge"
	"github.com/packmeta/packmeta/pkg/perf"
	"github.com/packmeta/packmeta/pkg/support"
	"github.com/packmeta/packmeta/pkg/templates"
)

const (
	// VersionKey is always present in override fragments and merged
	// configurations.
	VersionKey = "version"

	// DefaultVersion stamps fragments when the default template itself has
	// no version.
	DefaultVersion = "0.1"

	// SoftwareNameVariable is the variable the reconciler always provides.
	SoftwareNameVariable = "software_name"

	// ProviderVariable is also provided, so templates can condition on the
	// provider being rendered.
	ProviderVariable = "provider"
)

// Reconciler computes override fragments and merged configurations.
type Reconciler struct {
	templates *templates.Store
	support   *support.Resolver
}

// NewReconciler creates a Reconciler over a template store and a support
// resolver.
func NewReconciler(tpls *templates.Store, resolver *support.Resolver) *Reconciler {
	return &Reconciler{templates: tpls, support: resolver}
}

// ComputeOverrides produces the minimal override fragment for a provider:
// only the keys whose substituted value differs from the substituted default
// template survive, plus always `version`, plus `supported: false` when the
// provider cannot service the software. extraVars extends the built-in
// variable context; repositoryData is optional evidence for the support
// decision. The fragment never contains nulls and never contains
// `supported: true`.
func (r *Reconciler) ComputeOverrides(softwareName string, provider string, repositoryData any, extraVars map[string]string) map[string]any {
	defer perf.Track(nil, "reconcile.ComputeOverrides")()

	defaults := r.templates.LoadDefault()
	version := defaultVersion(defaults)

	if !r.support.IsSupported(softwareName, provider, repositoryData) {
		return map[string]any{
			VersionKey:           version,
			support.SupportedKey: false,
		}
	}

	vars := r.variableContext(softwareName, provider, extraVars)
	substitutedDefaults := condition.Apply(templates.SubstituteTemplate(defaults, vars), vars)
	substitutedProvider := condition.Apply(templates.SubstituteTemplate(r.templates.LoadProvider(provider), vars), vars)

	overrides := diffAgainstDefaults(substitutedProvider, substitutedDefaults)

	// Explicit nulls in the provider template signal deletion of a default;
	// they are consumed here rather than surfaced in the fragment, and
	// containers they empty out are pruned with them.
	overrides = merge.RemoveNulls(overrides)

	// `supported` never appears in a fragment for a supported provider: true
	// is the unmarked default state.
	delete(overrides, support.SupportedKey)

	overrides[VersionKey] = version
	return overrides
}

// MergeWithDefaults merges an override fragment onto the default template.
// Both arguments must be mappings; anything else is a programming error by
// the caller and fails the call. For an unsupported fragment the defaults are
// not applied at all: the result is exactly `{version, supported: false}`.
// Otherwise overrides win on conflicts, defaults fill every gap, and nulls
// present in the original defaults are pruned unless overridden with a
// non-null value.
func (r *Reconciler) MergeWithDefaults(defaults any, overrides any) (map[string]any, error) {
	defer perf.Track(nil, "reconcile.MergeWithDefaults")()

	defaultsMap, ok := defaults.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: defaults is %T", errUtils.ErrInvalidMergeInput, defaults)
	}
	overridesMap, ok := overrides.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: overrides is %T", errUtils.ErrInvalidMergeInput, overrides)
	}

	if supported, ok := overridesMap[support.SupportedKey].(bool); ok && !supported {
		version, ok := overridesMap[VersionKey]
		if !ok {
			version = defaultVersion(defaultsMap)
		}
		return map[string]any{
			VersionKey:           version,
			support.SupportedKey: false,
		}, nil
	}

	return merge.Enhanced(defaultsMap, overridesMap), nil
}

// MergedConfiguration produces the full configuration for a provider by
// applying the substituted provider template over the substituted defaults
// with tombstone semantics, so a null in the provider template removes the
// default outright. Unsupported providers yield the two-key sentinel.
func (r *Reconciler) MergedConfiguration(softwareName string, provider string, repositoryData any, extraVars map[string]string) map[string]any {
	defer perf.Track(nil, "reconcile.MergedConfiguration")()

	defaults := r.templates.LoadDefault()
	version := defaultVersion(defaults)

	if !r.support.IsSupported(softwareName, provider, repositoryData) {
		return map[string]any{
			VersionKey:           version,
			support.SupportedKey: false,
		}
	}

	vars := r.variableContext(softwareName, provider, extraVars)
	substitutedDefaults := condition.Apply(templates.SubstituteTemplate(defaults, vars), vars)
	substitutedProvider := condition.Apply(templates.SubstituteTemplate(r.templates.LoadProvider(provider), vars), vars)

	delete(substitutedProvider, support.SupportedKey)

	merged := merge.Enhanced(substitutedDefaults, substitutedProvider)
	if _, ok := merged[VersionKey]; !ok {
		merged[VersionKey] = version
	}
	return merged
}

func (r *Reconciler) variableContext(softwareName string, provider string, extraVars map[string]string) map[string]string {
	vars := make(map[string]string, len(extraVars)+2)
	for k, v := range extraVars {
		vars[k] = v
	}
	vars[SoftwareNameVariable] = softwareName
	vars[ProviderVariable] = provider
	return vars
}

func defaultVersion(defaults map[string]any) any {
	if version, ok := defaults[VersionKey]; ok && version != nil {
		return version
	}
	return DefaultVersion
}

// diffAgainstDefaults keeps every leaf path of the provider template whose
// value differs from the default value at the same path, or whose path does
// not exist in the defaults. Containers survive only while they hold such
// leaves. Explicit nulls are carried through so the caller can consume them
// as tombstones.
func diffAgainstDefaults(provider map[string]any, defaults map[string]any) map[string]any {
	out := map[string]any{}

	for key, value := range provider {
		defaultValue, exists := defaults[key]

		if value == nil {
			// Tombstone for an existing default; a null with no default
			// underneath carries no information.
			if exists && defaultValue != nil {
				out[key] = nil
			}
			continue
		}

		valueMap, valueIsMap := value.(map[string]any)
		if valueIsMap {
			defaultMap, defaultIsMap := defaultValue.(map[string]any)
			if exists && defaultIsMap {
				child := diffAgainstDefaults(valueMap, defaultMap)
				if len(child) > 0 {
					out[key] = child
				}
				continue
			}
			out[key] = valueMap
			continue
		}

		if !exists || !cmp.Equal(value, defaultValue) {
			out[key] = value
		}
	}

	return out
}
