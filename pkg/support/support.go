// Package support decides whether a package provider is believed to carry a
// given piece of software. The decision combines repository evidence, the
// provider's template, and a category heuristic, memoized through an
// advisory key-value cache.
package support

import (
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/packmeta/packmeta/pkg/evidence"
	"github.com/packmeta/packmeta/pkg/perf"
	"github.com/packmeta/packmeta/pkg/schema"
	"github.com/packmeta/packmeta/pkg/store"
	"github.com/packmeta/packmeta/pkg/templates"
)

// SupportedKey is the template key that marks a provider categorically
// unsupported when set to false. True is the unmarked default state and is
// never written out.
const SupportedKey = "supported"

// Resolver answers provider-support questions.
type Resolver struct {
	templates  *templates.Store
	cache      store.Store // advisory; nil disables memoization
	heuristics schema.Heuristics
}

// NewResolver creates a Resolver. The cache may be nil; absence of a cache
// changes the cost of a determination, never its result. Empty heuristic
// lists fall back to the built-in defaults.
func NewResolver(tpls *templates.Store, cache store.Store, heuristics schema.Heuristics) *Resolver {
	if len(heuristics.SystemProviders) == 0 && len(heuristics.LanguageProviders) == 0 {
		heuristics = DefaultHeuristics()
	}
	return &Resolver{
		templates:  tpls,
		cache:      cache,
		heuristics: heuristics,
	}
}

// DefaultHeuristics is the built-in category fallback: system and language
// package managers default to supported, everything more specialized defaults
// to unsupported. Membership is configuration data; these are only the
// compiled-in defaults.
func DefaultHeuristics() schema.Heuristics {
	return schema.Heuristics{
		SystemProviders: []string{
			"apt", "yum", "dnf", "pacman", "zypper", "apk", "brew", "winget",
			"choco", "scoop", "snap", "flatpak", "nix", "portage", "emerge",
			"pkg", "xbps",
		},
		LanguageProviders: []string{
			"npm", "pypi", "pip",
		},
		SpecializedProviders: []string{
			"cargo", "gem", "composer", "nuget", "maven", "gradle",
		},
	}
}

// CacheKey returns the memoization key for a (provider, software) pair.
func CacheKey(provider string, softwareName string) string {
	return fmt.Sprintf("provider_support:%s:%s:v1", provider, softwareName)
}

// IsSupported decides provider applicability, in priority order:
//
//  1. repository evidence naming the provider is ground truth;
//  2. an explicit `supported: false` in the provider template is an authorial
//     assertion that overrides any heuristic;
//  3. a non-trivial provider template (more than a version stamp) implies
//     support;
//  4. otherwise the category heuristic decides.
//
// Results are memoized by (provider, software); a cache hit short-circuits
// every step. Unknown providers resolve to unsupported rather than erroring,
// so the pipeline always produces a deterministic answer.
func (r *Resolver) IsSupported(softwareName string, provider string, repositoryData any) bool {
	defer perf.Track(nil, "support.IsSupported")()

	key := CacheKey(provider, softwareName)
	if r.cache != nil {
		if value, found, err := r.cache.Get(key); err == nil && found {
			return value
		} else if err != nil {
			log.Debug("support cache unavailable, computing", "key", key, "error", err)
		}
	}

	result := r.resolve(softwareName, provider, repositoryData)

	if r.cache != nil {
		// Duplicate writes from concurrent calls are harmless: the
		// computation is deterministic.
		if err := r.cache.Put(key, result, 0); err != nil {
			log.Debug("support cache write failed", "key", key, "error", err)
		}
	}
	return result
}

func (r *Resolver) resolve(softwareName string, provider string, repositoryData any) bool {
	if evidence.Present(repositoryData, softwareName, provider) {
		return true
	}

	tpl := r.templates.LoadProvider(provider)
	if supported, ok := tpl[SupportedKey].(bool); ok && !supported {
		return false
	}

	if nonTrivialTemplate(tpl) {
		return true
	}

	return r.categoryDefault(provider)
}

// nonTrivialTemplate reports whether a template carries anything beyond a
// version stamp.
func nonTrivialTemplate(tpl map[string]any) bool {
	if len(tpl) == 0 {
		return false
	}
	for key := range tpl {
		if key != "version" {
			return true
		}
	}
	return false
}

func (r *Resolver) categoryDefault(provider string) bool {
	if lo.Contains(r.heuristics.SystemProviders, provider) {
		return true
	}
	if lo.Contains(r.heuristics.LanguageProviders, provider) {
		return true
	}
	return false
}

// InvalidateSoftware drops every cached determination for the named software
// across all providers. Returns the number of entries removed.
func (r *Resolver) InvalidateSoftware(softwareName string) int {
	if r.cache == nil {
		return 0
	}
	removed, err := r.cache.InvalidatePattern("provider_support:*:" + softwareName + ":*")
	if err != nil {
		log.Debug("support cache invalidation failed", "software", softwareName, "error", err)
		return 0
	}
	return removed
}
