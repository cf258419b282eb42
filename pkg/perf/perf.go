package perf

import (
	"sort"
	"sync"
	"time"

	"github.com/packmeta/packmeta/pkg/schema"
)

// Metric accumulates call counts and total elapsed time for one tracked function.
type Metric struct {
	Name  string
	Count int64
	Total time.Duration
}

var (
	mu      sync.Mutex
	metrics = map[string]*Metric{}
	enabled = true
)

// SetEnabled turns tracking on or off globally.
func SetEnabled(v bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = v
}

// Track records a call of the named function. Use as:
//
//	defer perf.Track(cfg, "merge.Enhanced")()
//
// The configuration argument is accepted for call-site symmetry; a nil
// configuration is fine.
func Track(_ *schema.Configuration, name string) func() {
	mu.Lock()
	on := enabled
	mu.Unlock()
	if !on {
		return func() {}
	}

	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		mu.Lock()
		defer mu.Unlock()
		m, ok := metrics[name]
		if !ok {
			m = &Metric{Name: name}
			metrics[name] = m
		}
		m.Count++
		m.Total += elapsed
	}
}

// Snapshot returns a copy of all collected metrics sorted by name.
func Snapshot() []Metric {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Metric, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset clears all collected metrics.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	metrics = map[string]*Metric{}
}
