package registry

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/paths"
)

// Registry holds the last known set of managed paths. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	base        string
	items       map[string]struct{}
	stale       bool
	refreshedAt time.Time
}

// New creates an empty, stale registry. Relative paths given to Refresh are
// resolved against base, the destination directory of the dotfile manager
// (usually the home directory).
func New(base string) *Registry {
	return &Registry{
		base:  base,
		items: make(map[string]struct{}),
		stale: true,
	}
}

// Refresh replaces the whole set with managed and clears the stale flag.
// Entries that cannot be canonicalised are skipped.
func (r *Registry) Refresh(managed []string) {
	logger := logging.GetLogger("registry")

	items := make(map[string]struct{}, len(managed))
	for _, p := range managed {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) && p[0] != '~' && r.base != "" {
			p = filepath.Join(r.base, p)
		}
		canonical, err := paths.Canonical(p)
		if err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Skipping managed path")
			continue
		}
		items[canonical] = struct{}{}
	}

	r.mu.Lock()
	r.items = items
	r.stale = false
	r.refreshedAt = time.Now()
	r.mu.Unlock()

	logger.Debug().Int("count", len(items)).Msg("Registry refreshed")
}

// Contains reports whether path is in the last snapshot. It never refreshes;
// callers check Stale when freshness matters.
func (r *Registry) Contains(path string) bool {
	canonical, err := paths.Canonical(path)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[canonical]
	return ok
}

// Invalidate marks the snapshot stale. The contents are kept.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.stale = true
	r.mu.Unlock()
}

// Stale reports whether the snapshot needs a refresh before being trusted
func (r *Registry) Stale() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale
}

// Len returns the number of managed paths
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Paths returns the managed paths sorted
func (r *Registry) Paths() []string {
	r.mu.RLock()
	result := make([]string, 0, len(r.items))
	for p := range r.items {
		result = append(result, p)
	}
	r.mu.RUnlock()

	sort.Strings(result)
	return result
}

// RefreshedAt returns when Refresh last ran; zero if never
func (r *Registry) RefreshedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshedAt
}
