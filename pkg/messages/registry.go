package messages

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages catalogs by locale.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewRegistry creates a registry preloaded with the embedded catalogs.
func NewRegistry() (*Registry, error) {
	r := &Registry{catalogs: make(map[string]*Catalog)}

	entries, err := builtinFS.ReadDir("catalogs")
	if err != nil {
		return nil, fmt.Errorf("list builtin catalogs: %w", err)
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile("catalogs/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog %s: %w", e.Name(), err)
		}
		c, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("builtin catalog %s: %w", e.Name(), err)
		}
		r.catalogs[c.Locale] = c
	}
	return r, nil
}

// Register adds or replaces a catalog. User-supplied files may override a
// builtin locale.
func (r *Registry) Register(c *Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[c.Locale] = c
}

// Get returns the catalog for locale.
func (r *Registry) Get(locale string) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if locale == "" {
		locale = DefaultLocale
	}
	c, ok := r.catalogs[locale]
	if !ok {
		return nil, fmt.Errorf("catalog %q not found", locale)
	}
	return c, nil
}

// Locales returns all registered locales in sorted order.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locales := make([]string, 0, len(r.catalogs))
	for l := range r.catalogs {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}
