package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ferrovax/amx/internal/shared"
)

// GenreDictionary is an additive mapping of genre name to catalog genre
// ID. IDs are stable per name upstream, so recording an existing name
// simply overwrites with the same value.
//
// Dictionaries are scoped to one aggregation/session but are still
// mutex-guarded: batch lookup workers record into them concurrently.
type GenreDictionary struct {
	mu  sync.RWMutex
	ids map[string]string
}

// NewGenreDictionary creates an empty GenreDictionary.
func NewGenreDictionary() *GenreDictionary {
	return &GenreDictionary{ids: make(map[string]string)}
}

// Record adds the given genres to the dictionary.
func (d *GenreDictionary) Record(genres []Genre) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, g := range genres {
		if g.Name == "" || g.ID == "" {
			continue
		}
		d.ids[g.Name] = g.ID
	}
}

// Lookup returns the catalog ID for a genre name.
func (d *GenreDictionary) Lookup(name string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.ids[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrGenreNotFound, name)
	}
	return id, nil
}

// Len returns the number of recorded genres.
func (d *GenreDictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ids)
}

// Names returns all recorded genre names in sorted order.
func (d *GenreDictionary) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.ids))
	for name := range d.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a plain copy of the name -> ID mapping.
func (d *GenreDictionary) Snapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.ids))
	for name, id := range d.ids {
		out[name] = id
	}
	return out
}

// SubgenreDictionary is an additive set of subgenre names. Subgenres
// have no stable catalog ID upstream, so only presence is tracked.
type SubgenreDictionary struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewSubgenreDictionary creates an empty SubgenreDictionary.
func NewSubgenreDictionary() *SubgenreDictionary {
	return &SubgenreDictionary{names: make(map[string]struct{})}
}

// Record adds the given subgenre names to the set.
func (d *SubgenreDictionary) Record(names []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range names {
		if name == "" {
			continue
		}
		d.names[name] = struct{}{}
	}
}

// Contains reports whether a subgenre name has been recorded.
func (d *SubgenreDictionary) Contains(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.names[name]
	return ok
}

// Len returns the number of recorded subgenres.
func (d *SubgenreDictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names)
}

// Names returns all recorded subgenre names in sorted order.
func (d *SubgenreDictionary) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.names))
	for name := range d.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
