package resolve

import (
	"iter"
	"maps"
	"slices"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/requirement"
)

// Map is the resolution map: Key to Entry, in insertion order. An entry is
// written once; later writes for the same key are refused. The map also
// links each resolved requirement to its key, which is how dependency
// edges are followed.
//
// A Map is not safe for concurrent mutation. Results hand it out read-only.
type Map struct {
	order   []Key
	entries map[Key]Entry
	links   map[identity]Key
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[Key]Entry), links: make(map[identity]Key)}
}

// Insert writes e under k. It returns an error carrying
// [errors.ErrCodeInternal] if k is already present, leaving the existing
// entry untouched.
func (m *Map) Insert(k Key, e Entry) error {
	if _, ok := m.entries[k]; ok {
		return errors.New(errors.ErrCodeInternal, "entry for %s already written", k)
	}
	m.entries[k] = slices.Clone(e)
	m.order = append(m.order, k)
	return nil
}

// Has reports whether k has been written.
func (m *Map) Has(k Key) bool {
	_, ok := m.entries[k]
	return ok
}

// Get returns the entry for k.
func (m *Map) Get(k Key) (Entry, bool) {
	e, ok := m.entries[k]
	return slices.Clone(e), ok
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.order) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Key { return slices.Clone(m.order) }

// All iterates over the map in insertion order.
func (m *Map) All() iter.Seq2[Key, Entry] {
	return func(yield func(Key, Entry) bool) {
		for _, k := range m.order {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// Link records that requests for s were resolved to k. Only the first link
// for a requirement is kept; k must already be written.
func (m *Map) Link(s requirement.Spec, k Key) {
	id := newRequest(s, 0).identity()
	if _, ok := m.links[id]; !ok {
		m.links[id] = k
	}
}

// Resolved returns the key a dependency was resolved to during the run.
// It reports false for dependencies that were dropped or never expanded,
// for example past the depth or node limit.
func (m *Map) Resolved(d requirement.Dependency) (Key, bool) {
	k, ok := m.links[newRequest(d.Spec(), 0).identity()]
	return k, ok
}

// Equal reports whether both maps hold the same keys, in the same order,
// with equal entries and links.
func (m *Map) Equal(o *Map) bool {
	if !slices.Equal(m.order, o.order) || !maps.Equal(m.links, o.links) {
		return false
	}
	for _, k := range m.order {
		if !slices.Equal(m.entries[k], o.entries[k]) {
			return false
		}
	}
	return true
}
