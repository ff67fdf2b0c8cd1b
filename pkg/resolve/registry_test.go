package resolve

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

var errUnavailable = errors.New("registry down")

// memRegistry is a frozen in-memory registry snapshot.
type memRegistry struct {
	versions map[string][]string // name -> releases
	deps     map[string][]string // "name@version" -> requires_dist lines
	failing  map[string]bool     // names whose Versions call fails

	mu    sync.Mutex
	calls []string
}

func newMemRegistry() *memRegistry {
	return &memRegistry{
		versions: make(map[string][]string),
		deps:     make(map[string][]string),
		failing:  make(map[string]bool),
	}
}

// release registers name==version with the given dependency lines.
func (m *memRegistry) release(name, version string, deps ...string) *memRegistry {
	m.versions[name] = append(m.versions[name], version)
	m.deps[name+"@"+version] = deps
	return m
}

func (m *memRegistry) Versions(_ context.Context, name string) ([]string, error) {
	m.record("versions:" + name)
	if m.failing[name] {
		return nil, errUnavailable
	}
	return slices.Clone(m.versions[name]), nil
}

func (m *memRegistry) Dependencies(_ context.Context, name, version string) ([]string, error) {
	m.record("deps:" + name + "@" + version)
	return slices.Clone(m.deps[name+"@"+version]), nil
}

func (m *memRegistry) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *memRegistry) count(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *memRegistry) called(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
