package recording

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// BackendFactory creates a fresh backend for one playback.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available to NewBackend under name. Backend
// packages call it from init, so importing the package for its side effect
// is enough:
//
//	import _ "github.com/gogpu/motion/recording/backends/svg"
//
// Register panics on a nil factory or a name that is already taken.
func Register(name string, factory BackendFactory) {
	if factory == nil {
		panic("recording: nil factory for backend " + name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := backends[name]; dup {
		panic("recording: backend " + name + " registered twice")
	}
	backends[name] = factory
}

// NewBackend returns a new instance of the named backend. The error for
// an unknown name lists the registered backends.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if ok {
		return factory(), nil
	}

	known := Backends()
	if len(known) == 0 {
		return nil, fmt.Errorf("recording: unknown backend %q: none registered (forgotten import?)", name)
	}
	return nil, fmt.Errorf("recording: unknown backend %q (have %s)", name, strings.Join(known, ", "))
}

// Backends returns the registered backend names in alphabetical order.
func Backends() []string {
	registryMu.RLock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	registryMu.RUnlock()
	slices.Sort(names)
	return names
}
