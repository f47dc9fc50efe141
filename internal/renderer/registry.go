package renderer

import (
	"slices"
	"sync"
)

// Factory creates a plugin instance for one renderer. The returned value is
// subscribed to every lifecycle signal whose handler interface it implements.
type Factory func(r *Renderer) (any, error)

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{
	factories: make(map[string]Factory),
}

// Register makes a plugin available by name. It is meant to be called from a
// plugin package's init and panics on a nil factory or a duplicate name.
func Register(name string, f Factory) {
	registry.Lock()
	defer registry.Unlock()
	if f == nil {
		panic("renderer: Register factory is nil for " + name)
	}
	if _, dup := registry.factories[name]; dup {
		panic("renderer: Register called twice for " + name)
	}
	registry.factories[name] = f
}

// Plugins returns the sorted names of the registered plugins.
func Plugins() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func lookup(name string) Factory {
	registry.RLock()
	defer registry.RUnlock()
	return registry.factories[name]
}
