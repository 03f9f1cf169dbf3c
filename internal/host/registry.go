package host

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the extensions the host has loaded, keyed by
// language-server name. Each registration is assigned a unique
// ServerID so the host can tell instances apart across restarts.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
	ids        map[string]ServerID
}

// NewRegistry creates an empty extension registry.
func NewRegistry() *Registry {
	return &Registry{
		extensions: make(map[string]Extension),
		ids:        make(map[string]ServerID),
	}
}

// Register records an extension under the given language-server name
// and returns the ServerID assigned to it. Registering the same name
// again replaces the extension and assigns a fresh ID.
func (r *Registry) Register(name string, ext Extension) ServerID {
	id := ServerID{name: name, instance: uuid.NewString()}

	r.mu.Lock()
	r.extensions[name] = ext
	r.ids[name] = id
	r.mu.Unlock()

	return id
}

// Lookup returns the extension and ServerID registered under name.
func (r *Registry) Lookup(name string) (Extension, ServerID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, ok := r.extensions[name]
	if !ok {
		return nil, ServerID{}, false
	}
	return ext, r.ids[name], true
}

// RegisteredServers returns the registered language-server names in
// sorted order.
func (r *Registry) RegisteredServers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extensions))
	for name := range r.extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
