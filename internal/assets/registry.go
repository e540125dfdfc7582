package assets

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Faultbox/midgard-obj/internal/loader"
	"github.com/Faultbox/midgard-obj/internal/mesh"
)

// LoaderFunc converts file contents into a mesh.
type LoaderFunc func(data []byte) (*mesh.Mesh, error)

// Registry maps file extensions to loader functions.
type Registry struct {
	loaders map[string]LoaderFunc
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]LoaderFunc),
	}
}

// DefaultRegistry returns a registry with the OBJ loader installed.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(loader.Load, loader.Extensions()...)
	return r
}

// Register binds fn to each extension. Later registrations win.
func (r *Registry) Register(fn LoaderFunc, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.loaders[normalizeExt(ext)] = fn
	}
}

// Lookup returns the loader for an extension ("obj", ".OBJ").
func (r *Registry) Lookup(ext string) (LoaderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.loaders[normalizeExt(ext)]
	return fn, ok
}

// ForPath returns the loader for the extension of p.
func (r *Registry) ForPath(p string) (LoaderFunc, bool) {
	ext := path.Ext(p)
	if ext == "" {
		return nil, false
	}
	return r.Lookup(ext)
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
