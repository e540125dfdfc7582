// Package assets dispatches asset files to loaders and keeps the resulting meshes.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-obj/internal/logger"
	"github.com/Faultbox/midgard-obj/internal/mesh"
)

// ErrUnsupportedFormat is returned when no loader is registered for a file's extension.
var ErrUnsupportedFormat = errors.New("unsupported asset format")

// Handle identifies a loaded asset. The zero Handle is never issued.
type Handle uint64

// Manager loads files from a filesystem root and registers each result as
// the default asset of its path.
type Manager struct {
	root     fs.FS
	registry *Registry
	cache    *Cache
	meshes   map[Handle]*mesh.Mesh
	next     Handle
	mu       sync.RWMutex
}

// NewManager creates a manager reading from root. A nil registry means DefaultRegistry.
func NewManager(root fs.FS, registry *Registry) *Manager {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Manager{
		root:     root,
		registry: registry,
		cache:    NewCache(),
		meshes:   make(map[Handle]*mesh.Mesh),
	}
}

// Load converts the file at p (slash-separated, relative to the root) and
// returns its handle. Already loaded paths return the existing handle.
// Nothing is registered when reading or conversion fails.
func (m *Manager) Load(p string) (Handle, error) {
	if h, ok := m.cache.Get(p); ok {
		return h, nil
	}

	fn, ok := m.registry.ForPath(p)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(p))
	}

	data, err := fs.ReadFile(m.root, p)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", p, err)
	}

	msh, err := fn(data)
	if err != nil {
		logger.Warn("asset load failed", zap.String("path", p), zap.Error(err))
		return 0, fmt.Errorf("loading %s: %w", p, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have finished the same path meanwhile
	if h, ok := m.cache.Peek(p); ok {
		return h, nil
	}
	m.next++
	h := m.next
	m.meshes[h] = msh
	m.cache.Set(p, h)

	logger.Debug("asset loaded",
		zap.String("path", p),
		zap.Uint64("handle", uint64(h)),
		zap.Int("vertices", msh.VertexCount()),
		zap.Int("triangles", msh.TriangleCount()),
	)
	return h, nil
}

// Get returns the mesh registered under h.
func (m *Manager) Get(h Handle) (*mesh.Mesh, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msh, ok := m.meshes[h]
	return msh, ok
}

// Handle returns the handle of an already loaded path.
func (m *Manager) Handle(p string) (Handle, bool) {
	return m.cache.Peek(p)
}

// Len returns the number of registered assets.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.meshes)
}

// Stats returns path cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all registered assets.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meshes = make(map[Handle]*mesh.Mesh)
	m.cache.Clear()
}

// Cache maps asset paths to handles.
type Cache struct {
	data map[string]Handle
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Handle),
	}
}

// Get retrieves a handle and records a hit or miss.
func (c *Cache) Get(key string) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return h, ok
}

// Peek retrieves a handle without touching the statistics.
func (c *Cache) Peek(key string) (Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.data[key]
	return h, ok
}

// Set stores a handle.
func (c *Cache) Set(key string, h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = h
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]Handle)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
