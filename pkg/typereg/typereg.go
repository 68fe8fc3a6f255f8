// Package typereg maps symbolic type names to concrete type descriptors.
// Bindings are registered at startup and assumed stable for the process
// lifetime; resolution goes through a bounded LRU cache so repeated chain
// construction does not pay the registry lookup each time.
package typereg

import (
	"container/list"
	"fmt"
	"reflect"
	"sync"
)

// DefaultCacheCapacity bounds the resolver cache when no capacity is
// configured.
const DefaultCacheCapacity = 20

// TypeLoadError reports a symbolic type name that could not be resolved.
type TypeLoadError struct {
	Name string
}

func (e *TypeLoadError) Error() string {
	return fmt.Sprintf("typereg: cannot resolve type %q", e.Name)
}

// Registry holds the symbolic-name to reflect.Type bindings.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register binds name to t, replacing any previous binding.
func (r *Registry) Register(name string, t reflect.Type) {
	if name == "" || t == nil {
		return
	}
	r.mu.Lock()
	r.types[name] = t
	r.mu.Unlock()
}

// RegisterFor binds name to the type parameter T.
func RegisterFor[T any](r *Registry, name string) {
	r.Register(name, reflect.TypeFor[T]())
}

// Lookup returns the binding for name without touching any cache.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()
	return t, ok
}

// Default is the process-wide registry used when none is injected.
var Default = NewRegistry()

// Resolver fronts a registry with a bounded least-recently-used cache.
// A single mutex serializes the whole read-or-populate path: concurrent
// resolution is safe but not parallel for one resolver. There is no
// invalidation; entries only leave by eviction.
type Resolver struct {
	mu      sync.Mutex
	reg     *Registry
	cap     int
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	lookups int
}

type cacheEntry struct {
	name string
	typ  reflect.Type
	ok   bool
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*Resolver)

// WithCapacity overrides the cache capacity.
func WithCapacity(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.cap = n
		}
	}
}

// NewResolver builds a resolver over reg, or over Default when reg is nil.
func NewResolver(reg *Registry, opts ...ResolverOption) *Resolver {
	if reg == nil {
		reg = Default
	}
	r := &Resolver{
		reg:     reg,
		cap:     DefaultCacheCapacity,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the concrete type bound to name, consulting the cache
// first. Misses are cached too, so a name that resolves to nothing does
// not hit the registry on every request.
func (r *Resolver) Resolve(name string) (reflect.Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, hit := r.entries[name]; hit {
		r.order.MoveToFront(el)
		entry := el.Value.(*cacheEntry)
		return entry.typ, entry.ok
	}

	r.lookups++
	t, ok := r.reg.Lookup(name)

	if r.order.Len() >= r.cap {
		oldest := r.order.Back()
		if oldest != nil {
			r.order.Remove(oldest)
			delete(r.entries, oldest.Value.(*cacheEntry).name)
		}
	}
	r.entries[name] = r.order.PushFront(&cacheEntry{name: name, typ: t, ok: ok})
	return t, ok
}

// MustResolve returns the concrete type bound to name or a TypeLoadError.
func (r *Resolver) MustResolve(name string) (reflect.Type, error) {
	t, ok := r.Resolve(name)
	if !ok {
		return nil, &TypeLoadError{Name: name}
	}
	return t, nil
}

// Lookups reports how many cache misses reached the underlying registry.
func (r *Resolver) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}
