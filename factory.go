package backing

import "sync"

// Factory creates the store for a new model instance.
type Factory interface {
	NewStore() Store
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func() Store

// NewStore implements Factory.
func (f FactoryFunc) NewStore() Store {
	if f == nil {
		return NewInMemoryStore()
	}
	return f()
}

// InMemoryFactory returns a Factory producing InMemoryStore instances
// configured with opts.
func InMemoryFactory(opts ...StoreOption) Factory {
	captured := append([]StoreOption(nil), opts...)
	return FactoryFunc(func() Store {
		return NewInMemoryStore(captured...)
	})
}

// UntrackedFactory returns a Factory producing tracking-disabled stores.
func UntrackedFactory() Factory {
	return FactoryFunc(func() Store {
		return NewUntrackedStore()
	})
}

// Registry holds the factory used by models constructed without an explicit
// one. It can be overridden until it produces its first store; afterwards it
// is sealed so that every model built from it shares the same kind of store.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	sealed  bool
}

var _ Factory = (*Registry)(nil)

// NewRegistry constructs a registry around factory, defaulting to
// InMemoryFactory when nil.
func NewRegistry(factory Factory) *Registry {
	if factory == nil {
		factory = InMemoryFactory()
	}
	return &Registry{factory: factory}
}

// Override replaces the factory. It fails once the registry has produced a
// store.
func (r *Registry) Override(factory Factory) error {
	if factory == nil {
		return ErrNilFactory
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrFactorySealed
	}
	r.factory = factory
	return nil
}

// NewStore creates a store with the current factory and seals the registry.
func (r *Registry) NewStore() Store {
	r.mu.Lock()
	r.sealed = true
	factory := r.factory
	r.mu.Unlock()
	return factory.NewStore()
}

// Sealed reports whether the registry has produced a store.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

var defaultRegistry = NewRegistry(nil)

// DefaultRegistry returns the process-wide registry used when models are
// constructed without a factory. Applications that want tracking disabled
// override it once at startup, before building models.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewStore creates a store from factory, falling back to DefaultRegistry.
func NewStore(factory Factory) Store {
	if factory == nil {
		return defaultRegistry.NewStore()
	}
	return factory.NewStore()
}
