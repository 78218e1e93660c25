package watch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a helper callable from rule expressions, for example
// suffix(current, "@acme"). Every engine also exposes call(name, args...).
type Function func(args ...any) (any, error)

// reservedNames are the variables bound for every rule plus the generic call
// helper. A function with one of these names would hide it.
var reservedNames = map[string]struct{}{
	"key":      {},
	"previous": {},
	"current":  {},
	"values":   {},
	"changed":  {},
	"now":      {},
	"args":     {},
	"call":     {},
}

// FunctionRegistry holds the helpers shared by the rules of one or more
// watchers. Names are case-insensitive.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register adds fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("%w: empty name", ErrInvalidFunction)
	case fn == nil:
		return fmt.Errorf("%w: %q has no body", ErrInvalidFunction, name)
	}
	if _, reserved := reservedNames[key]; reserved {
		return fmt.Errorf("%w: %q", ErrReservedFunction, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	r.functions[key] = fn
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// Clone copies the registry so an evaluator is not affected by later
// registrations.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[strings.ToLower(name)]
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names lists the registered names, lower-cased and sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
