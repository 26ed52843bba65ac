package sim

import "fmt"

// Registry is a named-provider lookup for policy and reader plug-ins
// (spec §4.7). It maps a string key to a zero-argument factory and is
// built once during host initialization, then passed into the
// simulation — never a process-wide mutable singleton (spec §9).
type Registry[T any] struct {
	factories   map[string]func() T
	defaultName string
}

// NewRegistry returns an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]func() T)}
}

// Register associates name with factory. Registering the same name twice
// replaces the previous factory.
func (r *Registry[T]) Register(name string, factory func() T) {
	r.factories[name] = factory
}

// SetDefault marks name as the default to use when Get is called with an
// empty string. Panics if name has not been registered.
func (r *Registry[T]) SetDefault(name string) {
	if _, ok := r.factories[name]; !ok {
		panic(fmt.Sprintf("Registry.SetDefault: %q is not registered", name))
	}
	r.defaultName = name
}

// Get constructs a new instance for name, or for the registered default
// if name is empty. Returns an error if name is unknown or no default has
// been set.
func (r *Registry[T]) Get(name string) (T, error) {
	var zero T
	if name == "" {
		if r.defaultName == "" {
			return zero, fmt.Errorf("registry: no name given and no default set")
		}
		name = r.defaultName
	}
	factory, ok := r.factories[name]
	if !ok {
		return zero, fmt.Errorf("registry: unknown provider %q", name)
	}
	return factory(), nil
}

// Names returns every registered provider name.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}
