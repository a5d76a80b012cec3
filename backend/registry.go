package backend

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend.
	BackendSoftware = "software"
)

// backends holds registered factories. Priority order for selection
// (first available wins).
var backends = gpucontext.NewRegistry[Factory](gpucontext.WithPriority(BackendSoftware))

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	backends.Register(name, func() Factory { return factory })
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	backends.Unregister(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := backends.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return backends.Has(name)
}

// New creates a backend by name.
func New(name string, width, height int) (Backend, error) {
	factory := backends.Get(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(width, height)
}

// Default creates the best available backend.
func Default(width, height int) (Backend, error) {
	factory := backends.Best()
	if factory == nil {
		return nil, ErrBackendNotAvailable
	}
	return factory(width, height)
}

// MustDefault returns the default backend or panics.
func MustDefault(width, height int) Backend {
	b, err := Default(width, height)
	if err != nil {
		panic(err)
	}
	return b
}
