package ecs

// factory implements the factory pattern for the package's top-level
// construction entry points: the handful of types a caller builds
// directly rather than through the Builder (worlds, caches, the builder
// itself).
type factory struct{}

// Factory is the global factory instance for creating worlds, builders,
// and named caches.
var Factory factory

// NewWorld creates a new World with the given name.
func (f factory) NewWorld(name string) *World {
	return NewWorld(name)
}

// NewBuilder creates a new, empty Builder.
func (f factory) NewBuilder() *Builder {
	return NewBuilder()
}

// NewCache creates a new named-value Cache with the given capacity.
func (f factory) NewCache(capacity int) Cache[any] {
	return NewCache[any](capacity)
}
