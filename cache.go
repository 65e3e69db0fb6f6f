package ecs

import "fmt"

// Cache is a fixed-capacity, string-keyed registry of T values backed by a
// dense slice plus a name index. World uses one to back named-entity
// lookups (World.Tag / World.Named); nothing stops a caller from using
// NewCache directly for its own named resources.
type Cache[T any] interface {
	GetIndex(key string) (int, bool)
	GetItem(index int) *T
	GetItem32(index uint32) *T
	Register(key string, item T) (int, error)
	Clear()
}

var _ Cache[any] = &SimpleCache[any]{}

// SimpleCache is the default Cache implementation.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// NewCache creates a SimpleCache with room for at most capacity entries.
func NewCache[T any](capacity int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int, capacity),
		maxCapacity: capacity,
	}
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

// Register stores item under key, failing once the cache reaches its
// configured maxCapacity or key is already registered.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, fmt.Errorf("cache: key %q already registered", key)
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	c.itemIndices = make(map[string]int, c.maxCapacity)
}
