package ecs

import "fmt"

// PoolNotRegisteredError reports use of a pool before RegisterComponent registered it.
type PoolNotRegisteredError struct {
	World string
	Type  TypeID
}

func (e PoolNotRegisteredError) Error() string {
	return fmt.Sprintf("world %q: pool for type %d is not registered", e.World, e.Type)
}

// PoolAlreadyExistsError reports a duplicate pool registration.
type PoolAlreadyExistsError struct {
	World string
	Type  TypeID
}

func (e PoolAlreadyExistsError) Error() string {
	return fmt.Sprintf("world %q: pool for type %d is already registered", e.World, e.Type)
}

// InvalidEntityError reports an out-of-range or dead entity access.
type InvalidEntityError struct {
	World  string
	Entity Entity
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("world %q: entity %v is invalid or dead", e.World, e.Entity)
}

// AlreadyPresentError reports Add on an entity that already carries the component.
type AlreadyPresentError struct {
	World  string
	Entity Entity
	Type   TypeID
}

func (e AlreadyPresentError) Error() string {
	return fmt.Sprintf("world %q: entity %v already has component %d", e.World, e.Entity, e.Type)
}

// NotPresentError reports Get/Transfer/Swap/Clone on a missing component
// (Del on a missing component is a no-op).
type NotPresentError struct {
	World  string
	Entity Entity
	Type   TypeID
}

func (e NotPresentError) Error() string {
	return fmt.Sprintf("world %q: entity %v has no component %d", e.World, e.Entity, e.Type)
}

// InvalidMaskError reports a duplicate or include/exclude overlap in a mask build.
type InvalidMaskError struct {
	Include []TypeID
	Exclude []TypeID
}

func (e InvalidMaskError) Error() string {
	return fmt.Sprintf("invalid mask: include %v, exclude %v overlap or contain duplicates", e.Include, e.Exclude)
}

// LeakedEntityError reports the debug post-hook scan finding an alive
// entity with zero components present, after a PreInit/Init/Destroy/
// PostDestroy hook call returned.
type LeakedEntityError struct {
	World  string
	Entity Entity
}

func (e LeakedEntityError) Error() string {
	return fmt.Sprintf("world %q: entity %v leaked with zero components", e.World, e.Entity)
}

// FilterInvariantError reports a filter's dense/sparse bookkeeping caught
// in an inconsistent state (e.g. adding an entity already present) --
// always a bug in the incremental membership update itself, not a
// reportable user-facing condition.
type FilterInvariantError struct {
	World  string
	Entity Entity
}

func (e FilterInvariantError) Error() string {
	return fmt.Sprintf("world %q: filter membership corrupted at entity %v", e.World, e.Entity)
}

// UnknownGroupError reports toggling a group the builder never created.
type UnknownGroupError struct {
	Name string
}

func (e UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q", e.Name)
}

// BuilderMisconfigurationError reports misuse of the builder or of what it
// configured (no world registered, a world with an empty name, a missing
// or mistyped injected value, an unknown tick mode).
type BuilderMisconfigurationError struct {
	Reason string
}

func (e BuilderMisconfigurationError) Error() string {
	return fmt.Sprintf("builder misconfigured: %s", e.Reason)
}
