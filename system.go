package ecs

import "time"

// SystemArgs is the per-call context handed to a system's Run method: the
// current frame delta (already resolved by the system's TickMode), the
// frame number, and accessors back into the worlds and injected values
// the dispatcher owns.
type SystemArgs struct {
	Dt          time.Duration
	FrameNumber uint64
	dispatcher  *Dispatcher
}

// World resolves a world by name for use inside Run. Panics (via a
// trace-wrapped error) if the name was never registered on the builder
// that produced this dispatcher -- a programmer error, not a runtime one.
func (a SystemArgs) World(name string) *World {
	return a.dispatcher.mustWorld(name)
}

// Injected resolves a value the builder injected under name.
func Injected[T any](a SystemArgs, name string) T {
	return injectedValue[T](a.dispatcher, name)
}

// Singleton resolves the dispatcher's singleton for T, creating it with
// the builder-registered factory on first access.
func Singleton[T any](a SystemArgs) *T {
	return singletonValue[T](a.dispatcher)
}

// RunSystem is the minimal contract every scheduled system satisfies.
type RunSystem interface {
	Run(args SystemArgs) error
}

// PreIniter runs once, after bucket planning and before any system's Init,
// while every system can still freely mutate shared setup state without
// racing the dispatcher's worker goroutines (they are not started yet).
type PreIniter interface {
	PreInit(args SystemArgs) error
}

// Initer runs once, after bucket planning but before the first tick.
type Initer interface {
	Init(args SystemArgs) error
}

// Destroyer runs once, during dispatcher teardown, before worlds are
// disposed.
type Destroyer interface {
	Destroy(args SystemArgs) error
}

// PostDestroyer runs once, after every system's Destroy has completed and
// every world has been disposed.
type PostDestroyer interface {
	PostDestroy(args SystemArgs) error
}
