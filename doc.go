/*
Package ecs provides a sparse-set Entity-Component-System runtime with a
static conflict-graph scheduler.

Storage is per-type: each registered component lives in its own sparse-set
pool (dense array of values, sparse array of entity-id to dense-index), not
in an archetype table. Systems declare, ahead of time, which (world,
component type) pairs they read and write; a builder groups systems into
ordered "buckets" of mutually non-conflicting systems and a barrier-
synchronized worker pool runs one bucket at a time, in parallel within a
bucket, sequentially across buckets.

Core Concepts:

  - World: owns a set of registered pools, the entity table, and filters.
  - Pool: a sparse-set store for a single component type within a world.
  - Filter: the live, incrementally maintained set of entities matching an
    include/exclude mask over component types.
  - Bucket: a set of systems the scheduler has proven safe to run together.
  - Dispatcher: drives the ordered bucket list across N worker goroutines,
    once per frame.

Basic Usage:

	w := ecs.NewWorld("main")
	position, _ := ecs.RegisterComponent[Position](w)
	velocity, _ := ecs.RegisterComponent[Velocity](w)

	e := w.NewEntity()
	position.Add(e)
	vel, _ := velocity.Add(e)
	vel.X = 1

	f, _ := w.NewFilter().Inc(position.ID(), velocity.ID()).End()
	for _, e := range f.Entities() {
		pos, _ := position.Get(e)
		vel, _ := velocity.Get(e)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Builder/Dispatcher Usage:

	dispatcher, err := ecs.NewBuilder().
		AddWorld(w).
		Add(&MovementSystem{}).
		Finish(4)
	if err != nil {
		panic(err)
	}
	if err := dispatcher.Init(); err != nil {
		panic(err)
	}
	defer dispatcher.Dispose()
	dispatcher.RunFrame(16 * time.Millisecond)
*/
package ecs
