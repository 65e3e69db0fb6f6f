package ecs

import (
	"reflect"
	"time"
)

// Builder accumulates worlds, systems, and injected values, then produces
// a ready-to-run Dispatcher via Finish. Its Set* methods stage
// configuration for whichever system the next Add call registers; each
// Add consumes and resets the staged configuration back to its default
// (TickLoose, zero delay, no group).
type Builder struct {
	worlds    map[string]*World
	systems   []*TickedSystem
	declarers []Declarer
	groups    *groupRegistry
	injected  map[string]any

	singletonFactories map[reflect.Type]func() any

	pendingMode  TickMode
	pendingDelay time.Duration
	pendingGroup string
}

// NewBuilder starts an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		worlds:             make(map[string]*World),
		groups:             newGroupRegistry(),
		injected:           make(map[string]any),
		singletonFactories: make(map[reflect.Type]func() any),
	}
}

// SetTickMode stages the TickMode the next Add call will use.
func (b *Builder) SetTickMode(mode TickMode) *Builder {
	b.pendingMode = mode
	return b
}

// SetTickDelay stages the delay the next Add call will use (meaningful
// for TickSemiLoose, TickSemiFixed and TickFixed; TickLoose ignores it).
func (b *Builder) SetTickDelay(d time.Duration) *Builder {
	b.pendingDelay = d
	return b
}

// SetGroup stages the group name the next Add call will join, creating
// the group (enabled by default) if this is the first reference to it.
func (b *Builder) SetGroup(name string) *Builder {
	b.pendingGroup = name
	if _, err := b.groups.get(name); err != nil {
		b.groups.define(name)
	}
	return b
}

// ClearGroup clears any staged group so the next Add call joins none.
func (b *Builder) ClearGroup() *Builder {
	b.pendingGroup = ""
	return b
}

// AddWorld registers a world under its Name(), making it resolvable from
// SystemArgs.World inside any system's Run.
func (b *Builder) AddWorld(w *World) *Builder {
	b.worlds[w.Name()] = w
	return b
}

// Add registers sys using whatever TickMode, delay, and group are
// currently staged, then resets the staging back to defaults. If sys
// implements Declarer, its Declare result drives conflict-graph
// placement; otherwise it is conservatively scheduled as a wildcard
// writer, serializing it against everything else.
func (b *Builder) Add(sys RunSystem) *Builder {
	idx := len(b.systems)
	b.systems = append(b.systems, &TickedSystem{
		System: sys,
		Mode:   b.pendingMode,
		Delay:  b.pendingDelay,
	})

	decl, _ := sys.(Declarer)
	b.declarers = append(b.declarers, decl)

	if b.pendingGroup != "" {
		g, err := b.groups.get(b.pendingGroup)
		if err == nil {
			g.systems = append(g.systems, idx)
		}
	}

	b.pendingMode = TickLoose
	b.pendingDelay = 0
	b.pendingGroup = ""
	return b
}

// Inject makes value resolvable from inside a system's Run via the
// package-level Injected function, keyed by name.
func (b *Builder) Inject(name string, value any) *Builder {
	b.injected[name] = value
	return b
}

// InjectSingleton registers factory as the lazy constructor for T's
// singleton (one per Dispatcher), resolved from inside a system's Run via the
// package-level Singleton function. Without a registered factory,
// Singleton falls back to a zero-value T.
func InjectSingleton[T any](b *Builder, factory func() *T) *Builder {
	rt := reflect.TypeFor[T]()
	b.singletonFactories[rt] = func() any { return factory() }
	return b
}

// Finish validates the accumulated configuration and produces a
// Dispatcher with workerCount total workers (the calling goroutine plus
// workerCount-1 background goroutines spawned by Dispatcher.Init).
func (b *Builder) Finish(workerCount int) (*Dispatcher, error) {
	if len(b.worlds) == 0 {
		return nil, BuilderMisconfigurationError{Reason: "no worlds registered"}
	}
	if _, ok := b.worlds[""]; ok {
		return nil, BuilderMisconfigurationError{Reason: "world registered with an empty name"}
	}
	if workerCount < 1 {
		workerCount = 1
	}

	d := &Dispatcher{
		worlds:             b.worlds,
		systems:            b.systems,
		declarers:          b.declarers,
		groups:             b.groups,
		injected:           b.injected,
		singletons:         make(map[reflect.Type]any),
		singletonFactories: b.singletonFactories,
		workerCount:        workerCount,
	}
	d.frame.dispatcher = d
	return d, nil
}
