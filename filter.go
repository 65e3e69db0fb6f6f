package ecs

import "github.com/TheBitDrifter/bark"

// Filter is a live, incrementally-maintained view of every entity in a
// World that currently satisfies a Mask. Entities() is safe to
// call every frame; the dense slice is only ever touched by the world's
// own pool-change notifications, never recomputed from scratch.
type Filter struct {
	world *World
	mask  Mask

	dense       []Entity
	sparseIndex []int
}

func newFilter(w *World, m Mask) *Filter {
	f := &Filter{
		world:       w,
		mask:        m,
		sparseIndex: make([]int, w.capacity()),
	}
	for i := range f.sparseIndex {
		f.sparseIndex[i] = -1
	}
	return f
}

// Entities returns the filter's current membership. The returned slice is
// owned by the filter and is only valid until the next pool mutation;
// callers that need a stable snapshot should copy it.
func (f *Filter) Entities() []Entity {
	return f.dense
}

// Len reports the current membership count.
func (f *Filter) Len() int {
	return len(f.dense)
}

func (f *Filter) contains(e Entity) bool {
	return int(e) < len(f.sparseIndex) && f.sparseIndex[e] != -1
}

func (f *Filter) add(e Entity) {
	if Config.Debug && f.contains(e) {
		panic(bark.AddTrace(FilterInvariantError{World: f.world.name, Entity: e}))
	}
	f.sparseIndex[e] = len(f.dense)
	f.dense = append(f.dense, e)
}

func (f *Filter) remove(e Entity) {
	idx := f.sparseIndex[e]
	if Config.Debug && idx == -1 {
		panic(bark.AddTrace(FilterInvariantError{World: f.world.name, Entity: e}))
	}
	last := len(f.dense) - 1
	moved := f.dense[last]
	f.dense[idx] = moved
	f.sparseIndex[moved] = idx
	f.dense = f.dense[:last]
	f.sparseIndex[e] = -1
}

// resize extends sparseIndex to capacity, marking new slots as absent.
func (f *Filter) resize(capacity int) {
	if len(f.sparseIndex) >= capacity {
		return
	}
	grown := make([]int, capacity)
	copy(grown, f.sparseIndex)
	for i := len(f.sparseIndex); i < capacity; i++ {
		grown[i] = -1
	}
	f.sparseIndex = grown
}

// FilterBuilder builds a Filter against the world it was obtained from via
// World.NewFilter. Inc/Exc may be chained freely; End() finalizes and
// registers it.
type FilterBuilder struct {
	world       *World
	maskBuilder *MaskBuilder
}

// Inc adds include type ids to the filter's mask.
func (b *FilterBuilder) Inc(ids ...TypeID) *FilterBuilder {
	b.maskBuilder.Inc(ids...)
	return b
}

// Exc adds exclude type ids to the filter's mask.
func (b *FilterBuilder) Exc(ids ...TypeID) *FilterBuilder {
	b.maskBuilder.Exc(ids...)
	return b
}

// End finalizes the mask under construction. If an equivalent filter
// (same content hash) already exists on this world, it is returned as-is
// instead of building a duplicate.
func (b *FilterBuilder) End() (*Filter, error) {
	m, err := b.maskBuilder.End()
	if err != nil {
		return nil, err
	}
	if existing, ok := b.world.filterByHash[m.Hash]; ok {
		return existing, nil
	}

	f := newFilter(b.world, m)
	b.world.registerFilter(f)
	return f, nil
}
