package ecs

import (
	"sort"
	"sync"

	"github.com/TheBitDrifter/mask"
)

// TypeID is a component-type identifier, dense and assigned in per-World
// registration order.
type TypeID uint16

const maskHashMultiplier = 314159

// Mask is an immutable, sorted include/exclude pair of component-type ids
// plus a content hash. The two mask.Mask256 bitsets underneath
// mirror the sorted slices and exist purely so filter membership checks are
// O(1) set containment instead of a linear scan.
type Mask struct {
	Include []TypeID
	Exclude []TypeID
	Hash    uint64

	includeBits mask.Mask256
	excludeBits mask.Mask256
}

func bitsetOf(ids []TypeID) mask.Mask256 {
	var m mask.Mask256
	for _, id := range ids {
		m.Mark(uint32(id))
	}
	return m
}

// isMaskCompatible reports whether an entity whose current component
// bitset is entityBits satisfies m: every include type present, no exclude
// type present.
func isMaskCompatible(entityBits mask.Mask256, m Mask) bool {
	return entityBits.ContainsAll(m.includeBits) && entityBits.ContainsNone(m.excludeBits)
}

// isMaskCompatibleWithout evaluates the same check as isMaskCompatible but
// drops ignore from consideration on both sides, used while a pool mutation
// for ignore is in flight -- as if the change had already/not-yet applied.
func isMaskCompatibleWithout(entityBits mask.Mask256, m Mask, ignore TypeID) bool {
	include := m.includeBits
	exclude := m.excludeBits
	include.Unmark(uint32(ignore))
	exclude.Unmark(uint32(ignore))
	return entityBits.ContainsAll(include) && entityBits.ContainsNone(exclude)
}

// MaskBuilder builds a Mask incrementally. Obtain one from World.newMaskBuilder
// or indirectly via World.NewFilter.
type MaskBuilder struct {
	world   *World
	include []TypeID
	exclude []TypeID
}

// Inc adds include type ids to the mask under construction.
func (b *MaskBuilder) Inc(ids ...TypeID) *MaskBuilder {
	b.include = append(b.include, ids...)
	return b
}

// Exc adds exclude type ids to the mask under construction.
func (b *MaskBuilder) Exc(ids ...TypeID) *MaskBuilder {
	b.exclude = append(b.exclude, ids...)
	return b
}

// End sorts and validates the accumulated ids, computes the hash, and
// returns the immutable Mask. The builder is returned to the world's pool
// for reuse.
func (b *MaskBuilder) End() (Mask, error) {
	include, dupInc := sortDedupCheck(b.include)
	exclude, dupExc := sortDedupCheck(b.exclude)
	if dupInc || dupExc || overlaps(include, exclude) {
		err := InvalidMaskError{Include: include, Exclude: exclude}
		b.release()
		return Mask{}, err
	}

	m := Mask{
		Include:     include,
		Exclude:     exclude,
		Hash:        foldHash(include, exclude),
		includeBits: bitsetOf(include),
		excludeBits: bitsetOf(exclude),
	}
	b.release()
	return m, nil
}

func (b *MaskBuilder) release() {
	b.include = b.include[:0]
	b.exclude = b.exclude[:0]
	if b.world != nil {
		b.world.maskBuilderPool.Put(b)
	}
}

func foldHash(include, exclude []TypeID) uint64 {
	var h uint64
	for _, id := range include {
		h = h*maskHashMultiplier + uint64(id)
	}
	for _, id := range exclude {
		h = h*maskHashMultiplier - uint64(id)
	}
	return h
}

// sortDedupCheck returns a sorted copy of ids and whether any duplicate was
// present in the input.
func sortDedupCheck(ids []TypeID) (sorted []TypeID, hasDup bool) {
	sorted = append([]TypeID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			hasDup = true
			break
		}
	}
	return sorted, hasDup
}

// overlaps reports whether the two sorted, duplicate-free id slices share
// any element.
func overlaps(a, b []TypeID) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// maskBuilderPool backs World.newMaskBuilder; builders are pooled for
// reuse after End().
type maskBuilderPool struct {
	pool sync.Pool
}

func newMaskBuilderPool() *maskBuilderPool {
	return &maskBuilderPool{
		pool: sync.Pool{New: func() any { return &MaskBuilder{} }},
	}
}

func (p *maskBuilderPool) Get(w *World) *MaskBuilder {
	b := p.pool.Get().(*MaskBuilder)
	b.world = w
	return b
}

func (p *maskBuilderPool) Put(b *MaskBuilder) {
	p.pool.Put(b)
}
