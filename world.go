package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// World owns one entity table, the component pools registered against it,
// and the filters derived from those pools. Worlds are independent: ids,
// masks, and filters from one World are never valid against another.
type World struct {
	name string

	entities *entityTable
	pools    []poolAny
	poolsByType map[reflect.Type]TypeID

	entityBits []mask.Mask256

	filtersByIncluded map[TypeID][]*Filter
	filtersByExcluded map[TypeID][]*Filter
	filterByHash      map[uint64]*Filter
	allFilters        []*Filter

	maskBuilderPool *maskBuilderPool
	tags            *SimpleCache[Entity]
}

// defaultTagCapacity bounds how many named entities a World can hold via
// Tag/Named; it exists to keep the cache a fixed-size allocation rather
// than an unbounded map, matching the cost model of the rest of the
// sparse-set storage.
const defaultTagCapacity = 1024

// NewWorld creates an empty, named World ready for component registration.
func NewWorld(name string) *World {
	w := &World{
		name:              name,
		entities:          newEntityTable(),
		poolsByType:       make(map[reflect.Type]TypeID),
		filtersByIncluded: make(map[TypeID][]*Filter),
		filtersByExcluded: make(map[TypeID][]*Filter),
		filterByHash:      make(map[uint64]*Filter),
		tags:              NewCache[Entity](defaultTagCapacity),
	}
	w.maskBuilderPool = newMaskBuilderPool()
	return w
}

// Tag associates name with e, so it can later be looked up with Named.
// Fails if name is already taken or the tag cache is at capacity.
func (w *World) Tag(name string, e Entity) error {
	_, err := w.tags.Register(name, e)
	return err
}

// Named resolves a previously Tag'd entity by name.
func (w *World) Named(name string) (Entity, bool) {
	idx, ok := w.tags.GetIndex(name)
	if !ok {
		return 0, false
	}
	return *w.tags.GetItem(idx), true
}

// Name returns the world's identifying name, used in error messages and
// debug log lines.
func (w *World) Name() string { return w.name }

// capacity is the current size of the entity table's backing array, the
// size every pool's sparse array and entityBits must match or exceed.
func (w *World) capacity() int {
	return len(w.entityBits)
}

// RegisterComponent creates and registers a Pool[T] against w. Fails with
// PoolAlreadyExistsError if T was already registered on this world: one
// pool per type per world.
func RegisterComponent[T any](w *World, hooks ...PoolHooks[T]) (*Pool[T], error) {
	rt := reflect.TypeFor[T]()
	if _, exists := w.poolsByType[rt]; exists {
		return nil, PoolAlreadyExistsError{World: w.name, Type: w.poolsByType[rt]}
	}

	var h PoolHooks[T]
	if len(hooks) > 0 {
		h = hooks[0]
	}

	id := TypeID(len(w.pools))
	p := newPool[T](w, id, h)
	w.pools = append(w.pools, p)
	w.poolsByType[rt] = id
	return p, nil
}

// GetPool retrieves the already-registered Pool[T] for w, failing with
// PoolNotRegisteredError if RegisterComponent was never called for T.
func GetPool[T any](w *World) (*Pool[T], error) {
	rt := reflect.TypeFor[T]()
	id, ok := w.poolsByType[rt]
	if !ok {
		return nil, PoolNotRegisteredError{World: w.name, Type: 0}
	}
	p, ok := w.pools[id].(*Pool[T])
	if !ok {
		return nil, PoolNotRegisteredError{World: w.name, Type: id}
	}
	return p, nil
}

// NewEntity allocates a fresh Entity, growing the entity table (and every
// pool's and filter's backing arrays) if the table is out of recycled ids.
func (w *World) NewEntity() Entity {
	e, grew, newCapacity := w.entities.alloc()
	if grew {
		w.growTo(newCapacity)
	}
	if int(e) < len(w.entityBits) {
		w.entityBits[e] = mask.Mask256{}
	}
	notifyEntityCreated(w.name, e)
	return e
}

// IsAlive reports whether e is a currently-live entity in w.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// DelEntity removes every component e carries, in pool-registration order,
// then finalizes e's death in the entity table. Each Pool.Del call already
// cascades into destroyEntityIfEmpty once the entity's component count
// reaches zero, so this loop is usually short-circuited well before it
// would visit every pool.
func (w *World) DelEntity(e Entity) {
	if !w.entities.isAlive(e) {
		return
	}
	for _, p := range w.pools {
		if w.entities.componentsCount(e) == 0 {
			break
		}
		if p.Has(e) {
			p.Del(e)
		}
	}
	w.destroyEntityIfEmpty(e)
}

// destroyEntityIfEmpty finalizes e's death once it carries zero components,
// whether reached via DelEntity's sweep or a Pool's own last-component Del.
func (w *World) destroyEntityIfEmpty(e Entity) {
	if !w.entities.isAlive(e) {
		return
	}
	if w.entities.componentsCount(e) != 0 {
		return
	}
	w.entities.finalizeDeath(e)
	notifyEntityDestroyed(w.name, e)
}

// leakedEntity scans for an alive entity carrying zero components -- the
// condition LeakedEntityError reports. An alive, component-less entity can
// only arise if a user hook called NewEntity and never attached anything
// to it (destroyEntityIfEmpty runs only from Pool.Del, Pool.Transfer and
// DelEntity, never on creation), so this is a debug-only safety net, not a
// path exercised during normal operation.
func (w *World) leakedEntity() (Entity, bool) {
	for i := 0; i < len(w.entities.statuses); i++ {
		e := Entity(i)
		if w.entities.isAlive(e) && w.entities.componentsCount(e) == 0 {
			return e, true
		}
	}
	return 0, false
}

// PackEntity captures e's current generation for storage outside the
// world (e.g. inside a component field as a foreign reference).
func (w *World) PackEntity(e Entity) PackedEntity {
	return w.entities.pack(e)
}

// UnpackEntity resolves a PackedEntity back to an Entity, reporting false
// if the id has since been recycled to a different generation.
func (w *World) UnpackEntity(p PackedEntity) (Entity, bool) {
	return w.entities.unpack(p)
}

// newMaskBuilder borrows a MaskBuilder from the world's pool.
func (w *World) newMaskBuilder() *MaskBuilder {
	return w.maskBuilderPool.Get(w)
}

// NewFilter starts building a Filter against w's live entities.
func (w *World) NewFilter() *FilterBuilder {
	return &FilterBuilder{world: w, maskBuilder: w.newMaskBuilder()}
}

// markComponent sets typeID's bit in e's aggregate component bitset. Called
// by Pool.Add/Clone/Transfer after the pool's own sparse entry is written.
func (w *World) markComponent(e Entity, typeID TypeID) {
	w.entityBits[e].Mark(uint32(typeID))
}

// unmarkComponent clears typeID's bit in e's aggregate component bitset.
func (w *World) unmarkComponent(e Entity, typeID TypeID) {
	w.entityBits[e].Unmark(uint32(typeID))
}

// notifyPoolChange is the single entry point pools use to drive the
// incremental filter-membership update, and to fire the debug
// OnEntityChanged listener hook. added tells the caller whether this
// is an addition (entityBits already reflects the new state) or a removal
// (entityBits still reflects the pre-removal state).
func (w *World) notifyPoolChange(e Entity, typeID TypeID, added bool) {
	bits := w.entityBits[e]

	if added {
		for _, f := range w.filtersByIncluded[typeID] {
			if !f.contains(e) && isMaskCompatible(bits, f.mask) {
				f.add(e)
			}
		}
		for _, f := range w.filtersByExcluded[typeID] {
			if f.contains(e) && !isMaskCompatible(bits, f.mask) {
				f.remove(e)
			}
		}
	} else {
		for _, f := range w.filtersByIncluded[typeID] {
			if f.contains(e) && isMaskCompatible(bits, f.mask) {
				f.remove(e)
			}
		}
		for _, f := range w.filtersByExcluded[typeID] {
			if !f.contains(e) && isMaskCompatibleWithout(bits, f.mask, typeID) {
				f.add(e)
			}
		}
	}

	notifyEntityChanged(w.name, e, typeID, added)
}

// registerFilter indexes f under every include/exclude type id it cares
// about and under its content hash, and performs the initial scan over
// every currently-live entity.
func (w *World) registerFilter(f *Filter) {
	for _, id := range f.mask.Include {
		w.filtersByIncluded[id] = append(w.filtersByIncluded[id], f)
	}
	for _, id := range f.mask.Exclude {
		w.filtersByExcluded[id] = append(w.filtersByExcluded[id], f)
	}
	w.filterByHash[f.mask.Hash] = f
	w.allFilters = append(w.allFilters, f)

	for e := 0; e < len(w.entityBits); e++ {
		if !w.entities.isAlive(Entity(e)) {
			continue
		}
		if isMaskCompatible(w.entityBits[e], f.mask) {
			f.add(Entity(e))
		}
	}
	notifyFilterCreated(w.name, f.mask.Hash)
}

// growTo extends the world's per-entity bookkeeping and every registered
// pool's and filter's backing arrays to capacity.
func (w *World) growTo(capacity int) {
	if capacity <= len(w.entityBits) {
		return
	}
	grown := make([]mask.Mask256, capacity)
	copy(grown, w.entityBits)
	w.entityBits = grown

	for _, p := range w.pools {
		p.resize(capacity)
	}
	for _, f := range w.allFilters {
		f.resize(capacity)
	}
	notifyWorldResized(w.name, capacity)
}

// Dispose releases listener-visible state associated with w. Pools and
// filters are left for garbage collection once the caller drops its
// reference to w.
func (w *World) Dispose() {
	notifyWorldDisposed(w.name)
}

// mustPool is GetPool for internal callers that already know T is
// registered: a missing pool is treated as a programmer error and
// reported as a trace-wrapped panic instead of a returned error.
func mustPool[T any](w *World) *Pool[T] {
	p, err := GetPool[T](w)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return p
}
