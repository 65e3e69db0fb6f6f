package ecs

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TheBitDrifter/bark"
)

// Dispatcher owns every world, ticked system, and injected value produced
// by a Builder, and drives them frame by frame using the static
// conflict-graph schedule computed at Init time.
type Dispatcher struct {
	worlds map[string]*World

	systems   []*TickedSystem
	declarers []Declarer
	buckets   []Bucket
	groups    *groupRegistry

	injected            map[string]any
	singletonsMu        sync.Mutex
	singletons          map[reflect.Type]any
	singletonFactories  map[reflect.Type]func() any

	workerCount   int
	startBarrier  *cyclicBarrier
	finishBarrier *cyclicBarrier
	stopping      atomic.Bool
	wg            sync.WaitGroup

	currentBucket []int
	currentIdx    atomic.Int64

	frame SystemArgs

	errMu   sync.Mutex
	tickErr error
}

// unknownWorldError reports a system asking for a world name the builder
// never registered -- a programmer error surfaced as a panic, not a
// recoverable runtime condition.
type unknownWorldError struct{ name string }

func (e unknownWorldError) Error() string { return fmt.Sprintf("unknown world %q", e.name) }

func (d *Dispatcher) mustWorld(name string) *World {
	w, ok := d.worlds[name]
	if !ok {
		panic(bark.AddTrace(unknownWorldError{name: name}))
	}
	return w
}

func injectedValue[T any](d *Dispatcher, name string) T {
	v, ok := d.injected[name]
	if !ok {
		panic(bark.AddTrace(BuilderMisconfigurationError{Reason: fmt.Sprintf("no value injected under name %q", name)}))
	}
	t, ok := v.(T)
	if !ok {
		panic(bark.AddTrace(BuilderMisconfigurationError{Reason: fmt.Sprintf("injected value %q is not of the requested type", name)}))
	}
	return t
}

func singletonValue[T any](d *Dispatcher) *T {
	rt := reflect.TypeFor[T]()

	d.singletonsMu.Lock()
	defer d.singletonsMu.Unlock()

	if v, ok := d.singletons[rt]; ok {
		return v.(*T)
	}

	var value *T
	if factory, ok := d.singletonFactories[rt]; ok {
		value = factory().(*T)
	} else {
		value = new(T)
	}
	d.singletons[rt] = value
	return value
}

// checkLeakedEntities scans every registered world for an alive,
// component-less entity, in debug only, returning LeakedEntityError for
// the first one found. Called after every PreInit/Init/Destroy/
// PostDestroy hook invocation.
func (d *Dispatcher) checkLeakedEntities() error {
	if !Config.Debug {
		return nil
	}
	for _, w := range d.worlds {
		if e, ok := w.leakedEntity(); ok {
			return LeakedEntityError{World: w.name, Entity: e}
		}
	}
	return nil
}

// Init resolves the conflict graph into buckets and runs every system's
// PreInit then Init hook, in registration order. Init must be called
// exactly once, before the first Run.
func (d *Dispatcher) Init() error {
	entries := make([]schedulable, len(d.systems))
	for i, decl := range d.declarers {
		if decl == nil {
			entries[i] = schedulable{writes: []accessSet{{global: true}}}
			continue
		}
		reads, writes := decl.Declare()
		entries[i] = newSchedulable(reads, writes)
	}
	d.buckets = planBuckets(entries)

	args := d.frame
	for _, s := range d.systems {
		if pre, ok := s.System.(PreIniter); ok {
			if err := pre.PreInit(args); err != nil {
				return err
			}
			if err := d.checkLeakedEntities(); err != nil {
				return err
			}
		}
	}
	for _, s := range d.systems {
		if initer, ok := s.System.(Initer); ok {
			if err := initer.Init(args); err != nil {
				return err
			}
			if err := d.checkLeakedEntities(); err != nil {
				return err
			}
		}
	}

	if d.workerCount < 1 {
		d.workerCount = 1
	}
	d.startBarrier = newCyclicBarrier(d.workerCount)
	d.finishBarrier = newCyclicBarrier(d.workerCount)

	d.wg.Add(d.workerCount - 1)
	for i := 1; i < d.workerCount; i++ {
		go d.workerLoop()
	}
	return nil
}

// workerLoop is run by every worker goroutine but the host (workers
// 1..N-1); the host plays the role of worker 0 from inside RunFrame.
func (d *Dispatcher) workerLoop() {
	defer d.wg.Done()
	for {
		d.startBarrier.SignalAndWait()
		if d.stopping.Load() {
			d.finishBarrier.SignalAndWait()
			return
		}
		d.claimLoop()
		d.finishBarrier.SignalAndWait()
	}
}

// claimLoop repeatedly fetch-and-increments the shared system cursor,
// running whichever system index it claims, until the current bucket is
// exhausted. Any number of goroutines may call this concurrently for the
// same bucket.
func (d *Dispatcher) claimLoop() {
	for {
		idx := d.currentIdx.Add(1) - 1
		if int(idx) >= len(d.currentBucket) {
			return
		}
		sysIdx := d.currentBucket[idx]
		if !d.groups.isEnabled(sysIdx) {
			continue
		}
		if _, err := d.systems[sysIdx].advance(d.frame.Dt, d.frame); err != nil {
			d.errMu.Lock()
			if d.tickErr == nil {
				d.tickErr = err
			}
			d.errMu.Unlock()
		}
	}
}

// RunFrame drains any queued group toggles, then dispatches every bucket
// in order, running the systems within a bucket across every worker.
// It blocks until the whole frame has completed.
func (d *Dispatcher) RunFrame(dt time.Duration) error {
	if _, err := d.groups.DrainAndApply(); err != nil {
		return err
	}

	d.frame.Dt = dt
	d.frame.FrameNumber++
	d.errMu.Lock()
	d.tickErr = nil
	d.errMu.Unlock()

	for _, b := range d.buckets {
		d.currentBucket = b.Systems
		d.currentIdx.Store(0)

		d.startBarrier.SignalAndWait()
		d.claimLoop()
		d.finishBarrier.SignalAndWait()
	}

	d.errMu.Lock()
	err := d.tickErr
	d.errMu.Unlock()
	return err
}

// ToggleGroup enqueues an enable/disable request for the named group,
// safe to call from any goroutine including from inside a system's Run.
func (d *Dispatcher) ToggleGroup(name string, enable bool) {
	d.groups.Enqueue(name, enable)
}

// Dispose runs every system's Destroy hook, disposes every world, runs
// every system's PostDestroy hook -- all sequentially on the host
// goroutine, in reverse submission order -- and only then stops the
// worker goroutines.
func (d *Dispatcher) Dispose() error {
	args := d.frame
	var firstErr error
	recordErr := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for i := len(d.systems) - 1; i >= 0; i-- {
		if destroyer, ok := d.systems[i].System.(Destroyer); ok {
			recordErr(destroyer.Destroy(args))
			recordErr(d.checkLeakedEntities())
		}
	}
	for _, w := range d.worlds {
		w.Dispose()
	}
	for i := len(d.systems) - 1; i >= 0; i-- {
		if post, ok := d.systems[i].System.(PostDestroyer); ok {
			recordErr(post.PostDestroy(args))
			recordErr(d.checkLeakedEntities())
		}
	}

	d.stopping.Store(true)
	d.startBarrier.SignalAndWait()
	d.finishBarrier.SignalAndWait()
	d.wg.Wait()

	return firstErr
}

// GetWorld resolves a registered world by name, or returns false.
func (d *Dispatcher) GetWorld(name string) (*World, bool) {
	w, ok := d.worlds[name]
	return w, ok
}
