package ecs

import (
	"sync/atomic"
	"testing"
	"time"
)

type counter struct{ N int }

// incrementSystem bumps every matching entity's counter by one each run.
type incrementSystem struct {
	filter *Filter
	pool   *Pool[counter]
}

func (s *incrementSystem) Declare() ([]AccessDeclaration, []AccessDeclaration) {
	return nil, []AccessDeclaration{{World: "game", Types: []TypeID{s.pool.ID()}}}
}

func (s *incrementSystem) Run(args SystemArgs) error {
	for _, e := range s.filter.Entities() {
		c, err := s.pool.Get(e)
		if err != nil {
			return err
		}
		c.N++
	}
	return nil
}

type lifecycleSystem struct {
	initialized atomic.Bool
	destroyed   atomic.Bool
}

func (s *lifecycleSystem) Run(SystemArgs) error { return nil }
func (s *lifecycleSystem) Init(SystemArgs) error {
	s.initialized.Store(true)
	return nil
}
func (s *lifecycleSystem) Destroy(SystemArgs) error {
	s.destroyed.Store(true)
	return nil
}

func buildCounterWorld(t *testing.T) (*World, *Pool[counter], Entity) {
	t.Helper()
	w := NewWorld("game")
	pool, err := RegisterComponent[counter](w)
	if err != nil {
		t.Fatalf("RegisterComponent() error = %v", err)
	}
	e := w.NewEntity()
	if _, err := pool.Add(e); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return w, pool, e
}

func TestDispatcherRunsSystemEachFrame(t *testing.T) {
	w, pool, e := buildCounterWorld(t)
	f, err := w.NewFilter().Inc(pool.ID()).End()
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}

	d, err := NewBuilder().
		AddWorld(w).
		Add(&incrementSystem{filter: f, pool: pool}).
		Finish(4)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	for i := 0; i < 3; i++ {
		if err := d.RunFrame(16 * time.Millisecond); err != nil {
			t.Fatalf("RunFrame() error = %v", err)
		}
	}

	c, _ := pool.Get(e)
	if c.N != 3 {
		t.Fatalf("expected counter 3 after 3 frames, got %d", c.N)
	}
}

func TestDispatcherRunsLifecycleHooks(t *testing.T) {
	w := NewWorld("game")
	sys := &lifecycleSystem{}

	d, err := NewBuilder().AddWorld(w).Add(sys).Finish(2)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !sys.initialized.Load() {
		t.Fatalf("Init() should have run the system's Init hook")
	}
	if err := d.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if !sys.destroyed.Load() {
		t.Fatalf("Dispose() should have run the system's Destroy hook")
	}
}

func TestDispatcherGroupToggleSkipsSystem(t *testing.T) {
	w, pool, e := buildCounterWorld(t)
	f, _ := w.NewFilter().Inc(pool.ID()).End()

	b := NewBuilder().AddWorld(w).SetGroup("physics")
	b.Add(&incrementSystem{filter: f, pool: pool})

	d, err := b.Finish(2)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	d.ToggleGroup("physics", false)
	if err := d.RunFrame(16 * time.Millisecond); err != nil {
		t.Fatalf("RunFrame() error = %v", err)
	}

	c, _ := pool.Get(e)
	if c.N != 0 {
		t.Fatalf("disabled group's system should not have run, counter = %d", c.N)
	}
}

func TestDispatcherInjectedAndSingletonValues(t *testing.T) {
	w := NewWorld("game")

	type config struct{ Name string }
	b := NewBuilder().AddWorld(w).Inject("greeting", "hello")
	InjectSingleton(b, func() *config { return &config{Name: "built"} })

	gotGreeting := ""
	gotConfigName := ""
	probe := runFunc(func(args SystemArgs) error {
		gotGreeting = Injected[string](args, "greeting")
		gotConfigName = Singleton[config](args).Name
		return nil
	})
	b.Add(probe)

	d, err := b.Finish(1)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Dispose()

	if err := d.RunFrame(time.Millisecond); err != nil {
		t.Fatalf("RunFrame() error = %v", err)
	}
	if gotGreeting != "hello" {
		t.Fatalf("Injected() = %q, want %q", gotGreeting, "hello")
	}
	if gotConfigName != "built" {
		t.Fatalf("Singleton() = %q, want %q", gotConfigName, "built")
	}
}

type runFunc func(SystemArgs) error

func (f runFunc) Run(args SystemArgs) error { return f(args) }

// orderRecordingSystem appends its name to a shared log on Destroy, so a
// test can assert the order Dispose visited the registered systems in.
type orderRecordingSystem struct {
	name string
	log  *[]string
}

func (s *orderRecordingSystem) Run(SystemArgs) error { return nil }
func (s *orderRecordingSystem) Destroy(SystemArgs) error {
	*s.log = append(*s.log, s.name)
	return nil
}

func TestDispatcherDisposeRunsDestroyHooksInReverseOrder(t *testing.T) {
	w := NewWorld("game")
	var order []string

	d, err := NewBuilder().
		AddWorld(w).
		Add(&orderRecordingSystem{name: "first", log: &order}).
		Add(&orderRecordingSystem{name: "second", log: &order}).
		Add(&orderRecordingSystem{name: "third", log: &order}).
		Finish(2)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := d.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("expected %d Destroy calls, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Destroy hooks ran out of order: got %v, want %v", order, want)
		}
	}
}

// leakySystem creates an entity in Init but never attaches a component to
// it, tripping the post-hook leaked-entity check in debug.
type leakySystem struct{ world *World }

func (s *leakySystem) Run(SystemArgs) error { return nil }
func (s *leakySystem) Init(SystemArgs) error {
	s.world.NewEntity()
	return nil
}

func TestDispatcherInitDetectsLeakedEntityInDebug(t *testing.T) {
	Config.SetDebug(true)
	defer Config.SetDebug(false)

	w := NewWorld("game")
	d, err := NewBuilder().AddWorld(w).Add(&leakySystem{world: w}).Finish(1)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	err = d.Init()
	if err == nil {
		t.Fatalf("Init() should fail once a hook leaves an alive, component-less entity behind")
	}
	if _, ok := err.(LeakedEntityError); !ok {
		t.Fatalf("Init() error = %v (%T), want LeakedEntityError", err, err)
	}
}

func TestDispatcherInitIgnoresLeakedEntityOutsideDebug(t *testing.T) {
	w := NewWorld("game")
	d, err := NewBuilder().AddWorld(w).Add(&leakySystem{world: w}).Finish(1)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v, want nil outside debug", err)
	}
	d.Dispose()
}
