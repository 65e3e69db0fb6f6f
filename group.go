package ecs

import "sync"

// Group is a named subset of a dispatcher's ticked systems that can be
// enabled or disabled as a unit between frames. Membership is fixed at
// build time; only the enabled flag changes at runtime.
type Group struct {
	name    string
	enabled bool
	systems []int
}

type groupToggle struct {
	name   string
	enable bool
}

// groupRegistry owns every named Group plus the toggle queue producers
// enqueue into from any goroutine; the dispatcher drains it once per
// frame, before bucket dispatch, so a toggle never takes effect mid-tick.
type groupRegistry struct {
	mu     sync.Mutex
	groups map[string]*Group
	queue  []groupToggle
}

func newGroupRegistry() *groupRegistry {
	return &groupRegistry{groups: make(map[string]*Group)}
}

func (r *groupRegistry) define(name string) *Group {
	g := &Group{name: name, enabled: true}
	r.groups[name] = g
	return g
}

func (r *groupRegistry) get(name string) (*Group, error) {
	g, ok := r.groups[name]
	if !ok {
		return nil, UnknownGroupError{Name: name}
	}
	return g, nil
}

// Enqueue records a pending enable/disable for name, safe to call from any
// goroutine at any time. The change is visible only after the next
// DrainAndApply.
func (r *groupRegistry) Enqueue(name string, enable bool) {
	r.mu.Lock()
	r.queue = append(r.queue, groupToggle{name: name, enable: enable})
	r.mu.Unlock()
}

// DrainAndApply applies every queued toggle in FIFO order and reports
// whether any group's enabled state changed.
func (r *groupRegistry) DrainAndApply() (changed bool, err error) {
	r.mu.Lock()
	pending := r.queue
	r.queue = nil
	r.mu.Unlock()

	for _, t := range pending {
		g, lookupErr := r.get(t.name)
		if lookupErr != nil {
			err = lookupErr
			continue
		}
		if g.enabled != t.enable {
			g.enabled = t.enable
			changed = true
		}
	}
	return changed, err
}

// isEnabled reports whether the system at index idx is currently runnable:
// true if it belongs to no group, or to at least one enabled group.
func (r *groupRegistry) isEnabled(idx int) bool {
	member := false
	for _, g := range r.groups {
		for _, s := range g.systems {
			if s == idx {
				member = true
				if g.enabled {
					return true
				}
			}
		}
	}
	return !member
}
