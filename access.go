package ecs

import "github.com/TheBitDrifter/mask"

// AccessDeclaration names the set of component types a system reads or
// writes within one World. An empty Types slice is a wildcard covering
// every type in that world, for a system that can't enumerate its access
// ahead of time: a wildcard write conflicts with every read and write
// against the same world, a wildcard read with every write (two reads
// never conflict).
type AccessDeclaration struct {
	World string
	Types []TypeID
}

// Declarer is implemented by any system that participates in conflict-graph
// scheduling. Declare is called once, before the first tick, and its
// result is assumed fixed for the system's lifetime (the conflict graph
// is static, computed once at Init).
type Declarer interface {
	Declare() (reads []AccessDeclaration, writes []AccessDeclaration)
}

// accessSet is the per-system, per-world resolved bitset form of an
// AccessDeclaration list, built once by the bucket planner. A global
// access set (no world tied to it at all) conflicts with every other
// system regardless of world -- used for systems that never implemented
// Declarer in the first place, not for an ordinary wildcard declaration
// against one named world.
type accessSet struct {
	world    string
	wildcard bool
	global   bool
	bits     mask.Mask256
}

func resolveAccessSets(decls []AccessDeclaration) []accessSet {
	sets := make([]accessSet, 0, len(decls))
	for _, d := range decls {
		s := accessSet{world: d.World, wildcard: len(d.Types) == 0}
		if !s.wildcard {
			s.bits = bitsetOf(d.Types)
		}
		sets = append(sets, s)
	}
	return sets
}

// conflictsWith reports whether two access sets overlap: a global set
// always conflicts, a same-world wildcard always conflicts, otherwise
// it's a same-world bit-intersection test.
func (a accessSet) conflictsWith(b accessSet) bool {
	if a.global || b.global {
		return true
	}
	if a.world != b.world {
		return false
	}
	if a.wildcard || b.wildcard {
		return true
	}
	return a.bits.ContainsAny(b.bits)
}
