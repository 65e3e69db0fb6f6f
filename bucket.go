package ecs

// Bucket is one group of systems the scheduler has proven can run
// concurrently: no two systems in the same bucket hold conflicting access
// to the same world. Buckets themselves run in order.
type Bucket struct {
	Systems []int
}

// schedulable is the planner's view of one system: its declared access,
// resolved to bitsets. Its position in the slice handed to planBuckets is
// the system index recorded in Bucket.Systems.
type schedulable struct {
	reads  []accessSet
	writes []accessSet
}

func newSchedulable(reads, writes []AccessDeclaration) schedulable {
	return schedulable{reads: resolveAccessSets(reads), writes: resolveAccessSets(writes)}
}

// conflictsWith implements the scheduler's conflict rule: any write against
// a system conflicts with any other system's access (read or write) to an
// overlapping type set in the same world; two reads never conflict.
func (s schedulable) conflictsWith(o schedulable) bool {
	for _, w := range s.writes {
		for _, ow := range o.writes {
			if w.conflictsWith(ow) {
				return true
			}
		}
		for _, or := range o.reads {
			if w.conflictsWith(or) {
				return true
			}
		}
	}
	for _, r := range s.reads {
		for _, ow := range o.writes {
			if r.conflictsWith(ow) {
				return true
			}
		}
	}
	return false
}

// sharedReadCount counts how many of s's read accesses conflict-test-equal
// (same world, overlapping bits) with reads already in o — used purely as
// a tie-break so the planner prefers packing systems that read the same
// data into the same bucket over spreading them arbitrarily.
func (s schedulable) sharedReadCount(o schedulable) int {
	n := 0
	for _, r := range s.reads {
		for _, or := range o.reads {
			if r.world == or.world && !r.wildcard && !or.wildcard && r.bits.ContainsAny(or.bits) {
				n++
			}
		}
	}
	return n
}

// planBuckets assigns each system (by index into entries) to a bucket in
// submission order. For each system it scans every existing bucket and
// records the last (highest-indexed) bucket it conflicts with -- call that
// index lastInvalid. The system may only join a bucket at or after
// lastInvalid+1 (joining an earlier bucket would let it run concurrently
// with, or even before, a conflicting system submitted earlier, breaking
// the submission-order guarantee). Among the candidate buckets at or past
// that floor, it joins the one with the most shared reads against its own
// read set, so readers of the same data tend to co-locate; a new bucket is
// opened only when no candidate bucket exists at or after the floor.
func planBuckets(entries []schedulable) []Bucket {
	var buckets []Bucket
	var bucketEntries [][]schedulable

	for i, s := range entries {
		lastInvalid := -1
		for b := range buckets {
			for _, other := range bucketEntries[b] {
				if s.conflictsWith(other) {
					lastInvalid = b
					break
				}
			}
		}
		floor := lastInvalid + 1

		best := -1
		bestShared := -1
		for b := floor; b < len(buckets); b++ {
			shared := 0
			for _, other := range bucketEntries[b] {
				shared += s.sharedReadCount(other)
			}
			if best == -1 || shared > bestShared {
				best = b
				bestShared = shared
			}
		}

		if best == -1 {
			buckets = append(buckets, Bucket{Systems: []int{i}})
			bucketEntries = append(bucketEntries, []schedulable{s})
			continue
		}
		buckets[best].Systems = append(buckets[best].Systems, i)
		bucketEntries[best] = append(bucketEntries[best], s)
	}

	return buckets
}
