package ecs

import "testing"

func declWrite(world string, types ...TypeID) []AccessDeclaration {
	return []AccessDeclaration{{World: world, Types: types}}
}

func declRead(world string, types ...TypeID) []AccessDeclaration {
	return []AccessDeclaration{{World: world, Types: types}}
}

func TestPlanBucketsSeparatesConflictingWriters(t *testing.T) {
	entries := []schedulable{
		newSchedulable(nil, declWrite("w", 1)),
		newSchedulable(nil, declWrite("w", 1)),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets for conflicting writers, got %d: %+v", len(buckets), buckets)
	}
}

func TestPlanBucketsPacksSharedReaders(t *testing.T) {
	entries := []schedulable{
		newSchedulable(declRead("w", 1), nil),
		newSchedulable(declRead("w", 1), nil),
		newSchedulable(declRead("w", 1), nil),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 1 {
		t.Fatalf("read-only systems over the same type should share one bucket, got %d: %+v", len(buckets), buckets)
	}
}

func TestPlanBucketsReaderConflictsWithWriter(t *testing.T) {
	entries := []schedulable{
		newSchedulable(nil, declWrite("w", 1)),
		newSchedulable(declRead("w", 1), nil),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 2 {
		t.Fatalf("a reader and a writer of the same type must not share a bucket, got %d: %+v", len(buckets), buckets)
	}
}

func TestPlanBucketsIndependentWorldsCoexist(t *testing.T) {
	entries := []schedulable{
		newSchedulable(nil, declWrite("a", 1)),
		newSchedulable(nil, declWrite("b", 1)),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 1 {
		t.Fatalf("writers of disjoint worlds should share a bucket, got %d: %+v", len(buckets), buckets)
	}
}

func TestPlanBucketsSkipsPastAnEarlierNonConflictingBucket(t *testing.T) {
	// S1 writes A; S2 writes A,B (conflicts with S1, must follow it); S3
	// writes B. S3 doesn't conflict with bucket0 (S1, writes only A), but
	// it does conflict with bucket1 (S2, writes B) -- it must land after
	// bucket1, not slot into bucket0 just because bucket0 happened to be
	// legal first.
	entries := []schedulable{
		newSchedulable(nil, declWrite("w", 1)),
		newSchedulable(nil, declWrite("w", 1, 2)),
		newSchedulable(nil, declWrite("w", 2)),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Systems[0] != 0 || buckets[1].Systems[0] != 1 || buckets[2].Systems[0] != 2 {
		t.Fatalf("expected submission-order placement S1,S2,S3 into buckets 0,1,2, got %+v", buckets)
	}
}

func TestPlanBucketsWildcardConflictsWithEverything(t *testing.T) {
	entries := []schedulable{
		{writes: []accessSet{{world: "w", wildcard: true}}},
		newSchedulable(nil, declWrite("w", 99)),
	}
	buckets := planBuckets(entries)
	if len(buckets) != 2 {
		t.Fatalf("a wildcard writer should conflict with every other system on its world, got %d: %+v", len(buckets), buckets)
	}
}
