package gtimer

import "testing"

func TestDeadlineIndexOrderingAndMax(t *testing.T) {
	pool := newBucketPool(8)
	idx := newDeadlineIndex(pool)

	for _, k := range []uint64{500, 100, 900, 300} {
		idx.InsertAtEndHint(k)
	}

	if idx.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", idx.Len())
	}

	key, _, ok := idx.Begin()
	if !ok || key != 100 {
		t.Fatalf("expected min key 100, got %d ok=%v", key, ok)
	}

	maxKey, ok := idx.Max()
	if !ok || maxKey != 900 {
		t.Fatalf("expected max key 900, got %d ok=%v", maxKey, ok)
	}

	idx.Erase(900)
	maxKey, ok = idx.Max()
	if !ok || maxKey != 500 {
		t.Fatalf("expected new max 500 after erasing 900, got %d ok=%v", maxKey, ok)
	}
	if idx.Len() != 3 {
		t.Fatalf("expected 3 entries remaining, got %d", idx.Len())
	}
}

func TestDeadlineIndexGetOrInsertIsIdempotent(t *testing.T) {
	pool := newBucketPool(8)
	idx := newDeadlineIndex(pool)

	b1, inserted := idx.GetOrInsert(42)
	if !inserted {
		t.Fatal("expected first GetOrInsert to insert")
	}
	b2, inserted := idx.GetOrInsert(42)
	if inserted {
		t.Fatal("expected second GetOrInsert to find the existing bucket")
	}
	if b1 != b2 {
		t.Fatal("expected the same bucket instance for the same key")
	}
	if idx.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", idx.Len())
	}
}

func TestDeadlineIndexPopFrontDetachesWithoutReleasing(t *testing.T) {
	pool := newBucketPool(8)
	idx := newDeadlineIndex(pool)

	b, _ := idx.GetOrInsert(10)
	b.pushFront(HandlerFunc(func() {}))

	key, popped, ok := idx.PopFront()
	if !ok || key != 10 || popped != b {
		t.Fatalf("unexpected PopFront result: key=%d ok=%v same=%v", key, ok, popped == b)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected index empty after PopFront, got %d", idx.Len())
	}
	// PopFront must not have released the bucket to the pool: its contents
	// (pushed above) must still be intact for the sweep to consume.
	if popped.Empty() {
		t.Fatal("expected PopFront to leave the bucket's contents intact")
	}
	if len(pool.free) != 0 {
		t.Fatalf("expected PopFront not to touch the pool, free=%d", len(pool.free))
	}
}

func TestDeadlineIndexEmpty(t *testing.T) {
	pool := newBucketPool(8)
	idx := newDeadlineIndex(pool)

	if !idx.Empty() {
		t.Fatal("expected a fresh index to be empty")
	}
	idx.GetOrInsert(1)
	if idx.Empty() {
		t.Fatal("expected index non-empty after insert")
	}
	idx.Erase(1)
	if !idx.Empty() {
		t.Fatal("expected index empty again after erasing its only entry")
	}
}
