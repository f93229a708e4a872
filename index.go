package gtimer

import "github.com/fixkme/gokit/ds/skiplist"

// indexEntry is the value type stored in the backing rank tree: the
// quantized deadline and the bucket of handlers due at that deadline.
type indexEntry struct {
	key    uint64
	bucket *Bucket
}

// Compare orders index entries by deadline, ascending, satisfying
// skiplist.ElemType.
func (e indexEntry) Compare(o indexEntry) int {
	switch {
	case e.key < o.key:
		return -1
	case e.key > o.key:
		return 1
	default:
		return 0
	}
}

// DeadlineIndex is the C4 component: an ordered map from quantized deadline
// to the bucket of handlers due at that deadline, walkable in ascending key
// order with O(log n) predecessor lookup.
//
// It is backed by fixkme-gokit's rank-indexed skip list rather than the
// teacher's own per-handler binary heap (gutils/container/heap): Cancel's
// max-key-erasure path needs "what's the new maximum key after this one is
// removed", which a heap only answers in O(n) (a heap has no order below
// its root beyond the heap property), while a rank tree answers it in
// O(log n) via Predecessor, i.e. QueryByRank(GetRank(key)-1).
type DeadlineIndex struct {
	tree *skiplist.RankTree[uint64, indexEntry]
	pool *bucketPool
}

func newDeadlineIndex(pool *bucketPool) *DeadlineIndex {
	return &DeadlineIndex{
		tree: skiplist.NewRankTree[uint64, indexEntry](),
		pool: pool,
	}
}

// Len reports the number of distinct deadlines currently indexed.
func (idx *DeadlineIndex) Len() int { return idx.tree.Len() }

// Empty reports whether the index holds no deadlines.
func (idx *DeadlineIndex) Empty() bool { return idx.tree.Len() == 0 }

// GetOrInsert returns the bucket for key, drawing a fresh one from the
// bucket pool and inserting it if key is not already indexed.
func (idx *DeadlineIndex) GetOrInsert(key uint64) (bucket *Bucket, inserted bool) {
	if rank := idx.tree.GetRank(key); rank != -1 {
		e, ok := idx.tree.QueryByRank(rank)
		if ok {
			return e.bucket, false
		}
	}
	b := idx.pool.acquire(key)
	idx.tree.Update(key, indexEntry{key: key, bucket: b})
	return b, true
}

// InsertAtEndHint is the fast path for a key expected to be the new
// maximum. The backing rank tree offers no node-level insert-with-hint, so
// this currently degenerates to the same O(log n) path as GetOrInsert; kept
// as its own entry point so a future backing structure (e.g. one exposing
// an ordered-map end iterator) can specialize it without touching callers.
func (idx *DeadlineIndex) InsertAtEndHint(key uint64) (bucket *Bucket, inserted bool) {
	return idx.GetOrInsert(key)
}

// Begin returns the minimum key's bucket without removing it.
func (idx *DeadlineIndex) Begin() (key uint64, bucket *Bucket, ok bool) {
	if idx.tree.Len() == 0 {
		return 0, nil, false
	}
	e, ok := idx.tree.QueryByRank(1)
	if !ok {
		return 0, nil, false
	}
	return e.key, e.bucket, true
}

// PopFront detaches and returns the minimum key's bucket. Used by the
// expiry sweep; the caller owns the returned bucket and must clear and
// release it back to the pool once its handlers have fired.
func (idx *DeadlineIndex) PopFront() (key uint64, bucket *Bucket, ok bool) {
	key, bucket, ok = idx.Begin()
	if !ok {
		return 0, nil, false
	}
	idx.tree.Remove(key)
	return key, bucket, true
}

// Max returns the largest key currently in the index.
func (idx *DeadlineIndex) Max() (uint64, bool) {
	n := idx.tree.Len()
	if n == 0 {
		return 0, false
	}
	e, ok := idx.tree.QueryByRank(n)
	if !ok {
		return 0, false
	}
	return e.key, true
}

// Predecessor returns the largest indexed key strictly below key, i.e. the
// key that becomes the new maximum if key is currently the maximum and is
// about to be erased. ok is false if key is not indexed or is already the
// minimum. Cancel calls this before erasing the max-key bucket to recompute
// maxTick, per the rank-tree's QueryByRank(GetRank(key)-1).
func (idx *DeadlineIndex) Predecessor(key uint64) (uint64, bool) {
	rank := idx.tree.GetRank(key)
	if rank <= 1 {
		return 0, false
	}
	e, ok := idx.tree.QueryByRank(rank - 1)
	if !ok {
		return 0, false
	}
	return e.key, true
}

// Erase removes key's (already-emptied) bucket from the index and returns
// it to the pool. Used by Cancel once a bucket has drained to empty.
func (idx *DeadlineIndex) Erase(key uint64) {
	rank := idx.tree.GetRank(key)
	if rank == -1 {
		return
	}
	e, ok := idx.tree.QueryByRank(rank)
	if !ok {
		return
	}
	idx.tree.Remove(key)
	idx.pool.release(e.bucket)
}
