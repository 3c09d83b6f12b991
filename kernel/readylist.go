package kernel

import "math/bits"

// priorityLevels is the number of distinct priority buckets ReadyList
// tracks: 256 levels, 0 (highest) through 255 (reserved for Idle).
const priorityLevels = 256

// bitmapWords is the number of 32-bit words backing the 256-bit presence
// bitmap (8 words x 32 bits = 256 bits).
const bitmapWords = priorityLevels / 32

// ReadyList holds every TCB currently in state Ready, bucketed by
// priority. Each bucket is a dense FIFO slice in the shape of the
// teacher's dense-array-per-bucket stores (engine/spatial_grid.go,
// engine/component_store.go): contiguous, no per-entry allocation once a
// bucket's backing array has grown to its high-water mark.
//
// A presence bitmap lets peek_highest/remove_highest locate the top
// non-empty bucket in O(1) via a hardware find-first-set instruction
// (math/bits.TrailingZeros32) instead of scanning all 256 levels.
type ReadyList struct {
	buckets  [priorityLevels][]*TCB
	bitmap   [bitmapWords]uint32
	count    int
	topCache int // cached top priority, or -1 if no bucket is known non-empty
}

// NewReadyList creates an empty ReadyList.
func NewReadyList() *ReadyList {
	return &ReadyList{topCache: -1}
}

func (r *ReadyList) setBit(p int) {
	r.bitmap[p/32] |= 1 << uint(p%32)
}

func (r *ReadyList) clearBit(p int) {
	r.bitmap[p/32] &^= 1 << uint(p%32)
}

func (r *ReadyList) bitSet(p int) bool {
	return r.bitmap[p/32]&(1<<uint(p%32)) != 0
}

// findFirstSet returns the numerically smallest priority with a non-empty
// bucket, or -1 if the ReadyList is empty. O(1) amortized: at most
// bitmapWords word scans, each resolved with one TrailingZeros32 call.
func (r *ReadyList) findFirstSet() int {
	for w := 0; w < bitmapWords; w++ {
		word := r.bitmap[w]
		if word == 0 {
			continue
		}
		return w*32 + bits.TrailingZeros32(word)
	}
	return -1
}

// Add appends tcb to its priority's FIFO bucket and marks it Ready.
func (r *ReadyList) Add(tcb *TCB) {
	p := tcb.CurrentPriority
	bucket := r.buckets[p]
	tcb.readyIndex = len(bucket)
	r.buckets[p] = append(bucket, tcb)

	wasEmpty := !r.bitSet(p)
	r.setBit(p)
	r.count++

	if wasEmpty && (r.topCache == -1 || p < r.topCache) {
		r.topCache = p
	}
}

// Remove deletes tcb from its bucket by identity, preserving the FIFO
// order of the remaining entries. O(n) in bucket size, which in this
// domain is bounded by the number of tasks sharing one priority level —
// typically small.
func (r *ReadyList) Remove(tcb *TCB) {
	p := tcb.CurrentPriority
	bucket := r.buckets[p]
	idx := tcb.readyIndex
	if idx < 0 || idx >= len(bucket) || bucket[idx] != tcb {
		idx = r.indexOf(bucket, tcb)
		if idx == -1 {
			return
		}
	}

	copy(bucket[idx:], bucket[idx+1:])
	bucket[len(bucket)-1] = nil
	bucket = bucket[:len(bucket)-1]
	r.buckets[p] = bucket

	for i := idx; i < len(bucket); i++ {
		bucket[i].readyIndex = i
	}
	tcb.readyIndex = -1
	r.count--

	if len(bucket) == 0 {
		r.clearBit(p)
		if r.topCache == p {
			r.topCache = r.findFirstSet()
		}
	}
}

func (r *ReadyList) indexOf(bucket []*TCB, tcb *TCB) int {
	for i, t := range bucket {
		if t == tcb {
			return i
		}
	}
	return -1
}

// Contains reports whether tcb is currently tracked in its priority
// bucket.
func (r *ReadyList) Contains(tcb *TCB) bool {
	bucket := r.buckets[tcb.CurrentPriority]
	idx := tcb.readyIndex
	if idx >= 0 && idx < len(bucket) && bucket[idx] == tcb {
		return true
	}
	return r.indexOf(bucket, tcb) != -1
}

// PeekHighest returns the TCB at the head of the numerically smallest
// non-empty bucket, without removing it. Returns nil if ReadyList is
// empty.
func (r *ReadyList) PeekHighest() *TCB {
	if r.topCache == -1 {
		return nil
	}
	bucket := r.buckets[r.topCache]
	if len(bucket) == 0 {
		return nil
	}
	return bucket[0]
}

// RemoveHighest removes and returns the TCB at the head of the
// numerically smallest non-empty bucket. Returns nil if ReadyList is
// empty.
func (r *ReadyList) RemoveHighest() *TCB {
	tcb := r.PeekHighest()
	if tcb == nil {
		return nil
	}
	r.Remove(tcb)
	return tcb
}

// MoveToEnd re-enqueues tcb at the tail of its own priority bucket,
// rotating it behind any siblings at the same level. This is the
// primitive the round-robin strategy uses to rotate equals.
func (r *ReadyList) MoveToEnd(tcb *TCB) {
	if !r.Contains(tcb) {
		return
	}
	r.Remove(tcb)
	r.Add(tcb)
}

// Count returns the total number of Ready TCBs across all priority
// levels.
func (r *ReadyList) Count() int {
	return r.count
}

// CountAtPriority returns the number of Ready TCBs at priority p.
func (r *ReadyList) CountAtPriority(p int) int {
	if p < 0 || p >= priorityLevels {
		return 0
	}
	return len(r.buckets[p])
}

// TopPriority returns the numerically smallest priority with a non-empty
// bucket, or -1 if ReadyList is empty.
func (r *ReadyList) TopPriority() int {
	return r.topCache
}

// Clear empties every bucket and resets the bitmap.
func (r *ReadyList) Clear() {
	for p := range r.buckets {
		for _, tcb := range r.buckets[p] {
			tcb.readyIndex = -1
		}
		r.buckets[p] = nil
	}
	r.bitmap = [bitmapWords]uint32{}
	r.count = 0
	r.topCache = -1
}

// All returns every Ready TCB in priority-ascending order, FIFO within a
// level, in a freshly allocated slice. Intended for introspection call
// sites (dashboard rendering, tests) where one allocation per call
// doesn't matter. The tick fast path uses AppendTo instead.
func (r *ReadyList) All() []*TCB {
	return r.AppendTo(make([]*TCB, 0, r.count))
}

// AppendTo appends every Ready TCB in priority-ascending order, FIFO
// within a level, to dst and returns the result. Callers on the tick
// fast path pass a kernel-owned buffer sliced to zero length so the
// snapshot reuses its backing array from one schedule() call to the
// next instead of allocating once the task set's Ready-count has
// stabilized.
func (r *ReadyList) AppendTo(dst []*TCB) []*TCB {
	for w := 0; w < bitmapWords; w++ {
		word := r.bitmap[w]
		for word != 0 {
			bit := bits.TrailingZeros32(word)
			p := w*32 + bit
			dst = append(dst, r.buckets[p]...)
			word &^= 1 << uint(bit)
		}
	}
	return dst
}
