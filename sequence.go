package seq

import (
	"fmt"
	"unsafe"
)

// Sequence is a doubly linked list of fixed-capacity (64-slot) buckets: it
// trades the tiered vector's O(sqrt N) middle insertion for O(1) push/pop at
// both ends, O(1) erasure at any iterator position, and reference/iterator
// stability for every survivor of a mutation. Positional random access
// (At/IteratorAt) costs O(bucketCount), since there is no directory to
// index into the way the tiered vector has.
//
// Each bucket is doubly linked into the main chain, and, while it has spare
// capacity, a second overlay chain (the free-list) threads through the same
// nodes via their own prev/next pair, so an unordered Insert can find a
// bucket with room without scanning the whole list.
//
// A Sequence is not safe for concurrent use without external
// synchronization; concurrent readers are fine, but any writer needs
// exclusive access.
type Sequence[T any] struct {
	head, tail *slotBucket[T]
	freeHead   *slotBucket[T]
	n          int
	buckets    int
}

// NewSequence creates an empty Sequence.
func NewSequence[T any]() *Sequence[T] {
	return &Sequence[T]{}
}

// NewSequenceFromSlice creates a Sequence containing a copy of values, in
// order.
func NewSequenceFromSlice[T any](values []T) *Sequence[T] {
	s := NewSequence[T]()
	for _, v := range values {
		s.PushBack(v)
	}
	return s
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int { return s.n }

// Empty reports whether the sequence has no elements.
func (s *Sequence[T]) Empty() bool { return s.n == 0 }

// BucketCount returns the number of 64-slot buckets currently allocated.
func (s *Sequence[T]) BucketCount() int { return s.buckets }

// Capacity returns the total slot count across all allocated buckets,
// i.e. BucketCount()*64.
func (s *Sequence[T]) Capacity() int { return s.buckets * slotBucketCapacity }

// MemoryFootprint estimates live bytes of storage: every allocated bucket's
// full 64-slot array, regardless of how many of its slots are occupied.
// Accounting for unused slot-bucket capacity pending ShrinkToFit, rather
// than just logical size, matters because a naive Len()*sizeof(T) figure
// would understate the cost of a sequence with many sparsely occupied
// buckets.
func (s *Sequence[T]) MemoryFootprint() int {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	return s.buckets * slotBucketCapacity * elemSize
}

func (s *Sequence[T]) linkMainBack(b *slotBucket[T]) {
	b.prev = s.tail
	b.next = nil
	if s.tail != nil {
		s.tail.next = b
	} else {
		s.head = b
	}
	s.tail = b
	s.buckets++
}

func (s *Sequence[T]) linkMainFront(b *slotBucket[T]) {
	b.next = s.head
	b.prev = nil
	if s.head != nil {
		s.head.prev = b
	} else {
		s.tail = b
	}
	s.head = b
	s.buckets++
}

// unlinkMain removes b from the main chain; b must currently be a member.
// Deliberately leaves b.prev/b.next pointing at their old neighbors instead
// of nilling them: an iterator that was sitting on the last surviving slot
// of a bucket that just got fully erased (and therefore unlinked) must
// still be able to step forward/backward into the buckets that were
// adjacent to it, which only works if the detached node's own links are
// left as a stale snapshot of the chain rather than severed.
func (s *Sequence[T]) unlinkMain(b *slotBucket[T]) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		s.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		s.tail = b.prev
	}
	s.buckets--
}

// linkFree pushes b onto the front of the free-list overlay; b must not
// already be a member.
func (s *Sequence[T]) linkFree(b *slotBucket[T]) {
	if b.inFreeList {
		return
	}
	b.freeNext = s.freeHead
	b.freePrev = nil
	if s.freeHead != nil {
		s.freeHead.freePrev = b
	}
	s.freeHead = b
	b.inFreeList = true
}

// unlinkFree removes b from the free-list overlay if present.
func (s *Sequence[T]) unlinkFree(b *slotBucket[T]) {
	if !b.inFreeList {
		return
	}
	if b.freePrev != nil {
		b.freePrev.freeNext = b.freeNext
	} else {
		s.freeHead = b.freeNext
	}
	if b.freeNext != nil {
		b.freeNext.freePrev = b.freePrev
	}
	b.freePrev, b.freeNext = nil, nil
	b.inFreeList = false
}

// PushBack appends v at the end, allocating a new trailing bucket whenever
// the tail bucket's backmost slot (63) is already taken. The gate is
// "is bit 63 occupied", not "is the mask completely full": the two only
// coincide once every slot has been pushed to from one end without any
// interior holes, so gating on full() instead would read end==64 (already
// true once only the backmost slot is occupied) as "not full" and try to
// construct past the 64-slot array.
func (s *Sequence[T]) PushBack(v T) {
	if s.tail == nil || !s.tail.canPushBack() {
		b := newSlotBucket[T]()
		s.linkMainBack(b)
		s.linkFree(b)
	}
	b := s.tail
	b.set(b.backSlot(), v)
	if b.full() {
		s.unlinkFree(b)
	}
	s.n++
}

// PushFront prepends v at the start, allocating a new leading bucket
// whenever the head bucket's frontmost slot (0) is already taken. Symmetric
// to PushBack; see its comment for why the gate is canPushFront(), not
// full().
func (s *Sequence[T]) PushFront(v T) {
	if s.head == nil || !s.head.canPushFront() {
		b := newSlotBucket[T]()
		s.linkMainFront(b)
		s.linkFree(b)
	}
	b := s.head
	b.set(b.frontSlot(), v)
	if b.full() {
		s.unlinkFree(b)
	}
	s.n++
}

// PopBack removes and returns the last element; panics if empty. The
// bucket is deallocated unconditionally once it becomes empty, even if it
// is the only remaining bucket (see DESIGN.md, "Sentinel node").
func (s *Sequence[T]) PopBack() T {
	if s.tail == nil {
		panic(`seq: sequence: pop_back on empty sequence`)
	}
	b := s.tail
	wasFull := b.full()
	v := b.clear(b.lastUsed())
	s.n--
	if b.empty() {
		s.unlinkFree(b)
		s.unlinkMain(b)
	} else if wasFull {
		s.linkFree(b)
	}
	return v
}

// PopFront removes and returns the first element; panics if empty.
func (s *Sequence[T]) PopFront() T {
	if s.head == nil {
		panic(`seq: sequence: pop_front on empty sequence`)
	}
	b := s.head
	wasFull := b.full()
	v := b.clear(b.firstUsed())
	s.n--
	if b.empty() {
		s.unlinkFree(b)
		s.unlinkMain(b)
	} else if wasFull {
		s.linkFree(b)
	}
	return v
}

// Front returns the first element; panics if empty.
func (s *Sequence[T]) Front() T {
	if s.head == nil {
		panic(`seq: sequence: front of empty sequence`)
	}
	return s.head.slots[s.head.firstUsed()]
}

// Back returns the last element; panics if empty.
func (s *Sequence[T]) Back() T {
	if s.tail == nil {
		panic(`seq: sequence: back of empty sequence`)
	}
	return s.tail.slots[s.tail.lastUsed()]
}

// Insert places v into whichever bucket the free-list currently favors
// (an unordered insert), allocating a fresh bucket only when the free-list
// is empty, and returns an iterator to the inserted element. Unlike
// PushBack/PushFront, Insert does not preserve any particular ordering
// relative to the rest of the sequence.
func (s *Sequence[T]) Insert(v T) *SeqIterator[T] {
	var b *slotBucket[T]
	if s.freeHead != nil {
		b = s.freeHead
	} else {
		b = newSlotBucket[T]()
		s.linkMainBack(b)
		s.linkFree(b)
	}
	slot := b.emplaceSlot()
	b.set(slot, v)
	s.n++
	if b.full() {
		s.unlinkFree(b)
	}
	return &SeqIterator[T]{s: s, b: b, slot: slot, started: true}
}

// At returns the element at position pos in O(bucketCount); panics if pos
// is out of range.
func (s *Sequence[T]) At(pos int) T {
	b, slot := s.locate(pos)
	if b == nil {
		panic(`seq: sequence: index out of range`)
	}
	return b.slots[slot]
}

// TryAt is the non-panicking counterpart of At.
func (s *Sequence[T]) TryAt(pos int) (T, error) {
	b, slot := s.locate(pos)
	if b == nil {
		var zero T
		return zero, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, pos, s.n)
	}
	return b.slots[slot], nil
}

// SetAt overwrites the element at position pos; panics if pos is out of
// range.
func (s *Sequence[T]) SetAt(pos int, v T) {
	b, slot := s.locate(pos)
	if b == nil {
		panic(`seq: sequence: index out of range`)
	}
	b.slots[slot] = v
}

// locate walks the main chain counting per-bucket occupancy until pos
// falls inside the current bucket, then bit-scans to the pos-th used slot
// within it — the random-access counterpart of the iterator-advance scan.
// Returns (nil, 0) if pos is out of range.
func (s *Sequence[T]) locate(pos int) (*slotBucket[T], int) {
	if pos < 0 || pos >= s.n {
		return nil, 0
	}
	b := s.head
	for b != nil {
		sz := b.size()
		if pos < sz {
			slot := b.firstUsed()
			for i := 0; i < pos; i++ {
				slot = b.nextUsedFrom(slot + 1)
			}
			return b, slot
		}
		pos -= sz
		b = b.next
	}
	return nil, 0
}

// Erase removes the element the iterator currently refers to and returns
// it. Every other live iterator remains valid; it, having been erased, must
// not be reused.
func (s *Sequence[T]) Erase(it *SeqIterator[T]) T {
	if it == nil || it.b == nil {
		panic(`seq: sequence: erase: invalid iterator`)
	}
	b := it.b
	wasFull := b.full()
	v := b.clear(it.slot)
	s.n--
	if b.empty() {
		s.unlinkFree(b)
		s.unlinkMain(b)
	} else if wasFull {
		s.linkFree(b)
	}
	it.b = nil
	return v
}

// Clear removes every element, releasing all buckets.
func (s *Sequence[T]) Clear() {
	s.head, s.tail, s.freeHead = nil, nil, nil
	s.n, s.buckets = 0, 0
}

// EraseRange removes the elements in [first, last), returning the number
// removed. Each removal relocates to the (now shifted) position first, the
// same repeated-Erase strategy TieredVector.EraseRange uses, since a range
// erase has no O(1) shortcut once the endpoints span more than one bucket.
func (s *Sequence[T]) EraseRange(first, last int) int {
	if first < 0 || last > s.n || first > last {
		panic(`seq: sequence: invalid range`)
	}
	for i := first; i < last; i++ {
		it := s.IteratorAt(first)
		it.Next()
		s.Erase(it)
	}
	return last - first
}

// Resize grows or shrinks the sequence to exactly n elements. When
// growing, new elements are produced by fill(i) for i in [Len(), n).
func (s *Sequence[T]) Resize(n int, fill func(i int) T) {
	switch {
	case n < 0:
		panic(`seq: sequence: resize: negative size`)
	case n < s.n:
		for i := s.n; i > n; i-- {
			s.PopBack()
		}
	case n > s.n:
		for i := s.n; i < n; i++ {
			s.PushBack(fill(i))
		}
	}
}

// Assign replaces the sequence's contents with a copy of values, in order.
func (s *Sequence[T]) Assign(values []T) {
	s.Clear()
	for _, v := range values {
		s.PushBack(v)
	}
}

// AssignN replaces the sequence's contents with n copies of value.
func (s *Sequence[T]) AssignN(n int, value T) {
	s.Clear()
	for i := 0; i < n; i++ {
		s.PushBack(value)
	}
}

// Clone returns a deep copy of s: the new sequence owns its own buckets,
// so mutating one never affects the other (see TieredVector.Clone for why
// Go needs an explicit deep-copy method here).
func (s *Sequence[T]) Clone() *Sequence[T] {
	return NewSequenceFromSlice(s.Slice())
}

// Swap exchanges the contents of s and o in O(1).
func (s *Sequence[T]) Swap(o *Sequence[T]) { *s, *o = *o, *s }

// advance finds the first occupied slot at position >= slot within b, or,
// failing that, within b.next, b.next.next, ... It is the shared stepping
// function behind forward iteration and IteratorAt.
func (s *Sequence[T]) advance(b *slotBucket[T], slot int) (*slotBucket[T], int) {
	for b != nil {
		if n := b.nextUsedFrom(slot); n != slotBucketCapacity {
			return b, n
		}
		b = b.next
		slot = 0
	}
	return nil, 0
}

// retreat is the mirror of advance, walking the chain backward via
// prevUsedFrom/b.prev.
func (s *Sequence[T]) retreat(b *slotBucket[T], slot int) (*slotBucket[T], int) {
	for b != nil {
		if p := b.prevUsedFrom(slot); p != -1 {
			return b, p
		}
		b = b.prev
		slot = slotBucketCapacity - 1
	}
	return nil, 0
}

// ForEach visits every element in order, from the front.
func (s *Sequence[T]) ForEach(fn func(pos int, value T)) {
	pos := 0
	for b := s.head; b != nil; b = b.next {
		for slot := b.nextUsedFrom(0); slot != slotBucketCapacity; slot = b.nextUsedFrom(slot + 1) {
			fn(pos, b.slots[slot])
			pos++
		}
	}
}

// Slice materializes the sequence's contents into a new slice, in order.
func (s *Sequence[T]) Slice() []T {
	out := make([]T, 0, s.n)
	s.ForEach(func(_ int, v T) { out = append(out, v) })
	return out
}

// ShrinkToFit copies the elements out into a slice, clears the sequence and
// rebuilds it with PushBack, so that storage becomes a dense prefix of full
// buckets possibly followed by one partially filled trailing bucket; the
// old buckets are released. Invalidates every iterator and reference.
func (s *Sequence[T]) ShrinkToFit() {
	if s.n == 0 {
		return
	}
	values := s.Slice()
	s.Clear()
	for _, v := range values {
		s.PushBack(v)
	}
}

// Sort reorders every element according to less. It first calls
// ShrinkToFit to linearize storage into dense per-bucket runs, then applies
// the same normalize+sort+k-way-merge kernel the tiered vector uses (see
// sort.go). Invalidates every iterator and reference.
func (s *Sequence[T]) Sort(less func(a, b T) bool) { s.sortImpl(less, false) }

// StableSort is Sort but preserves the relative order of elements neither
// less than the other.
func (s *Sequence[T]) StableSort(less func(a, b T) bool) { s.sortImpl(less, true) }

func (s *Sequence[T]) sortImpl(less func(a, b T) bool, stable bool) {
	s.ShrinkToFit()
	if s.buckets == 0 {
		return
	}
	runs := make([][]T, 0, s.buckets)
	for b := s.head; b != nil; b = b.next {
		run := make([]T, b.size())
		for i := range run {
			run[i] = b.slots[int(b.start)+i]
		}
		runs = append(runs, run)
	}
	sortRuns(runs, less, stable)
	i := 0
	for b := s.head; b != nil; b = b.next {
		run := runs[i]
		for j, v := range run {
			b.slots[int(b.start)+j] = v
		}
		i++
	}
}

// Iterator returns a forward iterator positioned before the first element.
// Call Next before the first Value.
func (s *Sequence[T]) Iterator() *SeqIterator[T] { return &SeqIterator[T]{s: s} }

// IteratorAt returns a forward iterator positioned just before pos, in
// O(pos/64); the first Next moves it onto pos, as with Iterator. pos ==
// Len() is permitted and yields a past-the-end iterator whose Next reports
// false.
func (s *Sequence[T]) IteratorAt(pos int) *SeqIterator[T] {
	if pos < 0 || pos > s.n {
		panic(`seq: sequence: index out of range`)
	}
	if pos == s.n {
		return &SeqIterator[T]{s: s, started: true}
	}
	b, slot := s.locate(pos)
	// Next scans forward from slot+1, and slot pos is occupied, so the
	// first Next lands exactly on pos.
	return &SeqIterator[T]{s: s, b: b, slot: slot - 1, started: true}
}

// ReverseIterator returns a reverse iterator positioned after the last
// element. Call Next before the first Value.
func (s *Sequence[T]) ReverseIterator() *SeqReverseIterator[T] {
	return &SeqReverseIterator[T]{s: s}
}

// SeqIterator walks a Sequence from front to back using a bit-scan advance:
// each step is O(1) amortized, since within a bucket it is a single
// TrailingZeros64 and crossing a bucket boundary happens once per 64
// elements.
type SeqIterator[T any] struct {
	s       *Sequence[T]
	b       *slotBucket[T]
	slot    int
	started bool
}

// Next advances the iterator and reports whether a value is now available.
func (it *SeqIterator[T]) Next() bool {
	if !it.started {
		it.started = true
		it.b, it.slot = it.s.advance(it.s.head, 0)
	} else if it.b != nil {
		it.b, it.slot = it.s.advance(it.b, it.slot+1)
	}
	return it.b != nil
}

// Valid reports whether the iterator currently refers to an element.
func (it *SeqIterator[T]) Valid() bool { return it.b != nil }

// Value returns the element the iterator currently refers to.
func (it *SeqIterator[T]) Value() T { return it.b.slots[it.slot] }

// SetValue overwrites the element the iterator currently refers to.
func (it *SeqIterator[T]) SetValue(v T) { it.b.slots[it.slot] = v }

// SeqReverseIterator walks a Sequence from back to front.
type SeqReverseIterator[T any] struct {
	s       *Sequence[T]
	b       *slotBucket[T]
	slot    int
	started bool
}

// Next retreats the iterator and reports whether a value is now available.
func (it *SeqReverseIterator[T]) Next() bool {
	if !it.started {
		it.started = true
		it.b, it.slot = it.s.retreat(it.s.tail, slotBucketCapacity-1)
	} else if it.b != nil {
		it.b, it.slot = it.s.retreat(it.b, it.slot-1)
	}
	return it.b != nil
}

// Valid reports whether the iterator currently refers to an element.
func (it *SeqReverseIterator[T]) Valid() bool { return it.b != nil }

// Value returns the element the iterator currently refers to.
func (it *SeqReverseIterator[T]) Value() T { return it.b.slots[it.slot] }
