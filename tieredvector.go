package seq

import "fmt"

// DefaultMinBucketSize and DefaultMaxBucketSize bound the bucket-size
// policy used when a TieredVector is constructed with New instead of
// NewWithBucketSize.
const (
	DefaultMinBucketSize = 8
	DefaultMaxBucketSize = 1 << 16
)

// TieredVector is a random-accessible, ordered container offering amortized
// O(1) push/pop at both ends and amortized O(sqrt N) insertion/erasure
// anywhere else, backed by a two-level structure of fixed-capacity circular
// buckets. It is the exported counterpart of bucketManager.
//
// A TieredVector is not safe for concurrent use without external
// synchronization; concurrent readers are fine, but any writer needs
// exclusive access.
type TieredVector[T any] struct {
	m *bucketManager[T]
}

// New creates an empty TieredVector using the default bucket-size policy.
func New[T any]() *TieredVector[T] {
	return NewWithBucketSize[T](DefaultMinBucketSize, DefaultMaxBucketSize)
}

// NewWithBucketSize creates an empty TieredVector whose bucket capacity is
// always a power of two in [minBucketSize, maxBucketSize], governed by the
// default bucket-size policy. Both bounds must be powers of two; passing
// equal bounds pins the bucket size, at which point push/pop-at-ends
// invalidation degenerates to ordinary deque rules since no bucket resize
// can ever occur.
func NewWithBucketSize[T any](minBucketSize, maxBucketSize int) *TieredVector[T] {
	return &TieredVector[T]{m: newBucketManager[T](minBucketSize, maxBucketSize, nil)}
}

// NewWithPolicy creates an empty TieredVector using a custom bucket-size
// policy, overriding the default table.
func NewWithPolicy[T any](minBucketSize, maxBucketSize int, policy BucketSizePolicy) *TieredVector[T] {
	return &TieredVector[T]{m: newBucketManager[T](minBucketSize, maxBucketSize, policy)}
}

// NewFromSlice creates a TieredVector containing a copy of values, in order.
func NewFromSlice[T any](values []T) *TieredVector[T] {
	v := New[T]()
	v.m.Reserve(len(values))
	for _, x := range values {
		v.PushBack(x)
	}
	return v
}

// Len returns the number of elements.
func (v *TieredVector[T]) Len() int { return v.m.Len() }

// Empty reports whether the vector has no elements.
func (v *TieredVector[T]) Empty() bool { return v.m.Len() == 0 }

// BucketSize returns the current bucket capacity B.
func (v *TieredVector[T]) BucketSize() int { return v.m.BucketSize() }

// BucketCount returns the number of buckets in the directory.
func (v *TieredVector[T]) BucketCount() int { return v.m.BucketCount() }

// At returns the element at position i; panics if i is out of range.
func (v *TieredVector[T]) At(i int) T {
	if i < 0 || i >= v.m.Len() {
		panic(`seq: tiered vector: index out of range`)
	}
	return v.m.At(i)
}

// TryAt returns the element at position i, or ErrIndexOutOfRange wrapped
// with the offending index when i is out of range. Unlike At, it never
// panics: it is the non-panicking counterpart for call sites that treat an
// out-of-range position as routine (e.g. decoding an externally supplied
// index) rather than a programmer error.
func (v *TieredVector[T]) TryAt(i int) (T, error) {
	if i < 0 || i >= v.m.Len() {
		var zero T
		return zero, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, v.m.Len())
	}
	return v.m.At(i), nil
}

// Set overwrites the element at position i; panics if i is out of range.
func (v *TieredVector[T]) Set(i int, value T) {
	if i < 0 || i >= v.m.Len() {
		panic(`seq: tiered vector: index out of range`)
	}
	v.m.SetAt(i, value)
}

// Front returns the first element; panics if the vector is empty.
func (v *TieredVector[T]) Front() T {
	if v.m.Len() == 0 {
		panic(`seq: tiered vector: front of empty vector`)
	}
	return v.m.Front()
}

// Back returns the last element; panics if the vector is empty.
func (v *TieredVector[T]) Back() T {
	if v.m.Len() == 0 {
		panic(`seq: tiered vector: back of empty vector`)
	}
	return v.m.Back()
}

// PushBack appends value at the end.
func (v *TieredVector[T]) PushBack(value T) { v.m.PushBack(value) }

// PushFront prepends value at the start.
func (v *TieredVector[T]) PushFront(value T) { v.m.PushFront(value) }

// PopBack removes and returns the last element; panics if the vector is
// empty.
func (v *TieredVector[T]) PopBack() T {
	if v.m.Len() == 0 {
		panic(`seq: tiered vector: pop_back on empty vector`)
	}
	return v.m.PopBack()
}

// PopFront removes and returns the first element; panics if the vector is
// empty.
func (v *TieredVector[T]) PopFront() T {
	if v.m.Len() == 0 {
		panic(`seq: tiered vector: pop_front on empty vector`)
	}
	return v.m.PopFront()
}

// Insert places value at position pos, shifting whichever side of pos is
// shorter. pos == Len() appends; pos == 0 prepends.
func (v *TieredVector[T]) Insert(pos int, value T) { v.m.Insert(pos, value) }

// Erase removes and returns the element at position pos.
func (v *TieredVector[T]) Erase(pos int) T {
	if pos < 0 || pos >= v.m.Len() {
		panic(`seq: tiered vector: index out of range`)
	}
	return v.m.Erase(pos)
}

// EraseRange removes the elements in [first, last), returning the number
// removed.
func (v *TieredVector[T]) EraseRange(first, last int) int {
	if first < 0 || last > v.m.Len() || first > last {
		panic(`seq: tiered vector: invalid range`)
	}
	for i := first; i < last; i++ {
		v.m.Erase(first)
	}
	return last - first
}

// Clear removes every element.
func (v *TieredVector[T]) Clear() { v.m.Clear() }

// Reserve hints that the vector will hold approximately n elements,
// forcing an immediate bucket-size policy re-evaluation instead of waiting
// for the periodic check.
func (v *TieredVector[T]) Reserve(n int) { v.m.Reserve(n) }

// Resize grows or shrinks the vector to exactly n elements. When growing,
// new elements are produced by fill(i) for i in [Len(), n).
func (v *TieredVector[T]) Resize(n int, fill func(i int) T) {
	cur := v.m.Len()
	switch {
	case n < 0:
		panic(`seq: tiered vector: resize: negative size`)
	case n < cur:
		for i := cur; i > n; i-- {
			v.m.PopBack()
		}
	case n > cur:
		for i := cur; i < n; i++ {
			v.m.PushBack(fill(i))
		}
	}
}

// ResizeFront grows or shrinks the vector to exactly n elements, adding or
// removing at the front instead of the back. When growing, new elements
// are produced by fill(i) for i in [0, n-Len()) and prepended from the
// highest i down, so fill(0) ends up at the new front and fill(n-Len()-1)
// closest to the old front.
func (v *TieredVector[T]) ResizeFront(n int, fill func(i int) T) {
	cur := v.m.Len()
	switch {
	case n < 0:
		panic(`seq: tiered vector: resize_front: negative size`)
	case n < cur:
		for i := cur; i > n; i-- {
			v.m.PopFront()
		}
	case n > cur:
		added := n - cur
		for i := added - 1; i >= 0; i-- {
			v.m.PushFront(fill(i))
		}
	}
}

// Assign replaces the vector's contents with a copy of values, in order
// (a Go slice literal already serves as an initializer list, so no
// separate form is needed for that case).
func (v *TieredVector[T]) Assign(values []T) {
	v.Clear()
	v.m.Reserve(len(values))
	for _, x := range values {
		v.PushBack(x)
	}
}

// AssignN replaces the vector's contents with n copies of value.
func (v *TieredVector[T]) AssignN(n int, value T) {
	v.Clear()
	v.m.Reserve(n)
	for i := 0; i < n; i++ {
		v.PushBack(value)
	}
}

// Clone returns a deep copy of v: the new vector owns its own bucket
// manager, so mutating one never affects the other. Go has no implicit
// copy constructor, so a plain `x := *v` only copies the manager pointer
// and aliases storage; Clone is the explicit deep-copy escape hatch.
func (v *TieredVector[T]) Clone() *TieredVector[T] {
	c := NewWithBucketSize[T](v.m.minB, v.m.maxB)
	c.m.Reserve(v.m.Len())
	v.ForEach(func(_ int, value T) { c.PushBack(value) })
	return c
}

// ForEach visits every element in order, from position 0.
func (v *TieredVector[T]) ForEach(fn func(pos int, value T)) { v.m.ForEach(fn) }

// ForEachRange visits the elements in [first, last) in order; it is
// measurably faster than an iterator loop because it walks each bucket's
// contiguous range directly instead of re-locating a (bucket, slot) pair
// per step.
func (v *TieredVector[T]) ForEachRange(first, last int, fn func(pos int, value T)) {
	if first < 0 || last > v.m.Len() || first > last {
		panic(`seq: tiered vector: invalid range`)
	}
	v.m.ForEachRange(first, last, fn)
}

// Sort reorders every element according to less.
func (v *TieredVector[T]) Sort(less func(a, b T) bool) { v.m.Sort(less) }

// StableSort is Sort but preserves the relative order of elements neither
// less than the other.
func (v *TieredVector[T]) StableSort(less func(a, b T) bool) { v.m.StableSort(less) }

// Swap exchanges the contents of v and o in O(1).
func (v *TieredVector[T]) Swap(o *TieredVector[T]) { v.m, o.m = o.m, v.m }

// Slice materializes the vector's contents into a new slice, in order.
func (v *TieredVector[T]) Slice() []T {
	out := make([]T, 0, v.m.Len())
	v.m.ForEach(func(_ int, value T) { out = append(out, value) })
	return out
}

// Iterator returns a forward iterator positioned before the first element.
// Call Next before the first Value.
func (v *TieredVector[T]) Iterator() *TieredIterator[T] {
	return &TieredIterator[T]{v: v, pos: -1}
}

// IteratorAt returns a forward iterator positioned just before pos, in
// O(1); the first Next moves it onto pos (pos == Len() yields an iterator
// whose Next reports false).
func (v *TieredVector[T]) IteratorAt(pos int) *TieredIterator[T] {
	if pos < 0 || pos > v.m.Len() {
		panic(`seq: tiered vector: index out of range`)
	}
	return &TieredIterator[T]{v: v, pos: pos - 1}
}

// ReverseIterator returns a reverse iterator positioned after the last
// element. Call Next before the first Value.
func (v *TieredVector[T]) ReverseIterator() *TieredReverseIterator[T] {
	return &TieredReverseIterator[T]{v: v, pos: v.m.Len()}
}

// TieredIterator walks a TieredVector from front to back. Position-based
// random access makes this a thin wrapper: advancing is O(1) since the
// underlying (bucket, slot) mapping is recomputed per-call rather than
// cached, trading a few extra arithmetic ops for total immunity to bucket
// insert/erase shifting the iterator's target: a middle insert/erase
// invalidates iterators by value, not by corrupting memory.
type TieredIterator[T any] struct {
	v   *TieredVector[T]
	pos int
}

// Next advances the iterator and reports whether a value is now available.
func (it *TieredIterator[T]) Next() bool {
	it.pos++
	return it.pos < it.v.m.Len()
}

// Valid reports whether the iterator currently refers to an element.
func (it *TieredIterator[T]) Valid() bool { return it.pos >= 0 && it.pos < it.v.m.Len() }

// Value returns the element at the iterator's current position.
func (it *TieredIterator[T]) Value() T { return it.v.m.At(it.pos) }

// SetValue overwrites the element at the iterator's current position.
func (it *TieredIterator[T]) SetValue(value T) { it.v.m.SetAt(it.pos, value) }

// Pos returns the iterator's current logical position.
func (it *TieredIterator[T]) Pos() int { return it.pos }

// TieredReverseIterator walks a TieredVector from back to front.
type TieredReverseIterator[T any] struct {
	v   *TieredVector[T]
	pos int
}

// Next retreats the iterator and reports whether a value is now available.
func (it *TieredReverseIterator[T]) Next() bool {
	it.pos--
	return it.pos >= 0
}

// Valid reports whether the iterator currently refers to an element.
func (it *TieredReverseIterator[T]) Valid() bool { return it.pos >= 0 && it.pos < it.v.m.Len() }

// Value returns the element at the iterator's current position.
func (it *TieredReverseIterator[T]) Value() T { return it.v.m.At(it.pos) }

// Pos returns the iterator's current logical position.
func (it *TieredReverseIterator[T]) Pos() int { return it.pos }
