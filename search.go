package seq

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Search returns the index of the first element in v that is >= value,
// assuming v is already sorted ascending, or v.Len() if none is. It is the
// tiered-vector counterpart of catrate/ring.go's ringBuffer.Search, which
// wraps sort.Search the same way over a different underlying storage
// shape; kept as a free function (not a method) because Go forbids a
// method from adding a type constraint the receiver's type parameter
// doesn't already carry, and TieredVector[T] is declared over T any.
func Search[T constraints.Ordered](v *TieredVector[T], value T) int {
	return sort.Search(v.Len(), func(i int) bool { return v.At(i) >= value })
}

// SequenceSearch is Search's counterpart for Sequence. Binary search over a
// linked chain of buckets is only profitable because At is O(bucketCount)
// rather than O(size): sort.Search still halves the candidate range in
// O(log N) probes, each costing O(bucketCount) instead of O(1), which beats
// a linear scan once the sequence spans more than a handful of buckets.
func SequenceSearch[T constraints.Ordered](s *Sequence[T], value T) int {
	return sort.Search(s.Len(), func(i int) bool { return s.At(i) >= value })
}
