// Package seq implements a family of ordered, random-accessible generic
// containers built around fixed-capacity "buckets": a tiered-vector engine
// offering amortized O(sqrt N) middle insertion/erasure with O(1) amortized
// end operations, and a sequence engine offering O(1) push/pop at both ends
// and O(1) erasure at any position while preserving reference stability for
// survivors.
//
// Neither container is safe for concurrent use without external
// synchronization: any number of readers may run concurrently with each
// other, but a writer requires exclusive access.
package seq
