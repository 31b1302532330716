package seq

import (
	"math/bits"
	"unsafe"
)

// BucketSizePolicy computes the target bucket capacity B for a container
// holding n elements. It is queried every time the bucket manager
// recomputes its bucket size; implementations must always return a power
// of two within [minB, maxB].
type BucketSizePolicy func(n int) int

// defaultBucketSizePolicy implements the default table: a small lookup
// below 4096 elements, and a sqrt(N)-derived power of two above it, offset
// by how many elements of T fit in a cache line, clamped to [minB, maxB].
func defaultBucketSizePolicy[T any](minB, maxB int) BucketSizePolicy {
	elemSize := int(unsafe.Sizeof(*new(T)))
	offset := sqrtOffsetForSize(elemSize)
	return func(n int) int {
		if n < minB {
			return minB
		}
		var res int
		switch {
		case n < 4096:
			switch {
			case n < 8:
				res = 2
			case n < 32:
				res = 4
			case n < 128:
				res = 8
			case n < 512:
				res = 16
			case n < 1024:
				res = 32
			case n < 2048:
				res = 64
			default:
				res = 128
			}
		default:
			sqrtN := isqrt(n)
			bitsLog2 := bits.Len(uint(sqrtN)) - 1
			if bitsLog2 < 0 {
				bitsLog2 = 0
			}
			res = 1 << (bitsLog2 + offset)
		}
		if res < minB {
			res = minB
		}
		if res > maxB {
			res = maxB
		}
		return res
	}
}

// sqrtOffsetForSize mirrors the offset table from FindBucketSize: bigger
// elements get a smaller offset, since moving objects between buckets
// becomes relatively more expensive than shifting within one as T grows.
func sqrtOffsetForSize(sizeofT int) int {
	switch {
	case sizeofT <= 16:
		return 3
	case sizeofT <= 64:
		return 2
	default:
		return 1
	}
}

// isqrt computes floor(sqrt(n)) for n >= 0 using integer Newton's method,
// avoiding the float64 rounding edge cases math.Sqrt can hit near perfect
// squares for large n.
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// reevalInterval is how often (in insertions/erasures) the bucket manager
// re-checks whether the bucket size policy wants a different B: every
// max(64, minB^2) insertions or erasures.
func reevalInterval(minB int) int {
	sq := minB * minB
	if sq < 64 {
		return 64
	}
	return sq
}
