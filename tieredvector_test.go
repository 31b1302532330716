package seq

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Empty(t *testing.T) {
	v := New[string]()
	assert.True(t, v.Empty())
	assert.Equal(t, 0, v.Len())
}

func TestTieredVector_PushBackSequence(t *testing.T) {
	v := New[int]()
	for i := 0; i < 1000; i++ {
		v.PushBack(i)
	}
	require.Equal(t, 1000, v.Len())
	assert.Equal(t, 0, v.At(0))
	assert.Equal(t, 999, v.At(999))
	assert.GreaterOrEqual(t, v.BucketSize(), DefaultMinBucketSize)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, i, v.At(i))
	}
}

func TestTieredVector_EraseMiddleShiftsNeighbors(t *testing.T) {
	v := New[int]()
	for i := 0; i < 1000; i++ {
		v.PushBack(i)
	}
	removed := v.Erase(500)
	assert.Equal(t, 500, removed)
	assert.Equal(t, 999, v.Len())
	assert.Equal(t, 501, v.At(500))
	assert.Equal(t, 498, v.At(498))
}

func TestTieredVector_InsertMiddleShiftsNeighbors(t *testing.T) {
	v := New[int]()
	for i := 0; i < 1000; i++ {
		v.PushBack(i)
	}
	v.Insert(500, 42)
	assert.Equal(t, 1001, v.Len())
	assert.Equal(t, 499, v.At(499))
	assert.Equal(t, 42, v.At(500))
	assert.Equal(t, 500, v.At(501))
}

func TestTieredVector_PushFrontThenSort(t *testing.T) {
	v := New[int]()
	for i := 0; i < 100; i++ {
		v.PushFront(i)
	}
	v.Sort(func(a, b int) bool { return a < b })
	for i := 0; i < 100; i++ {
		assert.Equal(t, i, v.At(i))
	}
}

func TestTieredVector_FullSingleBucketGrowsOnPushBack(t *testing.T) {
	v := NewWithBucketSize[int](4, 4)
	for i := 0; i < 4; i++ {
		v.PushBack(i)
	}
	require.Equal(t, 1, v.BucketCount())
	v.PushBack(4)
	assert.Equal(t, 2, v.BucketCount())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, v.Slice())
}

func TestTieredVector_RebalanceStress(t *testing.T) {
	v := New[int]()
	for i := 0; i < 10_000; i++ {
		v.PushBack(i)
	}
	b := v.BucketSize()
	sqrtN := 100 // isqrt(10000)
	assert.GreaterOrEqual(t, b, sqrtN/2)
	assert.LessOrEqual(t, b, sqrtN*2)
	for i := 0; i < 10_000; i++ {
		assert.Equal(t, i, v.At(i))
	}
}

func TestTieredVector_Iterator(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3, 4})
	it := v.Iterator()
	var got []int
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestTieredVector_IteratorAt(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3, 4})
	it := v.IteratorAt(2)
	require.True(t, it.Next())
	assert.Equal(t, 3, it.Value())
}

func TestTieredVector_ReverseIterator(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3, 4})
	it := v.ReverseIterator()
	var got []int
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []int{4, 3, 2, 1}, got)
}

func TestTieredVector_EmptyPopPanics(t *testing.T) {
	v := New[int]()
	assert.Panics(t, func() { v.PopBack() })
	assert.Panics(t, func() { v.PopFront() })
	assert.Panics(t, func() { v.Front() })
	assert.Panics(t, func() { v.Back() })
}

func TestTieredVector_SingleElementIteratorAtEnd(t *testing.T) {
	v := NewFromSlice([]int{7})
	require.False(t, v.IteratorAt(1).Next())
}

func TestTieredVector_Swap(t *testing.T) {
	a := NewFromSlice([]int{1, 2})
	b := NewFromSlice([]int{9})
	a.Swap(b)
	assert.Equal(t, []int{9}, a.Slice())
	assert.Equal(t, []int{1, 2}, b.Slice())
}

func TestTieredVector_Resize(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3})
	v.Resize(5, func(i int) int { return i * 10 })
	assert.Equal(t, []int{1, 2, 3, 30, 40}, v.Slice())
	v.Resize(1, nil)
	assert.Equal(t, []int{1}, v.Slice())
}

func TestTieredVector_StableSortPreservesEqualRelativeOrder(t *testing.T) {
	type pair struct{ key, seq int }
	v := New[pair]()
	for i := 0; i < 50; i++ {
		v.PushBack(pair{key: i % 5, seq: i})
	}
	v.StableSort(func(a, b pair) bool { return a.key < b.key })
	lastSeqForKey := map[int]int{}
	v.ForEach(func(_ int, p pair) {
		if prev, ok := lastSeqForKey[p.key]; ok {
			assert.Greater(t, p.seq, prev)
		}
		lastSeqForKey[p.key] = p.seq
	})
}

// FuzzTieredVector_Oracle drives a TieredVector against a plain slice model.
func FuzzTieredVector_Oracle(f *testing.F) {
	f.Add(int64(3), 500)
	f.Fuzz(func(t *testing.T, seed int64, steps int) {
		if steps < 0 || steps > 3000 {
			t.Skip("out of range")
		}
		r := rand.New(rand.NewSource(seed))
		v := NewWithBucketSize[int](4, 64)
		var model []int

		for i := 0; i < steps; i++ {
			switch r.Intn(7) {
			case 0:
				x := r.Int()
				v.PushBack(x)
				model = append(model, x)
			case 1:
				x := r.Int()
				v.PushFront(x)
				model = append([]int{x}, model...)
			case 2:
				if len(model) > 0 {
					got := v.PopBack()
					want := model[len(model)-1]
					model = model[:len(model)-1]
					if got != want {
						t.Fatalf("PopBack = %d, want %d", got, want)
					}
				}
			case 3:
				if len(model) > 0 {
					got := v.PopFront()
					want := model[0]
					model = model[1:]
					if got != want {
						t.Fatalf("PopFront = %d, want %d", got, want)
					}
				}
			case 4:
				x := r.Int()
				pos := r.Intn(len(model) + 1)
				v.Insert(pos, x)
				model = append(model, 0)
				copy(model[pos+1:], model[pos:])
				model[pos] = x
			case 5:
				if len(model) > 0 {
					pos := r.Intn(len(model))
					got := v.Erase(pos)
					want := model[pos]
					model = append(model[:pos], model[pos+1:]...)
					if got != want {
						t.Fatalf("Erase(%d) = %d, want %d", pos, got, want)
					}
				}
			case 6:
				cp := append([]int(nil), model...)
				sort.Ints(cp)
				v.Sort(func(a, b int) bool { return a < b })
				model = cp
			}
			if got := v.Slice(); !intSliceEqual(got, model) {
				t.Fatalf("state mismatch after op %d: got %v, want %v", i, got, model)
			}
		}
	})
}

func TestTieredVector_ForEachRangeBucketMajor(t *testing.T) {
	v := New[int]()
	for i := 0; i < 500; i++ {
		v.PushBack(i)
	}
	var got []int
	v.ForEachRange(100, 250, func(pos, value int) {
		if value != pos {
			t.Fatalf("ForEachRange pos %d: value = %d, want %d", pos, value, pos)
		}
		got = append(got, value)
	})
	require.Len(t, got, 150)
	assert.Equal(t, 100, got[0])
	assert.Equal(t, 249, got[len(got)-1])
}

func TestTieredVector_ResizeFront(t *testing.T) {
	v := NewFromSlice([]int{3, 4, 5})
	v.ResizeFront(6, func(i int) int { return i })
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, v.Slice())
	v.ResizeFront(2, nil)
	assert.Equal(t, []int{4, 5}, v.Slice())
}

func TestTieredVector_AssignAndAssignN(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3})
	v.Assign([]int{9, 8, 7, 6})
	assert.Equal(t, []int{9, 8, 7, 6}, v.Slice())

	v.AssignN(5, 42)
	assert.Equal(t, []int{42, 42, 42, 42, 42}, v.Slice())
}

func TestTieredVector_Clone(t *testing.T) {
	v := NewFromSlice([]int{1, 2, 3})
	c := v.Clone()
	c.PushBack(4)
	assert.Equal(t, []int{1, 2, 3}, v.Slice())
	assert.Equal(t, []int{1, 2, 3, 4}, c.Slice())
}
