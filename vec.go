package coroloop

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// ceilPow2 returns the smallest power of two greater than or equal to n.
// n must be non-negative.
func ceilPow2[T constraints.Integer](n T) T {
	if n <= 1 {
		return 1
	}
	return T(1) << bits.Len(uint(n-1))
}

// vec is an amortized-growth sequence with splice and swap-remove, used for
// the loop's slot table, the vacancy free-list, and per-state alloc lists.
//
// Capacity grows to the smallest power of two that fits; splice and pop never
// shrink capacity. The zero value is an empty vec.
type vec[T any] struct {
	s []T
}

// vecOf adopts an existing slice as backing storage.
func vecOf[T any](s []T) vec[T] {
	return vec[T]{s: s}
}

func (v *vec[T]) len() int {
	return len(v.s)
}

func (v *vec[T]) at(i int) T {
	return v.s[i]
}

func (v *vec[T]) set(i int, x T) {
	v.s[i] = x
}

// push appends x, growing capacity to the next power of two when full.
func (v *vec[T]) push(x T) {
	if len(v.s) == cap(v.s) {
		v.grow(1)
	}
	v.s = append(v.s, x)
}

// reserve ensures capacity for at least n additional elements, using a single
// reallocation. Subsequent pushes of up to n elements will not reallocate.
func (v *vec[T]) reserve(n int) {
	if n <= 0 || cap(v.s)-len(v.s) >= n {
		return
	}
	v.grow(n)
}

func (v *vec[T]) grow(n int) {
	next := make([]T, len(v.s), ceilPow2(len(v.s)+n))
	copy(next, v.s)
	v.s = next
}

// pop removes and returns the last element.
func (v *vec[T]) pop() T {
	i := len(v.s) - 1
	x := v.s[i]
	var zero T
	v.s[i] = zero
	v.s = v.s[:i]
	return x
}

// splice removes count elements starting at start, shifting the tail down.
// Capacity is unchanged; vacated tail entries are zeroed for GC.
func (v *vec[T]) splice(start, count int) {
	if count <= 0 {
		return
	}
	var zero T
	copy(v.s[start:], v.s[start+count:])
	tail := len(v.s) - count
	for i := tail; i < len(v.s); i++ {
		v.s[i] = zero
	}
	v.s = v.s[:tail]
}

// swapRemove removes the element at i by moving the last element into its
// place. O(1), does not preserve order.
func (v *vec[T]) swapRemove(i int) T {
	x := v.s[i]
	v.s[i] = v.s[len(v.s)-1]
	var zero T
	v.s[len(v.s)-1] = zero
	v.s = v.s[:len(v.s)-1]
	return x
}

// destroy releases the backing buffer and re-zeroes the vec.
func (v *vec[T]) destroy() {
	v.s = nil
}
