package coroloop

import (
	"math/bits"
	"sync"
	"unsafe"

	"golang.org/x/exp/slices"
)

// The arena exists because coroutine bodies cannot keep ordinary stack
// allocations across suspensions: a suspension returns control to the loop
// and unwinds the native call frame. Blocks obtained here live exactly as
// long as the owning state, and their release is guaranteed even on
// cancellation.
//
// Blocks are drawn from size-classed pools shared across states. A class
// holds blocks of one power-of-two capacity; oversized requests bypass the
// pools and are left to the garbage collector on release.

const (
	// minBlockClass is the smallest pooled capacity, 1<<minBlockClass bytes.
	minBlockClass = 6
	// maxBlockClass is the largest pooled capacity, 1<<maxBlockClass bytes.
	maxBlockClass = 20
)

var blockPools [maxBlockClass + 1]sync.Pool

// blockClass returns the pool class for a request of n bytes, or -1 when the
// request is not pooled.
func blockClass(n int) int {
	if n < 0 || n > 1<<maxBlockClass {
		return -1
	}
	if n <= 1<<minBlockClass {
		return minBlockClass
	}
	return bits.Len(uint(n - 1))
}

// newBlock returns a zeroed block of length n; pooled when n fits a class.
func newBlock(n int) []byte {
	cl := blockClass(n)
	if cl < 0 {
		return make([]byte, n)
	}
	if x := blockPools[cl].Get(); x != nil {
		b := x.([]byte)[:n]
		clear(b)
		return b
	}
	return make([]byte, n, 1<<cl)
}

// releaseBlock returns a block to its pool, when it came from one.
func releaseBlock(b []byte) {
	if cap(b) == 0 {
		return
	}
	cl := blockClass(cap(b))
	if cl < 0 || cap(b) != 1<<cl {
		return
	}
	blockPools[cl].Put(b[:0:cap(b)])
}

// sameBlock reports whether two slices share a backing array.
func sameBlock(a, b []byte) bool {
	return unsafe.SliceData(a) == unsafe.SliceData(b) && cap(a) == cap(b)
}

// Alloc allocates a zeroed block of n bytes from the state's scratch arena
// and registers it for release when the state is destroyed. Returns nil when
// n is negative.
func (c *Coro) Alloc(n int) []byte {
	if n < 0 {
		return nil
	}
	b := newBlock(n)
	c.allocs.push(b)
	return b
}

// Free releases a block obtained from [Coro.Alloc] (or registered via
// [Coro.FreeLater]) ahead of the state's destruction, reporting whether the
// block was registered with this state. The search is linear in the number of
// registered blocks.
func (c *Coro) Free(b []byte) bool {
	i := slices.IndexFunc(c.allocs.s, func(x []byte) bool {
		return sameBlock(x, b)
	})
	if i < 0 {
		return false
	}
	blk := c.allocs.at(i)
	c.allocs.splice(i, 1)
	releaseBlock(blk)
	return true
}

// FreeLater registers an existing block for release when the state is
// destroyed, without allocating.
func (c *Coro) FreeLater(b []byte) {
	c.allocs.push(b)
}
