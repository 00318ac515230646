package coroloop

import (
	"testing"
)

func TestCeilPow2(t *testing.T) {
	for _, tc := range [...]struct {
		in, out int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1023, 1024},
		{1024, 1024},
		{1025, 2048},
	} {
		if got := ceilPow2(tc.in); got != tc.out {
			t.Errorf("ceilPow2(%d) = %d, expected %d", tc.in, got, tc.out)
		}
	}
}

func TestVecPushGrowth(t *testing.T) {
	var v vec[int]
	for i := 0; i < 9; i++ {
		v.push(i)
	}
	if v.len() != 9 {
		t.Fatalf("expected len 9, got %d", v.len())
	}
	if cap(v.s) != 16 {
		t.Fatalf("expected capacity 16, got %d", cap(v.s))
	}
	for i := 0; i < 9; i++ {
		if v.at(i) != i {
			t.Fatalf("expected %d at index %d, got %d", i, i, v.at(i))
		}
	}
}

func TestVecReserve(t *testing.T) {
	var v vec[int]
	v.push(1)
	v.push(2)
	v.push(3)
	v.reserve(5)
	if cap(v.s) != 8 {
		t.Fatalf("expected capacity 8 after reserve, got %d", cap(v.s))
	}
	if v.len() != 3 {
		t.Fatalf("reserve changed length: %d", v.len())
	}
	before := cap(v.s)
	for i := 0; i < 5; i++ {
		v.push(i)
	}
	if cap(v.s) != before {
		t.Fatalf("push reallocated after reserve: cap %d != %d", cap(v.s), before)
	}
	v.reserve(0)
	if cap(v.s) != before {
		t.Fatal("reserve(0) reallocated")
	}
}

func TestVecSplice(t *testing.T) {
	var v vec[int]
	for i := 0; i < 6; i++ {
		v.push(i)
	}
	before := cap(v.s)
	v.splice(1, 2)
	if v.len() != 4 {
		t.Fatalf("expected len 4, got %d", v.len())
	}
	if cap(v.s) != before {
		t.Fatalf("splice changed capacity: %d != %d", cap(v.s), before)
	}
	for i, want := range []int{0, 3, 4, 5} {
		if v.at(i) != want {
			t.Fatalf("expected %d at index %d, got %d", want, i, v.at(i))
		}
	}
	v.splice(3, 1)
	if v.len() != 3 {
		t.Fatalf("expected len 3, got %d", v.len())
	}
	v.splice(0, 0)
	if v.len() != 3 {
		t.Fatal("splice of zero count changed length")
	}
}

func TestVecPop(t *testing.T) {
	var v vec[string]
	v.push("a")
	v.push("b")
	if got := v.pop(); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if v.len() != 1 {
		t.Fatalf("expected len 1, got %d", v.len())
	}
	if got := v.pop(); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if v.len() != 0 {
		t.Fatalf("expected empty, got len %d", v.len())
	}
}

func TestVecSwapRemove(t *testing.T) {
	var v vec[int]
	for _, x := range []int{1, 2, 3, 4} {
		v.push(x)
	}
	if got := v.swapRemove(1); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if v.len() != 3 || v.at(0) != 1 || v.at(1) != 4 || v.at(2) != 3 {
		t.Fatalf("unexpected contents after swapRemove: %v", v.s)
	}
	if got := v.swapRemove(2); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestVecDestroy(t *testing.T) {
	var v vec[int]
	v.push(1)
	v.destroy()
	if v.len() != 0 || cap(v.s) != 0 {
		t.Fatalf("expected released buffer, got len %d cap %d", v.len(), cap(v.s))
	}
	v.push(2)
	if v.len() != 1 || v.at(0) != 2 {
		t.Fatal("vec unusable after destroy")
	}
}

func TestVecOfAdoptsBacking(t *testing.T) {
	s := []int{1, 2, 3}
	v := vecOf(s)
	v.swapRemove(0)
	if s[0] != 3 {
		t.Fatalf("expected adopted backing to be mutated, got %v", s)
	}
}
