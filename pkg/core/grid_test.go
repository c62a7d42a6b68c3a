package core

import (
	"errors"
	"testing"
)

func TestGridBoundsChecked(t *testing.T) {
	g, err := NewGrid[uint8](3, 2)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if !g.Set(2, 1, 7) {
		t.Fatal("expected in-range set to succeed")
	}
	if v, ok := g.Get(2, 1); !ok || v != 7 {
		t.Fatalf("Get(2,1) = %d,%v; want 7,true", v, ok)
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}} {
		if _, ok := g.Get(p[0], p[1]); ok {
			t.Fatalf("Get(%d,%d) should be absent", p[0], p[1])
		}
		if g.Set(p[0], p[1], 1) {
			t.Fatalf("Set(%d,%d) should be ignored", p[0], p[1])
		}
	}
}

func TestGridSwapAndClear(t *testing.T) {
	g, _ := NewGrid[int](2, 1)
	g.Set(0, 0, 1)
	g.Set(1, 0, 2)
	g.Swap(0, 1)
	if a, _ := g.Get(0, 0); a != 2 {
		t.Fatalf("expected swapped value 2, got %d", a)
	}
	g.Clear()
	for i, v := range g.Cells() {
		if v != 0 {
			t.Fatalf("cell %d not cleared: %d", i, v)
		}
	}
}

func TestGridRejectsBadDimensions(t *testing.T) {
	if _, err := NewGrid[int](-1, 4); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	huge := int(^uint(0) >> 1)
	if _, err := NewGrid[int](huge, 2); !errors.Is(err, ErrGridTooLarge) {
		t.Fatalf("expected ErrGridTooLarge, got %v", err)
	}
	g, err := NewGrid[int](0, 0)
	if err != nil || len(g.Cells()) != 0 {
		t.Fatalf("zero grid should be legal and empty, got %v", err)
	}
}

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 32; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed must produce the same sequence")
		}
	}
	a.Seed(7)
	b.Seed(7)
	if a.IntN(1000) != b.IntN(1000) {
		t.Fatal("reseeding must restart the sequence")
	}
	if a.IntN(0) != 0 {
		t.Fatal("IntN(0) should return 0")
	}
}
