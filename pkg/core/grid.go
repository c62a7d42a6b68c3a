package core

import "errors"

// ErrGridTooLarge is returned when width*height does not fit in an int.
var ErrGridTooLarge = errors.New("grid dimensions overflow")

// ErrInvalidSize is returned for negative dimensions.
var ErrInvalidSize = errors.New("grid dimensions must be non-negative")

// Grid stores a 2D grid of values in row-major order. Coordinates outside the
// grid are reported as absent rather than wrapped.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions. Zero dimensions yield an
// empty grid.
func NewGrid[T any](w, h int) (*Grid[T], error) {
	if w < 0 || h < 0 {
		return nil, ErrInvalidSize
	}
	if w > 0 && h > (int(^uint(0)>>1))/w {
		return nil, ErrGridTooLarge
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for (x, y) and whether it is in range.
func (g *Grid[T]) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return 0, false
	}
	return y*g.W + x, true
}

// Get returns the value at (x, y) if in range.
func (g *Grid[T]) Get(x, y int) (T, bool) {
	i, ok := g.Index(x, y)
	if !ok {
		var zero T
		return zero, false
	}
	return g.data[i], true
}

// Set writes v at (x, y). Out-of-range writes are ignored.
func (g *Grid[T]) Set(x, y int, v T) bool {
	i, ok := g.Index(x, y)
	if !ok {
		return false
	}
	g.data[i] = v
	return true
}

// Swap exchanges the contents of two slots by index.
func (g *Grid[T]) Swap(i, j int) {
	g.data[i], g.data[j] = g.data[j], g.data[i]
}

// Fill sets every slot to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear resets every slot to the zero value.
func (g *Grid[T]) Clear() {
	var zero T
	g.Fill(zero)
}
