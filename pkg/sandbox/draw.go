package sandbox

// Draw writes one RGBA quadruple per cell in row-major order. A short buffer
// is filled as far as it goes.
func (s *Sandbox) Draw(buf []byte) {
	for i, c := range s.cells.Cells() {
		base := i * 4
		if base+4 > len(buf) {
			return
		}
		col := c.Color()
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// MoistureField writes the moisture saturation of every cell into dst,
// resizing it as needed, and returns it.
func (s *Sandbox) MoistureField(dst []float32) []float32 {
	cells := s.cells.Cells()
	if cap(dst) < len(cells) {
		dst = make([]float32, len(cells))
	}
	dst = dst[:len(cells)]
	for i, c := range cells {
		dst[i] = c.Saturation(PropMoisture)
	}
	return dst
}

// Inspect describes the full state of the cell at (x, y) for diagnostics
// without touching the grid.
func (s *Sandbox) Inspect(x, y int) (string, bool) {
	c, ok := s.cells.Get(x, y)
	if !ok {
		return "", false
	}
	return c.String(), true
}
