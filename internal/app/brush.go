package app

import "sandfall/internal/core"

// MaxBrushRadius bounds how large the brush can grow.
const MaxBrushRadius = 32

// Brush tracks the selected material and radius and stamps disks of material
// through a core.Painter.
type Brush struct {
	materials []string
	index     int
	Radius    int
}

// NewBrush returns a brush over the painter's materials, preferring
// the given default material when present.
func NewBrush(materials []string, preferred string) *Brush {
	b := &Brush{materials: materials}
	b.SelectName(preferred)
	return b
}

// Material reports the selected material name, or "" when there is none.
func (b *Brush) Material() string {
	if b.index < 0 || b.index >= len(b.materials) {
		return ""
	}
	return b.materials[b.index]
}

// Select picks the material at index i; out-of-range indices are ignored.
func (b *Brush) Select(i int) bool {
	if i < 0 || i >= len(b.materials) {
		return false
	}
	b.index = i
	return true
}

// SelectName picks a material by name.
func (b *Brush) SelectName(name string) bool {
	for i, m := range b.materials {
		if m == name {
			b.index = i
			return true
		}
	}
	return false
}

// Next cycles to the following material.
func (b *Brush) Next() {
	if len(b.materials) > 0 {
		b.index = (b.index + 1) % len(b.materials)
	}
}

// Grow and Shrink adjust the radius, saturating at 0 and MaxBrushRadius.
func (b *Brush) Grow() { b.Radius = min(b.Radius+1, MaxBrushRadius) }

func (b *Brush) Shrink() { b.Radius = max(b.Radius-1, 0) }

// Stamp paints a disk of the selected material centred on (cx, cy) and
// returns how many cells were accepted.
func (b *Brush) Stamp(p core.Painter, cx, cy int) int {
	mat := b.Material()
	if p == nil || mat == "" {
		return 0
	}
	r := b.Radius
	n := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			if p.Paint(cx+dx, cy+dy, mat) {
				n++
			}
		}
	}
	return n
}

// Stroke stamps along the segment from (x0, y0) to (x1, y1) so fast cursor
// motion leaves no gaps.
func (b *Brush) Stroke(p core.Painter, x0, y0, x1, y1 int) int {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errAcc := dx + dy
	n := 0
	for {
		n += b.Stamp(p, x0, y0)
		if x0 == x1 && y0 == y1 {
			return n
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
