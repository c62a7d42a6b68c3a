package scenario

import (
	"errors"
	"fmt"

	"sandfall/pkg/sandbox"
)

// Shapes understood by Placement.
const (
	ShapePoint = "point"
	ShapeRect  = "rect"
	ShapeDisk  = "disk"
	ShapeRow   = "row"
)

// ErrUnknownShape is reported for placements with an unsupported shape.
var ErrUnknownShape = errors.New("unknown placement shape")

// Placement paints one material over a region of the grid.
//
//	point: X, Y
//	rect:  X, Y, W, H
//	disk:  X, Y (centre), R
//	row:   Y, the full grid width
type Placement struct {
	Kind  Kind   `yaml:"kind"`
	Shape string `yaml:"shape"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	W     int    `yaml:"w,omitempty"`
	H     int    `yaml:"h,omitempty"`
	R     int    `yaml:"r,omitempty"`

	// Moisture overrides the material's initial moisture when set.
	Moisture *float32 `yaml:"moisture,omitempty"`
}

func (p Placement) validate() error {
	switch p.Shape {
	case ShapePoint, ShapeRow:
	case ShapeRect:
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("rect needs positive w and h, got %dx%d", p.W, p.H)
		}
	case ShapeDisk:
		if p.R < 0 {
			return fmt.Errorf("disk radius %d is negative", p.R)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownShape, p.Shape)
	}
	return nil
}

func (p Placement) cell() sandbox.Cell {
	c := sandbox.NewCell(sandbox.Kind(p.Kind))
	if p.Moisture != nil {
		c.SetProperty(sandbox.PropMoisture, *p.Moisture)
	}
	return c
}

func (p Placement) paint(sb *sandbox.Sandbox) {
	c := p.cell()
	switch p.Shape {
	case ShapePoint:
		sb.Place(p.X, p.Y, c)
	case ShapeRect:
		x0, x1 := span(p.X, p.W, sb.Width())
		y0, y1 := span(p.Y, p.H, sb.Height())
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				sb.Place(x, y, c)
			}
		}
	case ShapeDisk:
		x0, x1 := span(p.X-p.R, 2*p.R+1, sb.Width())
		y0, y1 := span(p.Y-p.R, 2*p.R+1, sb.Height())
		r2 := p.R * p.R
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				dx, dy := x-p.X, y-p.Y
				if dx*dx+dy*dy <= r2 {
					sb.Place(x, y, c)
				}
			}
		}
	case ShapeRow:
		for x := 0; x < sb.Width(); x++ {
			sb.Place(x, p.Y, c)
		}
	}
}

// span intersects [start, start+length) with [0, limit).
func span(start, length, limit int) (int, int) {
	if start >= limit || length <= 0 {
		return 0, 0
	}
	hi := limit
	if start < 0 || length < limit-start {
		hi = min(start+length, limit)
	}
	return max(start, 0), max(hi, 0)
}
