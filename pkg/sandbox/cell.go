package sandbox

import (
	"fmt"
	"image/color"
	"strings"
)

// Cell is the content of one grid slot. Cells are plain values with no
// identity; moving a cell swaps the contents of two slots.
type Cell struct {
	Kind   Kind
	Vx, Vy float32

	props [NumProperties]float32
}

// NewCell returns a cell of the given kind with its inherent property values.
func NewCell(kind Kind) Cell {
	c := Cell{Kind: kind}
	for _, p := range Properties() {
		c.props[p] = kind.PropertySpec(p).Initial
	}
	return c
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// IsEmpty reports whether the cell holds no material.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// Density is shorthand for c.Kind.Density().
func (c Cell) Density() uint8 { return c.Kind.Density() }

// Movement is shorthand for c.Kind.Movement().
func (c Cell) Movement() Movement { return c.Kind.Movement() }

// Property returns the current value of p.
func (c Cell) Property(p Property) float32 {
	if p >= NumProperties {
		return 0
	}
	return c.props[p]
}

// SetProperty stores v clamped to [0, capacity].
func (c *Cell) SetProperty(p Property, v float32) {
	if p >= NumProperties {
		return
	}
	capacity := c.Kind.PropertySpec(p).Capacity
	if v < 0 {
		v = 0
	}
	if v > capacity {
		v = capacity
	}
	c.props[p] = v
}

// DiffusePotential is the amount of p that can leave this cell in one tick.
func (c Cell) DiffusePotential(p Property) float32 {
	v := c.Property(p)
	if v <= 0 {
		return 0
	}
	return min(c.Kind.PropertySpec(p).DiffuseRate, v)
}

// AcceptPotential is the amount of p that can enter this cell in one tick.
func (c Cell) AcceptPotential(p Property) float32 {
	spec := c.Kind.PropertySpec(p)
	v := c.Property(p)
	if v >= spec.Capacity {
		return 0
	}
	return min(spec.AcceptRate, spec.Capacity-v)
}

// IsPureSource reports whether the kind offers p to any occupied neighbor.
func (c Cell) IsPureSource(p Property) bool {
	return c.Kind.PropertySpec(p).PureSource
}

// Saturation is the filled fraction of p's capacity, 0 for kinds without it.
func (c Cell) Saturation(p Property) float32 {
	capacity := c.Kind.PropertySpec(p).Capacity
	if capacity <= 0 {
		return 0
	}
	return c.Property(p) / capacity
}

// Color derives the presentation color from the kind and its moisture.
func (c Cell) Color() color.RGBA {
	dry, wet := c.Kind.colors()
	return blendColors(dry, wet, c.Saturation(PropMoisture))
}

func (c Cell) String() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	for _, p := range Properties() {
		if c.Kind.PropertySpec(p).Capacity <= 0 {
			continue
		}
		fmt.Fprintf(&b, " %s=%.3f", p, c.Property(p))
	}
	if c.Vx != 0 || c.Vy != 0 {
		fmt.Fprintf(&b, " v=(%.2f,%.2f)", c.Vx, c.Vy)
	}
	return b.String()
}
