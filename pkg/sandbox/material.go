package sandbox

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownKind is returned by ParseKind for names that match no kind.
var ErrUnknownKind = errors.New("unknown cell kind")

// Kind enumerates the materials a cell can hold. The zero value is Empty.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindStone
	KindSand
	KindWetSand
	KindWater
	KindSteam
	KindLava

	numKinds
)

// Movement selects the movement algorithm applied to a kind.
type Movement uint8

const (
	MoveNone Movement = iota
	MovePowder
	MoveLiquid
	MoveGas
)

// Property indexes the continuous per-cell quantities.
type Property uint8

const (
	PropMoisture Property = iota

	NumProperties
)

// PropertySpec holds the per-kind constants for one property.
type PropertySpec struct {
	Capacity      float32
	MinSaturation float32
	DiffuseRate   float32
	AcceptRate    float32
	Initial       float32
	PureSource    bool
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := KindEmpty; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Properties lists every property.
func Properties() []Property {
	out := make([]Property, 0, NumProperties)
	for p := Property(0); p < NumProperties; p++ {
		out = append(out, p)
	}
	return out
}

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindStone:
		return "stone"
	case KindSand:
		return "sand"
	case KindWetSand:
		return "wetsand"
	case KindWater:
		return "water"
	case KindSteam:
		return "steam"
	case KindLava:
		return "lava"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (p Property) String() string {
	switch p {
	case PropMoisture:
		return "moisture"
	default:
		return fmt.Sprintf("property(%d)", uint8(p))
	}
}

// ParseKind resolves a kind from its name, ignoring case and surrounding space.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "")
	for _, k := range Kinds() {
		if k.String() == n {
			return k, nil
		}
	}
	return KindEmpty, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Density orders kinds for displacement: a mover may only swap into a slot
// holding a strictly lower density.
func (k Kind) Density() uint8 {
	switch k {
	case KindEmpty:
		return 0
	case KindSteam:
		return 1
	case KindWater:
		return 5
	case KindLava:
		return 8
	case KindSand:
		return 10
	case KindWetSand:
		return 15
	case KindStone:
		return 255
	default:
		return 0
	}
}

// Movement reports which movement algorithm applies to the kind.
func (k Kind) Movement() Movement {
	switch k {
	case KindSand, KindWetSand:
		return MovePowder
	case KindWater, KindLava:
		return MoveLiquid
	case KindSteam:
		return MoveGas
	case KindEmpty, KindStone:
		return MoveNone
	default:
		return MoveNone
	}
}

// GravityFactor scales the engine gravity in the velocity model. Negative
// values make the kind rise.
func (k Kind) GravityFactor() float32 {
	switch k {
	case KindSand:
		return 1
	case KindWetSand:
		return 1.2
	case KindWater:
		return 1
	case KindLava:
		return 0.6
	case KindSteam:
		return -0.5
	case KindEmpty, KindStone:
		return 0
	default:
		return 0
	}
}

// SlideFactor is the kind's slipperiness: how much blocked vertical velocity
// turns into lateral velocity, and how much lateral velocity survives on top
// of it.
func (k Kind) SlideFactor() float32 {
	switch k {
	case KindEmpty:
		return 1
	case KindSand:
		return 0.6
	case KindWetSand:
		return 0.3
	case KindWater:
		return 0.95
	case KindLava:
		return 0.7
	case KindSteam:
		return 0.9
	case KindStone:
		return 0.4
	default:
		return 0.5
	}
}

// SpreadImpulse is the sideways kick a blocked fluid gets when no diagonal is
// open. Powders do not spread.
func (k Kind) SpreadImpulse() float32 {
	switch k {
	case KindWater, KindSteam:
		return 2
	case KindLava:
		return 1
	case KindEmpty, KindStone, KindSand, KindWetSand:
		return 0
	default:
		return 0
	}
}

// PropertySpec returns the constants governing property p for the kind.
func (k Kind) PropertySpec(p Property) PropertySpec {
	if p != PropMoisture {
		return PropertySpec{}
	}
	switch k {
	case KindSand:
		return PropertySpec{Capacity: 0.5, MinSaturation: 0.25, DiffuseRate: 0.01, AcceptRate: 0.05}
	case KindWetSand:
		return PropertySpec{Capacity: 1, MinSaturation: 0.3, DiffuseRate: 0.02, AcceptRate: 0.05, Initial: 0.8}
	case KindWater:
		return PropertySpec{Capacity: 1, DiffuseRate: 0.05, AcceptRate: 0.05, Initial: 1, PureSource: true}
	case KindStone:
		return PropertySpec{Capacity: 0.2, MinSaturation: 0.1, DiffuseRate: 0.005, AcceptRate: 0.01}
	case KindEmpty, KindSteam, KindLava:
		return PropertySpec{}
	default:
		return PropertySpec{}
	}
}

// colors returns the dry and saturated presentation colors.
func (k Kind) colors() (dry, wet color.RGBA) {
	switch k {
	case KindEmpty:
		c := color.RGBA{R: 0, G: 0, B: 0, A: 255}
		return c, c
	case KindStone:
		return color.RGBA{R: 120, G: 120, B: 128, A: 255}, color.RGBA{R: 88, G: 88, B: 100, A: 255}
	case KindSand:
		return color.RGBA{R: 210, G: 170, B: 109, A: 255}, color.RGBA{R: 172, G: 138, B: 88, A: 255}
	case KindWetSand:
		return color.RGBA{R: 176, G: 146, B: 96, A: 255}, color.RGBA{R: 140, G: 112, B: 72, A: 255}
	case KindWater:
		return color.RGBA{R: 168, G: 196, B: 232, A: 255}, color.RGBA{R: 109, G: 109, B: 210, A: 255}
	case KindSteam:
		c := color.RGBA{R: 200, G: 200, B: 215, A: 255}
		return c, c
	case KindLava:
		c := color.RGBA{R: 255, G: 90, B: 40, A: 255}
		return c, c
	default:
		c := color.RGBA{R: 255, G: 0, B: 255, A: 255}
		return c, c
	}
}

func blendColors(base, overlay color.RGBA, overlayWeight float32) color.RGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	w := overlayWeight
	inv := 1 - w
	mix := func(a, b uint8) uint8 {
		return uint8(float32(a)*inv + float32(b)*w + 0.5)
	}
	return color.RGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}
