package core

import (
	"fmt"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a hosted simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Draw writes W*H RGBA quadruples in row-major order into buf.
	Draw(buf []byte)
}

// Painter is implemented by sims that accept material painted by the user.
type Painter interface {
	Materials() []string
	Paint(x, y int, material string) bool
}

// Inspector is implemented by sims that can describe a single cell without
// mutating it.
type Inspector interface {
	Inspect(x, y int) (string, bool)
}

// Ticker is implemented by sims that count completed steps.
type Ticker interface {
	Tick() uint64
}

// FieldProvider exposes a named scalar field in [0, 1] per cell for overlays.
type FieldProvider interface {
	Field(name string) ([]float32, bool)
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names lists the registered simulations in sorted order.
func Names() []string {
	out := make([]string, 0, len(sims))
	for name := range sims {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build looks up name in the registry and constructs it.
func Build(name string, cfg map[string]string) (Sim, error) {
	factory, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %v)", name, Names())
	}
	sim, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("build sim %q: %w", name, err)
	}
	return sim, nil
}
