// Package sand hosts the falling-sand sandbox behind the core.Sim contract so
// the interactive app, the recorder and the sweep runner can drive it.
package sand

import (
	"fmt"

	"sandfall/internal/core"
	"sandfall/internal/scenario"
	pkgcore "sandfall/pkg/core"
	"sandfall/pkg/sandbox"
)

// World wraps a sandbox and the recipe used to repopulate it on reset.
type World struct {
	cfg Config
	sb  *sandbox.Sandbox
	sc  *scenario.Scenario

	moisture []float32
}

// New constructs the sand sim. A configured scenario file is loaded once and
// its size, seed, motion and rules override cfg.Engine.
func New(cfg Config) (*World, error) {
	var sc *scenario.Scenario
	if cfg.Scenario != "" {
		loaded, err := scenario.Load(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		if err := loaded.Configure(&cfg.Engine); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Scenario, err)
		}
		sc = loaded
	}
	sb, err := sandbox.NewWithConfig(cfg.Engine)
	if err != nil {
		return nil, err
	}
	w := &World{cfg: cfg, sb: sb, sc: sc}
	w.Reset(cfg.Engine.Seed)
	return w, nil
}

// Name returns the registry identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.sb.Width(), H: w.sb.Height()} }

// Sandbox exposes the underlying engine.
func (w *World) Sandbox() *sandbox.Sandbox { return w.sb }

// Tick reports the number of completed steps since the last reset.
func (w *World) Tick() uint64 { return w.sb.Tick() }

// Reset clears the grid, reseeds the engine and repaints the starting state.
// A zero seed falls back to the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Engine.Seed
	}
	w.sb.Clear()
	w.sb.Reseed(effective)
	switch {
	case w.sc != nil:
		w.sc.Apply(w.sb)
	case w.cfg.Fill > 0:
		w.scatter(effective)
	}
}

// scatter sprinkles sand and water over the top half of the grid.
func (w *World) scatter(seed int64) {
	rng := pkgcore.NewRNG(seed)
	width, height := w.sb.Width(), w.sb.Height()
	for y := 0; y < height/2; y++ {
		for x := 0; x < width; x++ {
			if rng.Float64() >= w.cfg.Fill {
				continue
			}
			kind := sandbox.KindSand
			if rng.Bool() {
				kind = sandbox.KindWater
			}
			w.sb.Place(x, y, sandbox.NewCell(kind))
		}
	}
}

// Step advances the sandbox one tick.
func (w *World) Step() { w.sb.Update() }

// Draw renders the grid as RGBA.
func (w *World) Draw(buf []byte) { w.sb.Draw(buf) }

// Materials lists the paintable material names, empty first as the eraser.
func (w *World) Materials() []string {
	kinds := sandbox.Kinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.String())
	}
	return out
}

// Paint places a fresh cell of the named material at (x, y).
func (w *World) Paint(x, y int, material string) bool {
	kind, err := sandbox.ParseKind(material)
	if err != nil {
		return false
	}
	if _, ok := w.sb.Get(x, y); !ok {
		return false
	}
	w.sb.Place(x, y, sandbox.NewCell(kind))
	return true
}

// Inspect describes the cell at (x, y).
func (w *World) Inspect(x, y int) (string, bool) {
	desc, ok := w.sb.Inspect(x, y)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("(%d,%d) %s", x, y, desc), true
}

// Field exposes per-cell scalar layers for overlays.
func (w *World) Field(name string) ([]float32, bool) {
	switch name {
	case "moisture":
		w.moisture = w.sb.MoistureField(w.moisture)
		return w.moisture, true
	default:
		return nil, false
	}
}

// VelocityAt reports the velocity carried by the cell at (x, y). Swap-mode
// cells never carry velocity.
func (w *World) VelocityAt(x, y int) (float64, float64) {
	c, ok := w.sb.Get(x, y)
	if !ok {
		return 0, 0
	}
	return float64(c.Vx), float64(c.Vy)
}

func init() {
	core.Register("sand", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}
