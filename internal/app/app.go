//go:build ebiten

package app

import (
	"log/slog"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/render"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var materialKeys = []ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FixedStep
	log     *slog.Logger

	canvas core.Painter
	brush  *Brush

	scale    int
	panel    int
	paused   bool
	tickOnce bool
	seed     int64

	stroking     bool
	lastX, lastY int
	inspect      string
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config, log *slog.Logger) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, cfg.Scale),
		timer:   core.NewFixedStep(cfg.TPS),
		log:     log,
		scale:   max(cfg.Scale, 1),
		panel:   max(cfg.Panel, 0),
		seed:    cfg.Seed,
	}
	if g.panel > 0 {
		g.hud = ui.NewHUD(sim, g.panel)
	}
	if p, ok := sim.(core.Painter); ok {
		g.canvas = p
		g.brush = NewBrush(p.Materials(), "sand")
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.Info("reset", "sim", g.sim.Name(), "seed", seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.handleBrush()
	g.handleInspect()

	g.overlay.Update()
	if g.hud != nil {
		g.hud.Update(g.viewWidth(), g.status())
	}

	steps := g.timer.Steps()
	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < steps; i++ {
			g.sim.Step()
		}
	}
	return nil
}

func (g *Game) handleBrush() {
	if g.brush == nil {
		return
	}
	for i, key := range materialKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.brush.Select(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.brush.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.brush.Grow()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.brush.Shrink()
	}

	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.stroking = false
		return
	}
	x, y, ok := g.cursorCell()
	if !ok {
		g.stroking = false
		return
	}
	if g.stroking {
		g.brush.Stroke(g.canvas, g.lastX, g.lastY, x, y)
	} else {
		g.brush.Stamp(g.canvas, x, y)
	}
	g.stroking = true
	g.lastX, g.lastY = x, y
}

func (g *Game) handleInspect() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return
	}
	inspector, ok := g.sim.(core.Inspector)
	if !ok {
		return
	}
	x, y, ok := g.cursorCell()
	if !ok {
		return
	}
	if desc, ok := inspector.Inspect(x, y); ok {
		g.inspect = desc
		g.log.Info("inspect", "x", x, "y", y, "cell", desc)
	}
}

// cursorCell maps the cursor to grid coordinates, rejecting the HUD area.
func (g *Game) cursorCell() (int, int, bool) {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.viewWidth() {
		return 0, 0, false
	}
	x, y := mx/g.scale, my/g.scale
	size := g.sim.Size()
	if y >= size.H {
		return 0, 0, false
	}
	return x, y, true
}

func (g *Game) status() ui.Status {
	st := ui.Status{Paused: g.paused, Inspect: g.inspect}
	if g.brush != nil {
		st.Material = g.brush.Material()
		st.Radius = g.brush.Radius
	}
	return st
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.Draw(g.painter.Buffer())
	g.painter.Blit(screen, g.scale)
	g.overlay.Draw(screen)
	if g.hud != nil {
		g.hud.Draw(screen, g.viewWidth(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.panel, s.H * g.scale
}
