//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Status is the host state shown at the top of the panel.
type Status struct {
	Material string
	Radius   int
	Paused   bool
	Inspect  string
}

// HUD renders the side panel: status, census and adjustable physics.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot
	status   Status

	controls     []controlState
	floatSetter  core.FloatParameterSetter
	intSetter    core.IntParameterSetter
	panelOffsetX int
}

type controlState struct {
	control core.ParameterControl
	value   float64
	known   bool

	minusRect image.Rectangle
	plusRect  image.Rectangle
}

var (
	panelBG   = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor  = color.RGBA{R: 150, G: 150, B: 160, A: 255}
)

const (
	panelPadding = 10
	lineHeight   = 16
	buttonSize   = 14
	buttonGap    = 4
)

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, controlState{control: ctrl})
		}
	}
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	h.intSetter, _ = sim.(core.IntParameterSetter)
	return h
}

// Update refreshes the snapshot and handles clicks on the +/- buttons.
func (h *HUD) Update(panelOffsetX int, status Status) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.status = status
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		h.snapshot = provider.Parameters()
	}
	for i := range h.controls {
		st := &h.controls[i]
		p, ok := h.snapshot.Lookup(st.control.Key)
		st.known = false
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			st.value, st.known = v, true
		}
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	for i := range h.controls {
		st := &h.controls[i]
		switch {
		case !st.known:
		case image.Pt(px, my).In(st.minusRect):
			h.adjust(st, -1)
		case image.Pt(px, my).In(st.plusRect):
			h.adjust(st, 1)
		}
	}
}

func (h *HUD) adjust(st *controlState, dir float64) {
	step := st.control.Step
	if step <= 0 {
		step = 0.05
	}
	target := st.control.Clamp(st.value + dir*step)
	if math.Abs(target-st.value) < 1e-9 {
		return
	}
	switch st.control.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil && h.intSetter.SetIntParameter(st.control.Key, int(math.Round(target))) {
			st.value = math.Round(target)
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil && h.floatSetter.SetFloatParameter(st.control.Key, target) {
			st.value = target
		}
	}
}

// Draw paints the panel at offsetX, to the right of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	y := panelPadding + 12
	line := func(s string, col color.Color) {
		text.Draw(h.panel, s, face, panelPadding, y, col)
		y += lineHeight
	}

	state := "running"
	if h.status.Paused {
		state = "paused"
	}
	tick := ""
	if t, ok := h.sim.(core.Ticker); ok {
		tick = fmt.Sprintf(" tick %d", t.Tick())
	}
	line(fmt.Sprintf("%s %s%s", h.sim.Name(), state, tick), textColor)
	line(fmt.Sprintf("brush %s r=%d", h.status.Material, h.status.Radius), textColor)
	if h.status.Inspect != "" {
		line(h.status.Inspect, dimColor)
	}
	y += lineHeight / 2

	for _, g := range h.snapshot.Groups {
		if g.Name == "Physics" {
			continue
		}
		line(g.Name, textColor)
		for _, p := range g.Params {
			line(fmt.Sprintf("  %s: %s", p.Label, p.Value), dimColor)
		}
	}
	y += lineHeight / 2

	for i := range h.controls {
		st := &h.controls[i]
		value := "--"
		if st.known {
			value = strconv.FormatFloat(st.value, 'f', 2, 64)
		}
		text.Draw(h.panel, fmt.Sprintf("%s %s", st.control.Label, value), face, panelPadding, y, textColor)
		top := y - buttonSize + 3
		st.plusRect = image.Rect(h.width-panelPadding-buttonSize, top, h.width-panelPadding, top+buttonSize)
		st.minusRect = st.plusRect.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.drawButton(st.minusRect, "-")
		h.drawButton(st.plusRect, "+")
		y += lineHeight + 2
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 54, G: 56, B: 64, A: 255})
	h.panel.DrawImage(h.pixel, op)
	bounds := text.BoundString(basicfont.Face7x13, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()+bounds.Dy())/2
	text.Draw(h.panel, label, basicfont.Face7x13, x, y, textColor)
}
