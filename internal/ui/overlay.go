//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"sandfall/internal/core"
	"sandfall/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type velocityFieldProvider interface {
	VelocityAt(x, y int) (float64, float64)
}

var moistureTint = color.RGBA{R: 64, G: 164, B: 223}

// Overlay draws optional debugging visuals on top of the base simulation:
// M toggles the moisture mask, V toggles velocity arrows.
type Overlay struct {
	sim          core.Sim
	scale        int
	showMoisture bool
	showVelocity bool

	maskImg *ebiten.Image
	maskBuf []byte

	pixel          *ebiten.Image
	samples        []velocitySample
	cacheW, cacheH int
	cacheScale     int
	pixelSpan      float64
}

type velocitySample struct {
	x, y   int
	sx, sy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.showMoisture = !o.showMoisture
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		o.showVelocity = !o.showVelocity
	}
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showMoisture {
		if provider, ok := o.sim.(core.FieldProvider); ok {
			if field, ok := provider.Field("moisture"); ok {
				o.drawMask(screen, field, size)
			}
		}
	}
	if o.showVelocity {
		if provider, ok := o.sim.(velocityFieldProvider); ok {
			o.drawVelocity(screen, provider, size)
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, field []float32, size core.Size) {
	total := size.W * size.H
	if len(field) != total {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	render.FillMask(o.maskBuf, field, moistureTint)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawVelocity(screen *ebiten.Image, provider velocityFieldProvider, size core.Size) {
	if !o.ensureSamples(size) {
		return
	}
	const (
		calmThreshold = 0.05
		maxSpeed      = 8.0
		headAngle     = math.Pi / 6
	)
	minLength := o.pixelSpan * 0.35
	maxLength := o.pixelSpan * 0.7
	for _, s := range o.samples {
		vx, vy := provider.VelocityAt(s.x, s.y)
		speed := math.Hypot(vx, vy)
		if speed < calmThreshold {
			continue
		}
		nx, ny := vx/speed, vy/speed
		normalized := math.Min(speed/maxSpeed, 1)
		length := minLength + (maxLength-minLength)*math.Sqrt(normalized)
		head := length * 0.3
		tipX, tipY := s.sx+nx*length*0.6, s.sy+ny*length*0.6
		tailX, tailY := s.sx-nx*length*0.4, s.sy-ny*length*0.4
		thickness := math.Max(1, float64(o.scale)*0.8)
		col := speedColor(normalized)
		o.drawLine(screen, tailX, tailY, tipX, tipY, thickness, col)
		angle := math.Atan2(ny, nx)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, thickness, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, thickness, col)
	}
}

// ensureSamples lays out a sparse lattice of arrow anchors for the grid.
func (o *Overlay) ensureSamples(size core.Size) bool {
	if o.cacheW == size.W && o.cacheH == size.H && o.cacheScale == o.scale && len(o.samples) > 0 {
		return true
	}
	const (
		targetSamples = 360.0
		minSpacing    = 4
		maxSpacing    = 16
	)
	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	spacing = max(minSpacing, min(spacing, maxSpacing))

	o.samples = o.samples[:0]
	for y := spacing / 2; y < size.H; y += spacing {
		for x := spacing / 2; x < size.W; x += spacing {
			o.samples = append(o.samples, velocitySample{
				x:  x,
				y:  y,
				sx: (float64(x) + 0.5) * float64(o.scale),
				sy: (float64(y) + 0.5) * float64(o.scale),
			})
		}
	}
	o.cacheW, o.cacheH, o.cacheScale = size.W, size.H, o.scale
	o.pixelSpan = float64(spacing * o.scale)
	return len(o.samples) > 0
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func speedColor(t float64) color.RGBA {
	slow := color.RGBA{R: 120, G: 200, B: 255, A: 200}
	fast := color.RGBA{R: 255, G: 90, B: 60, A: 230}
	lerp := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t)) }
	return color.RGBA{R: lerp(slow.R, fast.R), G: lerp(slow.G, fast.G), B: lerp(slow.B, fast.B), A: lerp(slow.A, fast.A)}
}
