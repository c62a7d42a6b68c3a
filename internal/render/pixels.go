package render

import (
	"image"
	"image/color"
	"math"
)

// Upscale copies a w*h RGBA buffer into a new image where every cell becomes
// a scale*scale block. A short buffer leaves the remaining pixels transparent.
func Upscale(buf []byte, w, h, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 4
			if src+4 > len(buf) {
				return img
			}
			px := buf[src : src+4]
			for sy := 0; sy < scale; sy++ {
				row := img.PixOffset(x*scale, y*scale+sy)
				for sx := 0; sx < scale; sx++ {
					copy(img.Pix[row+sx*4:row+sx*4+4], px)
				}
			}
		}
	}
	return img
}

const (
	maskMaxAlpha      = 140.0
	maskGlowBase      = 0.35
	maskGlowRange     = 0.65
	maskIntensityBias = 0.75
)

// FillMask converts a scalar field in [0, 1] into translucent tinted RGBA
// pixels. Zero intensity is fully transparent.
func FillMask(dst []byte, field []float32, tint color.RGBA) {
	for i, v := range field {
		base := i * 4
		if base+4 > len(dst) {
			return
		}
		intensity := clamp01(float64(v))
		if intensity == 0 {
			dst[base+0] = 0
			dst[base+1] = 0
			dst[base+2] = 0
			dst[base+3] = 0
			continue
		}
		alpha := uint8(math.Round(maskMaxAlpha * math.Pow(intensity, maskIntensityBias)))
		glow := maskGlowBase + maskGlowRange*math.Sqrt(intensity)
		dst[base+0] = scaleComponent(tint.R, glow)
		dst[base+1] = scaleComponent(tint.G, glow)
		dst[base+2] = scaleComponent(tint.B, glow)
		dst[base+3] = alpha
	}
}

// BlendOver composites the straight-alpha src pixels over dst in place.
func BlendOver(dst, src []byte) {
	n := min(len(dst), len(src))
	for i := 0; i+4 <= n; i += 4 {
		a := float64(src[i+3]) / 255
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			dst[i+c] = uint8(math.Round(float64(dst[i+c])*(1-a) + float64(src[i+c])*a))
		}
		dst[i+3] = uint8(math.Round(float64(dst[i+3])*(1-a) + 255*a))
	}
}

func scaleComponent(v uint8, factor float64) uint8 {
	scaled := math.Round(float64(v) * factor)
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
