// Package record runs a sandbox headlessly, capturing frames into an MJPEG
// AVI and the per-kind census into a time series that can be charted.
package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"sandfall/internal/render"
	"sandfall/pkg/sandbox"
)

// ErrNoTicks is returned when a run is asked to simulate nothing.
var ErrNoTicks = errors.New("record: ticks must be positive")

var moistureTint = color.RGBA{R: 64, G: 164, B: 223}

// Options controls a recording run.
type Options struct {
	Ticks int
	// Every captures a frame and a census sample every N ticks.
	Every   int
	Scale   int
	FPS     int
	Quality int
	// Moisture tints every frame with the moisture field.
	Moisture bool
}

// DefaultOptions returns the standard recording options.
func DefaultOptions() Options {
	return Options{Ticks: 600, Every: 2, Scale: 3, FPS: 30, Quality: 85}
}

// Sample is the census taken after Tick updates.
type Sample struct {
	Tick   uint64
	Census []int
}

// Report summarises a run.
type Report struct {
	Width, Height int
	Frames        int
	Samples       []Sample
	// Settled is the first sampled tick after which the rendered frame no
	// longer changed. It is only meaningful when SettledOK is set.
	Settled   uint64
	SettledOK bool
}

// FrameSink receives encoded JPEG frames.
type FrameSink interface {
	AddFrame(jpegData []byte) error
}

// OpenVideo creates an MJPEG AVI sized for a w*h grid at the given scale.
func OpenVideo(path string, w, h int, opts Options) (mjpeg.AviWriter, error) {
	scale := max(opts.Scale, 1)
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	aw, err := mjpeg.New(path, int32(w*scale), int32(h*scale), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return aw, nil
}

// Run advances sb for opts.Ticks ticks. The initial state and every
// opts.Every-th tick are sampled and, when sink is non-nil, encoded as a frame.
// Cancelling ctx stops the run early with ctx.Err().
func Run(ctx context.Context, sb *sandbox.Sandbox, sink FrameSink, opts Options) (*Report, error) {
	if opts.Ticks <= 0 {
		return nil, ErrNoTicks
	}
	every := max(opts.Every, 1)
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	w, h := sb.Width(), sb.Height()
	rep := &Report{Width: w, Height: h}
	buf := make([]byte, 4*w*h)
	prev := make([]byte, 4*w*h)
	var mask []byte
	var field []float32
	var jpg bytes.Buffer

	capture := func() error {
		rep.Samples = append(rep.Samples, Sample{Tick: sb.Tick(), Census: sb.Census()})
		sb.Draw(buf)
		if len(rep.Samples) > 1 {
			if bytes.Equal(buf, prev) {
				if !rep.SettledOK {
					rep.Settled = rep.Samples[len(rep.Samples)-2].Tick
					rep.SettledOK = true
				}
			} else {
				rep.Settled, rep.SettledOK = 0, false
			}
		}
		copy(prev, buf)
		if sink == nil {
			return nil
		}
		if opts.Moisture {
			field = sb.MoistureField(field)
			if mask == nil {
				mask = make([]byte, len(buf))
			}
			render.FillMask(mask, field, moistureTint)
			render.BlendOver(buf, mask)
		}
		jpg.Reset()
		img := render.Upscale(buf, w, h, opts.Scale)
		if err := jpeg.Encode(&jpg, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode frame %d: %w", rep.Frames, err)
		}
		if err := sink.AddFrame(jpg.Bytes()); err != nil {
			return fmt.Errorf("add frame %d: %w", rep.Frames, err)
		}
		rep.Frames++
		return nil
	}

	if err := capture(); err != nil {
		return rep, err
	}
	for i := 1; i <= opts.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		sb.Update()
		if i%every != 0 && i != opts.Ticks {
			continue
		}
		if err := capture(); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// Final returns the census of the last sample.
func (r *Report) Final() []int {
	if r == nil || len(r.Samples) == 0 {
		return nil
	}
	return r.Samples[len(r.Samples)-1].Census
}
