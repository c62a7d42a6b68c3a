package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sandfall/pkg/sandbox"
)

// ErrTooFewSamples is returned when a census chart would have no line to draw.
var ErrTooFewSamples = errors.New("record: census chart needs at least two samples")

// CensusChart renders the per-kind cell counts over time as a PNG. Empty cells
// are omitted; every other kind is drawn in its dry color.
func CensusChart(w io.Writer, rep *Report, width, height int) error {
	if rep == nil || len(rep.Samples) < 2 {
		return ErrTooFewSamples
	}
	xs := make([]float64, len(rep.Samples))
	for i, s := range rep.Samples {
		xs[i] = float64(s.Tick)
	}
	var series []chart.Series
	for _, k := range sandbox.Kinds() {
		if k == sandbox.KindEmpty {
			continue
		}
		ys := make([]float64, len(rep.Samples))
		seen := false
		for i, s := range rep.Samples {
			if int(k) < len(s.Census) {
				ys[i] = float64(s.Census[k])
				seen = seen || s.Census[k] > 0
			}
		}
		if !seen {
			continue
		}
		col := sandbox.NewCell(k).Color()
		series = append(series, chart.ContinuousSeries{
			Name:    k.String(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.Color{R: col.R, G: col.G, B: col.B, A: 255},
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return ErrTooFewSamples
	}
	total := float64(rep.Width * rep.Height)
	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "tick",
			Range: &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "cells",
			Range: &chart.ContinuousRange{Min: 0, Max: total},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render census chart: %w", err)
	}
	return nil
}
