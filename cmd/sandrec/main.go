package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"sandfall/internal/app"
	"sandfall/internal/record"
	"sandfall/internal/sims/sand"
	"sandfall/pkg/sandbox"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	opts := record.DefaultOptions()
	flag.IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of ticks to simulate")
	flag.IntVar(&opts.Every, "every", opts.Every, "capture a frame every N ticks")
	flag.IntVar(&opts.FPS, "fps", opts.FPS, "video frame rate")
	flag.IntVar(&opts.Quality, "quality", opts.Quality, "JPEG quality (1-100)")
	flag.BoolVar(&opts.Moisture, "moisture", false, "tint frames with the moisture field")
	out := flag.String("out", "", "MJPEG AVI output path (empty skips video)")
	chartPath := flag.String("chart", "", "census chart PNG output path (empty skips the chart)")
	flag.Parse()
	opts.Scale = cfg.Scale

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(logger, cfg, opts, *out, *chartPath); err != nil {
		logger.Error("sandrec", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *app.Config, opts record.Options, out, chartPath string) error {
	simCfg, err := sand.FromMap(cfg.SimConfig())
	if err != nil {
		return err
	}
	world, err := sand.New(simCfg)
	if err != nil {
		return err
	}
	sb := world.Sandbox()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink record.FrameSink
	if out != "" {
		aw, err := record.OpenVideo(out, sb.Width(), sb.Height(), opts)
		if err != nil {
			return err
		}
		defer func() {
			if err := aw.Close(); err != nil {
				logger.Error("close video", "path", out, "err", err)
			}
		}()
		sink = aw
	}

	logger.Info("recording", "w", sb.Width(), "h", sb.Height(), "motion", sb.Config().Motion, "ticks", opts.Ticks)
	rep, err := record.Run(ctx, sb, sink, opts)
	if err != nil {
		return err
	}
	logger.Info("done", "frames", rep.Frames, "samples", len(rep.Samples), "settled", rep.Settled, "settled_ok", rep.SettledOK)

	if chartPath != "" {
		f, err := os.Create(chartPath)
		if err != nil {
			return err
		}
		if err := record.CensusChart(f, rep, 960, 540); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("chart written", "path", chartPath)
	}

	final := rep.Final()
	for _, k := range sandbox.Kinds() {
		fmt.Printf("%-8s %d\n", k, final[k])
	}
	return nil
}
