//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"sandfall/internal/app"
	"sandfall/internal/core"
	_ "sandfall/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sim, err := core.Build(cfg.Sim, cfg.SimConfig())
	if err != nil {
		logger.Error("start", "err", err)
		os.Exit(1)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("sandfall: " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.Panel, size.H*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("running", "sim", sim.Name(), "w", size.W, "h", size.H, "tps", cfg.TPS)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "err", err)
		os.Exit(1)
	}
}
