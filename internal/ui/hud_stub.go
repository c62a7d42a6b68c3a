//go:build !ebiten

package ui

import "sandfall/internal/core"

// Status mirrors the ebiten build's host status line.
type Status struct {
	Material string
	Radius   int
	Paused   bool
	Inspect  string
}

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Sim, int) *HUD { return nil }

// Update is a no-op in the headless build.
func (h *HUD) Update(int, Status) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
