// Package sandbox implements a falling-sand cellular automaton: a grid of
// material cells that fall, flow, react with their neighbors and exchange
// moisture, advanced one tick at a time by a single-threaded update pass.
package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"sandfall/pkg/core"
)

// Errors reported by the constructors.
var (
	ErrInvalidSize  = core.ErrInvalidSize
	ErrGridTooLarge = core.ErrGridTooLarge
	ErrUnknownMode  = errors.New("unknown motion model")
)

// Motion selects the movement model used for the whole lifetime of a Sandbox.
type Motion uint8

const (
	// MotionSwap moves every cell at most one slot per tick by swapping it
	// with a lighter neighbor.
	MotionSwap Motion = iota
	// MotionVelocity integrates gravity into a per-cell velocity and steps
	// the cell along it, transferring impulse to whatever blocks it.
	MotionVelocity
)

func (m Motion) String() string {
	switch m {
	case MotionSwap:
		return "swap"
	case MotionVelocity:
		return "velocity"
	default:
		return fmt.Sprintf("motion(%d)", uint8(m))
	}
}

// ParseMotion resolves a motion model by name.
func ParseMotion(name string) (Motion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "swap":
		return MotionSwap, nil
	case "velocity":
		return MotionVelocity, nil
	default:
		return MotionSwap, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Rand is the random source consumed by the engine. *core.RNG satisfies it.
type Rand interface {
	Float64() float64
	Bool() bool
	Shuffle(n int, swap func(i, j int))
}

type seeder interface {
	Seed(seed int64)
}

// Config controls the Sandbox dimensions and physics.
type Config struct {
	Width  int
	Height int

	Seed   int64
	Motion Motion

	Gravity            float32
	MaxVelocity        float32
	DepletionThreshold float32

	// Rules defaults to DefaultTable when nil.
	Rules *Table
	// Rand defaults to a core.RNG seeded with Seed when nil.
	Rand Rand
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:              320,
		Height:             180,
		Seed:               1337,
		Motion:             MotionSwap,
		Gravity:            0.3,
		MaxVelocity:        8,
		DepletionThreshold: 0.05,
	}
}

// Sandbox owns the cell grid and advances it one tick per Update. It is not
// safe for concurrent use; Place must not be called while Update runs.
type Sandbox struct {
	cfg Config

	cells   *core.Grid[Cell]
	updated *core.Grid[bool]

	rules *Table
	rng   Rand
	tick  uint64
}

// New returns a Sandbox with the given dimensions using defaults.
func New(w, h int) (*Sandbox, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns an all-empty Sandbox configured from cfg. A negative
// MaxVelocity is taken by magnitude and a negative depletion threshold as 0.
func NewWithConfig(cfg Config) (*Sandbox, error) {
	cells, err := core.NewGrid[Cell](cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("sandbox %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	updated, err := core.NewGrid[bool](cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("sandbox %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	if cfg.Motion != MotionSwap && cfg.Motion != MotionVelocity {
		return nil, fmt.Errorf("sandbox: %w: %d", ErrUnknownMode, cfg.Motion)
	}
	cfg.MaxVelocity = absf(cfg.MaxVelocity)
	cfg.DepletionThreshold = max(cfg.DepletionThreshold, 0)
	s := &Sandbox{
		cfg:     cfg,
		cells:   cells,
		updated: updated,
		rules:   cfg.Rules,
		rng:     cfg.Rand,
	}
	if s.rules == nil {
		s.rules = DefaultTable()
	}
	if s.rng == nil {
		s.rng = core.NewRNG(cfg.Seed)
	}
	s.cfg.Rules = s.rules
	s.cfg.Rand = s.rng
	return s, nil
}

// Width returns the grid width.
func (s *Sandbox) Width() int { return s.cells.W }

// Height returns the grid height.
func (s *Sandbox) Height() int { return s.cells.H }

// Tick returns the number of completed updates.
func (s *Sandbox) Tick() uint64 { return s.tick }

// Config returns the active configuration.
func (s *Sandbox) Config() Config { return s.cfg }

// Rules exposes the reaction table.
func (s *Sandbox) Rules() *Table { return s.rules }

// SetGravity changes the gravity used by the velocity model.
func (s *Sandbox) SetGravity(g float32) { s.cfg.Gravity = g }

// SetMaxVelocity changes the velocity clamp used by the velocity model.
func (s *Sandbox) SetMaxVelocity(v float32) { s.cfg.MaxVelocity = absf(v) }

// SetDepletionThreshold changes the level at which a pure source runs dry.
func (s *Sandbox) SetDepletionThreshold(v float32) { s.cfg.DepletionThreshold = max(v, 0) }

// Get returns the cell at (x, y), or false when out of range.
func (s *Sandbox) Get(x, y int) (Cell, bool) {
	return s.cells.Get(x, y)
}

// Place writes cell at (x, y). Out-of-range writes are ignored. Property
// values are clamped to the kind's capacity.
func (s *Sandbox) Place(x, y int, cell Cell) {
	for _, p := range Properties() {
		cell.SetProperty(p, cell.Property(p))
	}
	s.cells.Set(x, y, cell)
}

// Clear empties the grid and restarts the tick counter.
func (s *Sandbox) Clear() {
	s.cells.Clear()
	s.updated.Clear()
	s.tick = 0
}

// Reseed restarts the random source when it supports seeding.
func (s *Sandbox) Reseed(seed int64) {
	s.cfg.Seed = seed
	if r, ok := s.rng.(seeder); ok {
		r.Seed(seed)
	}
}

// Count returns the number of cells of the given kind.
func (s *Sandbox) Count(kind Kind) int {
	n := 0
	for _, c := range s.cells.Cells() {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Census counts cells per kind, indexed by Kind.
func (s *Sandbox) Census() []int {
	out := make([]int, numKinds)
	for _, c := range s.cells.Cells() {
		if c.Kind < numKinds {
			out[c.Kind]++
		}
	}
	return out
}

// Update advances the simulation by exactly one tick. Rows are walked from
// the bottom up, each in a randomly chosen horizontal direction; every
// non-empty cell not yet touched this tick reacts, or else moves, and then
// diffuses its properties.
func (s *Sandbox) Update() {
	w, h := s.cells.W, s.cells.H
	if w == 0 || h == 0 {
		return
	}
	s.tick++
	s.updated.Clear()
	for y := h - 1; y >= 0; y-- {
		leftToRight := s.rng.Bool()
		for i := 0; i < w; i++ {
			x := i
			if !leftToRight {
				x = w - 1 - i
			}
			s.updateCell(x, y)
		}
	}
}

func (s *Sandbox) updateCell(x, y int) {
	i, ok := s.cells.Index(x, y)
	if !ok {
		return
	}
	if s.cells.Cells()[i].IsEmpty() || s.updated.Cells()[i] {
		return
	}
	if s.react(x, y) {
		return
	}
	x, y = s.move(x, y)
	s.diffuse(x, y)
}

// reactionNeighbors is the fixed neighbor order for the reaction phase:
// below, above, left, right.
var reactionNeighbors = [4][2]int{{0, 1}, {0, -1}, {-1, 0}, {1, 0}}

// react tries the anchor at (x, y) against each orthogonal neighbor, first
// as (anchor, neighbor) and then as (neighbor, anchor). The first rule that
// passes its gate fires and ends the anchor's tick.
func (s *Sandbox) react(x, y int) bool {
	ai, _ := s.cells.Index(x, y)
	cells := s.cells.Cells()
	for _, d := range reactionNeighbors {
		bi, ok := s.cells.Index(x+d[0], y+d[1])
		if !ok || s.updated.Cells()[bi] {
			continue
		}
		a, b := cells[ai], cells[bi]
		if s.fire(ai, bi, a, b) {
			return true
		}
		if a.Kind != b.Kind && s.fire(bi, ai, b, a) {
			return true
		}
	}
	return false
}

func (s *Sandbox) fire(i, j int, a, b Cell) bool {
	for _, r := range s.rules.Lookup(a.Kind, b.Kind) {
		if !r.Admits(s.rng.Float64(), a, b) {
			continue
		}
		cells := s.cells.Cells()
		cells[i] = NewCell(r.Products[0])
		cells[j] = NewCell(r.Products[1])
		s.updated.Cells()[i] = true
		s.updated.Cells()[j] = true
		return true
	}
	return false
}
