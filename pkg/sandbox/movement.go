package sandbox

// move applies the configured motion model to the cell at (x, y) and returns
// the slot it ends up in.
func (s *Sandbox) move(x, y int) (int, int) {
	if s.cfg.Motion == MotionVelocity {
		return s.moveWithVelocity(x, y)
	}
	c, _ := s.cells.Get(x, y)
	switch c.Movement() {
	case MovePowder:
		return s.fall(x, y, c, 1, false)
	case MoveLiquid:
		return s.fall(x, y, c, 1, true)
	case MoveGas:
		return s.fall(x, y, c, -1, true)
	case MoveNone:
		return x, y
	default:
		return x, y
	}
}

// fall moves c one slot in direction dy, then diagonally, then (when spread
// is set) sideways. Left/right preference is drawn per stage.
func (s *Sandbox) fall(x, y int, c Cell, dy int, spread bool) (int, int) {
	if s.tryMove(c, x, y, x, y+dy) {
		return x, y + dy
	}
	first, second := s.sides()
	for _, dx := range [2]int{first, second} {
		if s.tryMove(c, x, y, x+dx, y+dy) {
			return x + dx, y + dy
		}
	}
	if !spread {
		return x, y
	}
	first, second = s.sides()
	for _, dx := range [2]int{first, second} {
		if s.tryMove(c, x, y, x+dx, y) {
			return x + dx, y
		}
	}
	return x, y
}

func (s *Sandbox) sides() (int, int) {
	if s.rng.Bool() {
		return 1, -1
	}
	return -1, 1
}

// canDisplace reports whether c may swap into (x, y): the slot must exist,
// hold a strictly lower density, and not hold material that already moved
// this tick.
func (s *Sandbox) canDisplace(c Cell, x, y int) bool {
	i, ok := s.cells.Index(x, y)
	if !ok {
		return false
	}
	target := s.cells.Cells()[i]
	if s.updated.Cells()[i] && !target.IsEmpty() {
		return false
	}
	return c.Density() > target.Density()
}

func (s *Sandbox) tryMove(c Cell, x0, y0, x1, y1 int) bool {
	if !s.canDisplace(c, x1, y1) {
		return false
	}
	s.swap(x0, y0, x1, y1)
	return true
}

// swap exchanges two slots by index and marks both as updated.
func (s *Sandbox) swap(x0, y0, x1, y1 int) {
	i, ok := s.cells.Index(x0, y0)
	if !ok {
		return
	}
	j, ok := s.cells.Index(x1, y1)
	if !ok {
		return
	}
	s.cells.Swap(i, j)
	s.updated.Cells()[i] = true
	s.updated.Cells()[j] = true
}
