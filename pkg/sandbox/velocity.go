package sandbox

const (
	// blockerShare is the fraction of blocked velocity handed to the blocker
	// and kept by the mover.
	blockerShare = 0.5
	// lateralKick is the fraction of a vertical push that becomes a random
	// sideways nudge on the blocker.
	lateralKick = 0.2
	// edgeSlide stands in for the slide factor of the grid boundary.
	edgeSlide = 0.5
)

// moveWithVelocity integrates gravity into the cell's velocity and steps it
// slot by slot, vertically first and then horizontally. A blocked step
// pushes the blocker and may turn vertical speed into lateral speed.
func (s *Sandbox) moveWithVelocity(x, y int) (int, int) {
	c, ok := s.cells.Get(x, y)
	if !ok || c.Movement() == MoveNone {
		return x, y
	}
	maxV := s.cfg.MaxVelocity
	c.Vy = clampf(c.Vy+s.cfg.Gravity*c.Kind.GravityFactor(), -maxV, maxV)

	cx, cy := x, y
	dy := signf(c.Vy)
	for n := int(absf(c.Vy)); n > 0; n-- {
		if s.tryMove(c, cx, cy, cx, cy+dy) {
			cy += dy
			continue
		}
		s.slideOff(&c, cx, cy, dy)
		s.pushVertical(cx, cy+dy, c.Vy*blockerShare)
		c.Vy *= blockerShare
		break
	}

	c.Vx = clampf(c.Vx, -maxV, maxV)
	dx := signf(c.Vx)
	for n := int(absf(c.Vx)); n > 0; n-- {
		if s.tryMove(c, cx, cy, cx+dx, cy) {
			cx += dx
			continue
		}
		if dy != 0 && s.tryMove(c, cx, cy, cx+dx, cy+dy) {
			cx += dx
			cy += dy
			continue
		}
		s.pushHorizontal(cx+dx, cy, c.Vx*blockerShare)
		c.Vx *= blockerShare
		break
	}

	c.Vx *= s.surfaceFriction(cx, cy)

	i, _ := s.cells.Index(cx, cy)
	moved := &s.cells.Cells()[i]
	moved.Vx, moved.Vy = c.Vx, c.Vy
	return cx, cy
}

// slideOff converts part of c's blocked vertical speed into lateral speed
// toward whichever diagonal is open. Fluids with no open diagonal get their
// spread impulse toward an open side instead.
func (s *Sandbox) slideOff(c *Cell, x, y, dy int) {
	blockerSlide := float32(edgeSlide)
	if b, ok := s.cells.Get(x, y+dy); ok {
		blockerSlide = b.Kind.SlideFactor()
	}
	transfer := absf(c.Vy) * c.Kind.SlideFactor() * blockerSlide
	if dir, ok := s.openSide(*c, x, y, dy); ok {
		c.Vx += float32(dir) * max(transfer, 1)
		return
	}
	if impulse := c.Kind.SpreadImpulse(); impulse > 0 {
		if dir, ok := s.openSide(*c, x, y, 0); ok {
			c.Vx += float32(dir) * impulse
		}
	}
}

// openSide picks the side (x-1 or x+1, at row y+dy) that c can displace into:
// randomly when both are open, the only open one otherwise.
func (s *Sandbox) openSide(c Cell, x, y, dy int) (int, bool) {
	left := s.canDisplace(c, x-1, y+dy)
	right := s.canDisplace(c, x+1, y+dy)
	switch {
	case left && right:
		if s.rng.Bool() {
			return 1, true
		}
		return -1, true
	case left:
		return -1, true
	case right:
		return 1, true
	default:
		return 0, false
	}
}

func (s *Sandbox) pushVertical(x, y int, impulse float32) {
	b := s.pushable(x, y)
	if b == nil {
		return
	}
	kick := impulse * lateralKick
	if !s.rng.Bool() {
		kick = -kick
	}
	maxV := s.cfg.MaxVelocity
	b.Vy = clampf(b.Vy+impulse, -maxV, maxV)
	b.Vx = clampf(b.Vx+kick, -maxV, maxV)
}

func (s *Sandbox) pushHorizontal(x, y int, impulse float32) {
	b := s.pushable(x, y)
	if b == nil {
		return
	}
	maxV := s.cfg.MaxVelocity
	b.Vx = clampf(b.Vx+impulse, -maxV, maxV)
}

func (s *Sandbox) pushable(x, y int) *Cell {
	i, ok := s.cells.Index(x, y)
	if !ok {
		return nil
	}
	b := &s.cells.Cells()[i]
	if b.IsEmpty() || b.Movement() == MoveNone {
		return nil
	}
	return b
}

// surfaceFriction is the slide factor of the slot under (x, y).
func (s *Sandbox) surfaceFriction(x, y int) float32 {
	below, ok := s.cells.Get(x, y+1)
	if !ok {
		return edgeSlide
	}
	return below.Kind.SlideFactor()
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func signf(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
