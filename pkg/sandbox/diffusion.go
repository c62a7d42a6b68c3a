package sandbox

// mooreNeighbors lists the eight surrounding offsets. The diffusion phase
// shuffles a copy before use.
var mooreNeighbors = [8][2]int{
	{0, 1}, {-1, 1}, {1, 1},
	{-1, 0}, {1, 0},
	{0, -1}, {-1, -1}, {1, -1},
}

// diffuse spreads each property the cell at (x, y) carries to one neighbor.
func (s *Sandbox) diffuse(x, y int) {
	i, ok := s.cells.Index(x, y)
	if !ok {
		return
	}
	for _, p := range Properties() {
		c := s.cells.Cells()[i]
		if c.IsEmpty() {
			return
		}
		spec := c.Kind.PropertySpec(p)
		if spec.Capacity <= 0 || c.Property(p) < spec.MinSaturation {
			continue
		}
		candidates := mooreNeighbors
		s.rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})
		s.spread(i, x, y, p, candidates[:])
	}
}

// spread transfers p from slot i to the first candidate that is either an
// occupied slot next to a pure source, or holds less of p and can take more.
func (s *Sandbox) spread(i, x, y int, p Property, candidates [][2]int) bool {
	cells := s.cells.Cells()
	src := cells[i]
	value := src.Property(p)
	pure := src.IsPureSource(p)
	for _, d := range candidates {
		j, ok := s.cells.Index(x+d[0], y+d[1])
		if !ok {
			continue
		}
		target := cells[j]
		if !(pure && !target.IsEmpty()) && !(target.Property(p) < value && target.AcceptPotential(p) > 0) {
			continue
		}
		amount := min(src.DiffusePotential(p), target.AcceptPotential(p))
		cells[j].SetProperty(p, target.Property(p)+amount)
		cells[i].SetProperty(p, value-amount)
		if pure && cells[i].Property(p) <= s.cfg.DepletionThreshold {
			cells[i] = Empty()
		}
		return true
	}
	return false
}
