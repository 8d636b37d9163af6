package systems

// Link is a connection between two nearby points.
type Link struct {
	I, J  int
	Dist  float64
	Alpha float64 // Line opacity, opacity at distance 0 falling to 0 at maxDist
}

// LinkPass finds connections through a built spatial index.
// The index cell size must be at least maxDist.
type LinkPass struct {
	MaxDist  float64
	Opacity  float64
	MinAlpha float64 // Links at or below this alpha are dropped
}

// Collect appends every link below MaxDist to dst and returns it.
// Reuse dst across frames to avoid allocations.
func (lp LinkPass) Collect(idx *SpatialIndex, at PositionFunc, dst []Link) []Link {
	if lp.MaxDist <= 0 {
		return dst
	}
	idx.Pairs(at, lp.MaxDist, func(i, j int, dist float64) {
		alpha := lp.Opacity * (1 - dist/lp.MaxDist)
		if alpha <= lp.MinAlpha {
			return
		}
		dst = append(dst, Link{I: i, J: j, Dist: dist, Alpha: alpha})
	})
	return dst
}
