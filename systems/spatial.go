// Package systems provides the per-frame simulation passes of the engine.
package systems

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
)

// CellKey identifies a grid cell: position divided by the cell size, floored.
type CellKey struct {
	X, Y int
}

// PositionFunc returns the position of point i and whether it takes part in the index.
type PositionFunc func(i int) (r2.Vec, bool)

// SpatialIndex buckets points into uniform cells so that proximity queries only
// look at the 3x3 block around a cell. It is rebuilt from scratch every frame.
type SpatialIndex struct {
	cellSize float64
	cells    map[CellKey][]int
	keys     []CellKey // occupied cells, sorted
	count    int
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		cells: make(map[CellKey][]int),
	}
}

// Build replaces the index contents with points 0..n-1.
// A non-positive cell size leaves the index empty, as do non-finite positions for their point.
func (s *SpatialIndex) Build(n int, at PositionFunc, cellSize float64) {
	// Keep per-cell capacity between frames
	for _, k := range s.keys {
		s.cells[k] = s.cells[k][:0]
	}
	s.keys = s.keys[:0]
	s.count = 0
	s.cellSize = cellSize

	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return
	}

	for i := 0; i < n; i++ {
		p, ok := at(i)
		if !ok || !finite(p) {
			continue
		}
		k := s.KeyOf(p)
		bucket := s.cells[k]
		if len(bucket) == 0 {
			s.keys = append(s.keys, k)
		}
		s.cells[k] = append(bucket, i)
		s.count++
	}

	slices.SortFunc(s.keys, func(a, b CellKey) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
}

// BuildParticles indexes every particle by its current position.
func (s *SpatialIndex) BuildParticles(ps []components.Particle, cellSize float64) {
	s.Build(len(ps), func(i int) (r2.Vec, bool) { return ps[i].Pos, true }, cellSize)
}

// KeyOf returns the cell containing p.
func (s *SpatialIndex) KeyOf(p r2.Vec) CellKey {
	return CellKey{
		X: int(math.Floor(p.X / s.cellSize)),
		Y: int(math.Floor(p.Y / s.cellSize)),
	}
}

// CellSize returns the cell size of the last build.
func (s *SpatialIndex) CellSize() float64 {
	return s.cellSize
}

// Len returns the number of indexed points.
func (s *SpatialIndex) Len() int {
	return s.count
}

// Cells returns the occupied cell keys in row-major order.
// The slice is owned by the index and valid until the next Build.
func (s *SpatialIndex) Cells() []CellKey {
	return s.keys
}

// Cell returns the point indices in a single cell.
func (s *SpatialIndex) Cell(k CellKey) []int {
	return s.cells[k]
}

// Neighbors appends to dst the indices in the 3x3 block of cells centred on k.
// Reuse dst across calls to avoid allocations.
func (s *SpatialIndex) Neighbors(k CellKey, dst []int) []int {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			dst = append(dst, s.cells[CellKey{X: k.X + dx, Y: k.Y + dy}]...)
		}
	}
	return dst
}

// MeanOccupancy returns the average number of points per occupied cell.
func (s *SpatialIndex) MeanOccupancy() float64 {
	if len(s.keys) == 0 {
		return 0
	}
	return float64(s.count) / float64(len(s.keys))
}

// Pairs calls fn once for every unordered pair (i < j) closer than maxDist.
// maxDist must not exceed the cell size or pairs spanning two cells are missed.
func (s *SpatialIndex) Pairs(at PositionFunc, maxDist float64, fn func(i, j int, dist float64)) {
	if maxDist <= 0 || s.count < 2 {
		return
	}
	maxSq := maxDist * maxDist

	for _, k := range s.keys {
		home := s.cells[k]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				other := s.cells[CellKey{X: k.X + dx, Y: k.Y + dy}]
				if len(other) == 0 {
					continue
				}
				for _, i := range home {
					pi, _ := at(i)
					for _, j := range other {
						// The mirrored visit from j's cell sees i > j and skips
						if i >= j {
							continue
						}
						pj, _ := at(j)
						distSq := r2.Norm2(r2.Sub(pi, pj))
						if distSq < maxSq {
							fn(i, j, math.Sqrt(distSq))
						}
					}
				}
			}
		}
	}
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
