package systems

import (
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
)

func randomParticles(n int, w, h float64, seed int64) []components.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]components.Particle, n)
	for i := range ps {
		ps[i].Pos = r2.Vec{X: rng.Float64() * w, Y: rng.Float64() * h}
	}
	return ps
}

type pair struct{ i, j int }

// edgeParticles places points exactly on cell boundaries, on both sides of
// the origin, plus pairs straddling each boundary.
func edgeParticles(cell float64) []components.Particle {
	var ps []components.Particle
	for gx := -3; gx <= 3; gx++ {
		for gy := -2; gy <= 2; gy++ {
			x, y := float64(gx)*cell, float64(gy)*cell
			for _, p := range []r2.Vec{{X: x, Y: y}, {X: x - 0.5, Y: y}, {X: x, Y: y - 0.5}, {X: x + cell - 1e-9, Y: y}} {
				ps = append(ps, components.Particle{Pos: p})
			}
		}
	}
	return ps
}

// TestPairsMatchesBruteForce checks that the grid finds exactly the pairs an O(n²) scan finds.
func TestPairsMatchesBruteForce(t *testing.T) {
	const dist = 150.0

	type layout struct {
		name string
		ps   []components.Particle
	}
	tests := []layout{{"cell edges", edgeParticles(dist)}}
	for _, seed := range []int64{1, 7, 42, 99, 2024} {
		ps := randomParticles(200, 800, 600, seed)
		tests = append(tests, layout{fmt.Sprintf("seed %d", seed), ps})

		// Same layout shifted across the origin
		neg := make([]components.Particle, len(ps))
		for i := range ps {
			neg[i].Pos = r2.Sub(ps[i].Pos, r2.Vec{X: 400, Y: 300})
		}
		tests = append(tests, layout{fmt.Sprintf("seed %d negative", seed), neg})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := tt.ps
			idx := NewSpatialIndex()
			idx.BuildParticles(ps, dist)
			if idx.Len() != len(ps) {
				t.Fatalf("expected %d indexed, got %d", len(ps), idx.Len())
			}

			at := func(i int) (r2.Vec, bool) { return ps[i].Pos, true }
			got := make(map[pair]int)
			idx.Pairs(at, dist, func(i, j int, _ float64) {
				if i > j {
					i, j = j, i
				}
				got[pair{i, j}]++
			})

			want := 0
			for i := range ps {
				for j := i + 1; j < len(ps); j++ {
					if r2.Norm2(r2.Sub(ps[i].Pos, ps[j].Pos)) >= dist*dist {
						continue
					}
					want++
					if got[pair{i, j}] != 1 {
						t.Errorf("pair (%d,%d) visited %d times, want 1", i, j, got[pair{i, j}])
					}
				}
			}
			if len(got) != want {
				t.Errorf("grid found %d pairs, brute force %d", len(got), want)
			}
		})
	}
}

func TestBuildSkipsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
		wantLen  int
	}{
		{"zero cell size", 0, 0},
		{"negative cell size", -5, 0},
		{"normal", 10, 2},
	}

	pts := []r2.Vec{{X: 1, Y: 1}, {X: 25, Y: 3}, {X: 5, Y: 5}}
	at := func(i int) (r2.Vec, bool) { return pts[i], i != 2 }

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx := NewSpatialIndex()
			idx.Build(len(pts), at, tc.cellSize)
			if idx.Len() != tc.wantLen {
				t.Errorf("expected %d points, got %d", tc.wantLen, idx.Len())
			}
		})
	}
}

func TestBuildReusesIndex(t *testing.T) {
	idx := NewSpatialIndex()
	idx.BuildParticles(randomParticles(50, 100, 100, 1), 10)
	idx.BuildParticles(randomParticles(3, 5, 5, 2), 10)

	if idx.Len() != 3 {
		t.Fatalf("expected 3 points after rebuild, got %d", idx.Len())
	}
	if len(idx.Cells()) != 1 || idx.Cells()[0] != (CellKey{}) {
		t.Errorf("expected single cell at origin, got %v", idx.Cells())
	}
	if got := idx.MeanOccupancy(); got != 3 {
		t.Errorf("expected mean occupancy 3, got %f", got)
	}
}

func TestKeysSortedRowMajor(t *testing.T) {
	pts := []r2.Vec{{X: 35, Y: 15}, {X: 5, Y: 15}, {X: 25, Y: 5}, {X: -5, Y: 5}}
	idx := NewSpatialIndex()
	idx.Build(len(pts), func(i int) (r2.Vec, bool) { return pts[i], true }, 10)

	want := []CellKey{{X: -1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 3, Y: 1}}
	keys := idx.Cells()
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}

func TestNeighbors(t *testing.T) {
	pts := []r2.Vec{{X: 5, Y: 5}, {X: 15, Y: 15}, {X: 35, Y: 5}}
	idx := NewSpatialIndex()
	idx.Build(len(pts), func(i int) (r2.Vec, bool) { return pts[i], true }, 10)

	got := idx.Neighbors(CellKey{}, nil)
	if len(got) != 2 {
		t.Errorf("expected 2 neighbours of origin cell, got %v", got)
	}
}

func BenchmarkPairs(b *testing.B) {
	ps := randomParticles(1000, 1920, 1080, 3)
	idx := NewSpatialIndex()
	at := func(i int) (r2.Vec, bool) { return ps[i].Pos, true }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.BuildParticles(ps, 100)
		n := 0
		idx.Pairs(at, 100, func(_, _ int, _ float64) { n++ })
	}
}
