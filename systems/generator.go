package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// GenerateField creates cfg.Count particles spread uniformly over the surface.
// A degenerate surface yields an empty collection.
func GenerateField(cfg config.FieldConfig, width, height float64, rng *rand.Rand) []components.Particle {
	if width <= 0 || height <= 0 || cfg.Count <= 0 {
		return nil
	}

	particles := make([]components.Particle, cfg.Count)
	for i := range particles {
		particles[i] = components.Particle{
			Pos: r2.Vec{
				X: rng.Float64() * width,
				Y: rng.Float64() * height,
			},
			Vel: r2.Vec{
				X: (rng.Float64() - 0.5) * cfg.Speed,
				Y: (rng.Float64() - 0.5) * cfg.Speed,
			},
			Size:    between(rng, cfg.SizeMin, cfg.SizeMax),
			Hue:     between(rng, cfg.HueMin, cfg.HueMax),
			Opacity: between(rng, cfg.OpacityMin, cfg.OpacityMax),
		}
	}
	return particles
}

// GenerateOcean lays out cfg.Count lattice points in rows of cfg.Width,
// centred on x = 0 and receding along z. Vertices start at rest with no velocity.
func GenerateOcean(cfg config.OceanConfig) []components.Vertex {
	if cfg.Count <= 0 || cfg.Width <= 0 || cfg.Spacing <= 0 {
		return nil
	}

	offset := float64(cfg.Width) / 2
	vertices := make([]components.Vertex, cfg.Count)
	for i := range vertices {
		col := i % cfg.Width
		row := i / cfg.Width
		rest := r3.Vec{
			X: (float64(col) - offset) * cfg.Spacing,
			Y: 0,
			Z: float64(row) * cfg.Spacing,
		}
		vertices[i] = components.Vertex{Rest: rest, Pos: rest}
	}
	return vertices
}

// between returns a value in [lo, hi), or lo for an empty range.
func between(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
