package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// NominalTick is the frame time that velocities and per-frame forces are expressed in.
const NominalTick = 1.0 / 60.0

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float64
}

// Advance moves every particle by one frame of dt seconds.
// elapsed is the accumulated simulated time that drives the wave.
// Afterwards every particle lies inside [0,Width]x[0,Height] and Links has
// moved to PrevLinks.
func Advance(ps []components.Particle, ptr components.Pointer, cfg config.FieldConfig, b Bounds, elapsed, dt float64) {
	if len(ps) == 0 {
		return
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	ticks := dt / NominalTick
	phase := elapsed * cfg.WaveSpeed

	for i := range ps {
		p := &ps[i]

		p.Pos = r2.Add(p.Pos, r2.Scale(ticks, p.Vel))

		if cfg.WaveAmplitude != 0 {
			p.Pos.Y += math.Sin(phase+p.Pos.X*cfg.WaveFrequency) * cfg.WaveAmplitude * ticks
		}

		if ptr.Present {
			p.Pos = r2.Add(p.Pos, r2.Scale(ticks, Repulsion(p.Pos, ptr.Pos, cfg.PointerRadius, cfg.PointerForce)))
		}

		switch cfg.Boundary {
		case config.BoundaryBounce:
			bounce(p, b)
		default:
			wrap(p, b)
		}

		p.PrevLinks = p.Links
		p.Links = 0
	}
}

// Repulsion returns the displacement pushing a point at pos away from the pointer.
// It falls off linearly from force at distance 0 to nothing at radius.
// A point exactly on the pointer is pushed along +x.
func Repulsion(pos, pointer r2.Vec, radius, force float64) r2.Vec {
	if radius <= 0 {
		return r2.Vec{}
	}
	delta := r2.Sub(pos, pointer)
	dist := r2.Norm(delta)
	if !(dist < radius) {
		return r2.Vec{}
	}

	strength := (radius - dist) / radius * force
	if dist == 0 {
		return r2.Vec{X: strength}
	}
	return r2.Scale(strength/dist, delta)
}

// wrap teleports a particle that left the surface to the opposite edge.
func wrap(p *components.Particle, b Bounds) {
	switch {
	case math.IsNaN(p.Pos.X):
		p.Pos.X = 0
	case p.Pos.X < 0:
		p.Pos.X = b.Width
	case p.Pos.X > b.Width:
		p.Pos.X = 0
	}
	switch {
	case math.IsNaN(p.Pos.Y):
		p.Pos.Y = 0
	case p.Pos.Y < 0:
		p.Pos.Y = b.Height
	case p.Pos.Y > b.Height:
		p.Pos.Y = 0
	}
	// Degenerate surfaces collapse to the origin
	if b.Width <= 0 {
		p.Pos.X = 0
	}
	if b.Height <= 0 {
		p.Pos.Y = 0
	}
}

// bounce reflects the velocity back into the surface and clamps the position.
func bounce(p *components.Particle, b Bounds) {
	if p.Pos.X < 0 || math.IsNaN(p.Pos.X) {
		p.Pos.X = 0
		p.Vel.X = math.Abs(p.Vel.X)
	} else if p.Pos.X > b.Width {
		p.Pos.X = math.Max(b.Width, 0)
		p.Vel.X = -math.Abs(p.Vel.X)
	}
	if p.Pos.Y < 0 || math.IsNaN(p.Pos.Y) {
		p.Pos.Y = 0
		p.Vel.Y = math.Abs(p.Vel.Y)
	} else if p.Pos.Y > b.Height {
		p.Pos.Y = math.Max(b.Height, 0)
		p.Vel.Y = -math.Abs(p.Vel.Y)
	}
}
