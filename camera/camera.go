// Package camera provides the perspective projection used by the ocean effect.
package camera

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/backdrop/components"
)

// Projector maps 3D world points onto a viewport.
// The eye sits at the origin looking down +z; x grows right and y grows down.
type Projector struct {
	// Perspective is the focal distance: a point at z == Perspective has scale 1
	Perspective float64

	// Points at or in front of Near are culled
	Near float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64
}

// New creates a projector centred on the viewport.
func New(viewportW, viewportH, perspective, near float64) *Projector {
	return &Projector{
		Perspective: perspective,
		Near:        near,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
	}
}

// Center returns the vanishing point in screen coordinates.
func (p *Projector) Center() r2.Vec {
	return r2.Vec{X: p.ViewportW / 2, Y: p.ViewportH / 2}
}

// Project converts a world point to screen coordinates.
// Returns the screen position, the size scale at that depth and whether the
// point lies beyond the near plane.
func (p *Projector) Project(w r3.Vec) (screen r2.Vec, scale float64, ok bool) {
	if !(w.Z > p.Near) || w.Z <= 0 {
		return r2.Vec{}, 0, false
	}
	scale = p.Perspective / w.Z
	c := p.Center()
	return r2.Vec{X: c.X + w.X*scale, Y: c.Y + w.Y*scale}, scale, true
}

// Unproject returns the world point at depth z that projects to screen.
func (p *Projector) Unproject(screen r2.Vec, z float64) r3.Vec {
	c := p.Center()
	inv := z / p.Perspective
	return r3.Vec{X: (screen.X - c.X) * inv, Y: (screen.Y - c.Y) * inv, Z: z}
}

// IsVisible returns true if a disc of the given screen radius centred on s
// overlaps the viewport (conservative check for culling).
func (p *Projector) IsVisible(s r2.Vec, radius float64) bool {
	return s.X >= -radius && s.X <= p.ViewportW+radius &&
		s.Y >= -radius && s.Y <= p.ViewportH+radius
}

// ProjectVertices fills Screen, Scale and Visible for every vertex from its
// displaced position. baseSize is the on-screen radius at scale 1.
// Returns the number of visible vertices.
func (p *Projector) ProjectVertices(vs []components.Vertex, baseSize float64) int {
	visible := 0
	for i := range vs {
		v := &vs[i]
		s, scale, ok := p.Project(v.Pos)
		v.Screen = s
		v.Scale = scale
		v.Visible = ok && p.IsVisible(s, baseSize*scale)
		if v.Visible {
			visible++
		}
	}
	return visible
}

// Resize updates viewport dimensions.
func (p *Projector) Resize(viewportW, viewportH float64) {
	p.ViewportW = viewportW
	p.ViewportH = viewportH
}
