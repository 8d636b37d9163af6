// Package components defines the per-point state animated by the engine.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Particle is one point of the ambient field.
// Size, Hue and Opacity are fixed at creation.
type Particle struct {
	Pos r2.Vec // Surface position in pixels
	Vel r2.Vec // Pixels per nominal tick

	Size    float64 // Glyph radius
	Hue     float64 // Degrees
	Opacity float64 // Base alpha

	Links     int // Connections drawn this frame
	PrevLinks int // Links of the previous frame, drives the glow
}

// Vertex is one lattice point of the ocean grid.
// Rest never changes; everything else is recomputed each frame.
type Vertex struct {
	Rest r3.Vec // Lattice position
	Pos  r3.Vec // Displaced position for the current frame

	Screen  r2.Vec  // Projected surface position
	Scale   float64 // Projection scale (perspective / depth)
	Visible bool    // In front of the near plane and on the surface

	Links int
}

// Pointer is the last known pointer position in surface coordinates.
type Pointer struct {
	Pos     r2.Vec
	Present bool // False once the pointer left the surface
}

// Absent is the pointer state before any pointer event arrived.
var Absent = Pointer{}
