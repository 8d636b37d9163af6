package renderer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/camera"
	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/systems"
)

const (
	maxPointScale = 2.0 // Cap on point growth near the camera
	minPointSize  = 0.5
	depthFade     = 0.8 // Alpha lost at the far edge of the lattice
)

// OceanRenderer draws the perspective ocean lattice.
type OceanRenderer struct {
	links []systems.Link
}

// NewOceanRenderer creates a new ocean renderer.
func NewOceanRenderer() *OceanRenderer {
	return &OceanRenderer{}
}

// Render projects the displaced vertices and draws them over whatever the
// surface already holds; the caller clears the frame. When cfg.ConnectionDistance is set, projected points closer than it on
// screen are joined, using idx rebuilt over screen positions.
// Returns the number of visible points.
func (r *OceanRenderer) Render(s Surface, vs []components.Vertex, proj *camera.Projector, idx *systems.SpatialIndex, cfg config.OceanConfig) int {
	r.links = r.links[:0]

	visible := proj.ProjectVertices(vs, cfg.VertexSize)
	if visible == 0 {
		return 0
	}

	if cfg.ConnectionDistance > 0 && idx != nil {
		at := func(i int) (r2.Vec, bool) { return vs[i].Screen, vs[i].Visible }
		idx.Build(len(vs), at, cfg.ConnectionDistance)
		pass := systems.LinkPass{MaxDist: cfg.ConnectionDistance, Opacity: cfg.ConnectionOpacity}
		r.links = pass.Collect(idx, at, r.links[:0])
		for _, l := range r.links {
			s.StrokeLine(vs[l.I].Screen, vs[l.J].Screen, 1, RGBA(cfg.Color, l.Alpha))
			vs[l.I].Links++
			vs[l.J].Links++
		}
	}

	depth := cfg.Depth() + cfg.Spacing
	for i := range vs {
		v := &vs[i]
		if !v.Visible {
			continue
		}
		size := cfg.VertexSize * math.Min(v.Scale, maxPointScale)
		if size < minPointSize {
			size = minPointSize
		}
		alpha := 1.0
		if depth > 0 {
			alpha = 1 - depthFade*math.Min(v.Pos.Z/depth, 1)
		}
		s.FillCircle(v.Screen, size, RGBA(cfg.Color, alpha))
	}
	return visible
}

// Links returns the number of connections drawn by the last Render.
func (r *OceanRenderer) Links() int {
	return len(r.links)
}
