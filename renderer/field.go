package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/systems"
)

var (
	washInner = color.NRGBA{R: 0, G: 27, B: 68, A: 255}
	washFloor = color.NRGBA{A: 204} // Black at 0.8
)

// FieldRenderer draws the ambient particle field.
type FieldRenderer struct {
	index *systems.SpatialIndex // Fallback when the caller's index is too fine
	links []systems.Link
	stops []Stop
}

// NewFieldRenderer creates a new field renderer.
func NewFieldRenderer() *FieldRenderer {
	return &FieldRenderer{
		index: systems.NewSpatialIndex(),
		stops: make([]Stop, 0, 3),
	}
}

// Render draws one frame back to front: background wash, glyphs with glow,
// then connections. idx must hold the particles' current positions; it is
// rebuilt here if its cells are smaller than the connection distance.
// Connection counters are incremented on both ends of every drawn segment.
// Returns the number of segments drawn.
func (r *FieldRenderer) Render(s Surface, ps []components.Particle, idx *systems.SpatialIndex, cfg config.FieldConfig) int {
	w, h := s.Size()
	if cfg.Background {
		DrawWash(s, w, h)
	}

	for i := range ps {
		p := &ps[i]
		r.stops = glyphStops(r.stops, p.Hue, p.Opacity)
		s.FillCircleGradient(p.Pos, p.Size, r.stops)

		if cfg.Glow && p.PrevLinks > 0 {
			r.stops = glowStops(r.stops, p.Hue, p.Opacity)
			s.FillCircleGradient(p.Pos, p.Size*(1+float64(p.PrevLinks)*0.2), r.stops)
		}
	}

	if cfg.ConnectionDistance <= 0 || len(ps) < 2 {
		return 0
	}
	if idx == nil || idx.CellSize() < cfg.ConnectionDistance || idx.Len() != len(ps) {
		r.index.BuildParticles(ps, cfg.ConnectionDistance)
		idx = r.index
	}

	pass := systems.LinkPass{
		MaxDist:  cfg.ConnectionDistance,
		Opacity:  cfg.ConnectionOpacity,
		MinAlpha: cfg.MinLinkAlpha,
	}
	r.links = pass.Collect(idx, func(i int) (r2.Vec, bool) { return ps[i].Pos, true }, r.links[:0])
	for _, l := range r.links {
		s.StrokeLine(ps[l.I].Pos, ps[l.J].Pos, cfg.LineWidth, RGBA(cfg.LinkColor, l.Alpha))
		ps[l.I].Links++
		ps[l.J].Links++
	}
	return len(r.links)
}

// DrawWash paints the deep blue radial background with a darkened lower half.
func DrawWash(s Surface, w, h float64) {
	s.FillRadial(r2.Vec{X: w / 2, Y: h / 2}, w, washInner, Black)
	s.FillLinearV(0, h/2, w, h/2, Transparent, washFloor)
}
