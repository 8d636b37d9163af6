package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// AdvanceOcean displaces every lattice point for the given frame index.
// The lattice scrolls towards the viewer by ScrollSpeed per frame and repeats
// every Spacing, so row k+1 lands exactly where row k started. Heights are a
// pure function of frame and position; nothing is integrated.
func AdvanceOcean(vs []components.Vertex, cfg config.OceanConfig, frame float64) {
	if len(vs) == 0 || cfg.Spacing <= 0 {
		return
	}

	scroll := math.Mod(frame*cfg.ScrollSpeed, cfg.Spacing)
	if scroll < 0 {
		scroll += cfg.Spacing
	}
	t := frame / cfg.WavePeriod

	for i := range vs {
		v := &vs[i]
		z := v.Rest.Z + cfg.Spacing - scroll
		// Phase is anchored to the water, not the screen, so crests travel with the scroll
		wz := z + frame*cfg.ScrollSpeed
		wave := math.Sin(t+v.Rest.X/cfg.WaveLength) * math.Cos(t+wz/cfg.WaveLength) * cfg.WaveSize

		v.Pos = r3.Vec{
			X: v.Rest.X,
			Y: cfg.Height + wave,
			Z: z,
		}
		v.Links = 0
	}
}
