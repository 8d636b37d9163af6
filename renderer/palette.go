package renderer

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/backdrop/config"
)

// HSLA converts hue in degrees, saturation and lightness in [0,1] and alpha
// in [0,1] to a colour.
func HSLA(h, s, l, a float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(a)}
}

// RGBA converts a configured colour and alpha in [0,1].
func RGBA(c config.RGB, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha8(a)}
}

// Fade scales the alpha of c by f.
func Fade(c color.NRGBA, f float64) color.NRGBA {
	c.A = alpha8(float64(c.A) / 255 * f)
	return c
}

func alpha8(a float64) uint8 {
	if !(a > 0) {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a*255 + 0.5)
}

// glyphStops returns the shading of a particle glyph.
func glyphStops(dst []Stop, hue, opacity float64) []Stop {
	return append(dst[:0],
		Stop{Offset: 0, Color: HSLA(hue, 1, 0.8, 0.8*opacity)},
		Stop{Offset: 0.7, Color: HSLA(hue, 1, 0.7, 0.4*opacity)},
		Stop{Offset: 1, Color: HSLA(hue, 1, 0.6, 0)},
	)
}

// glowStops returns the shading of the emphasis halo around a connected particle.
func glowStops(dst []Stop, hue, opacity float64) []Stop {
	return append(dst[:0],
		Stop{Offset: 0, Color: HSLA(hue, 1, 0.7, 0.3*opacity)},
		Stop{Offset: 1, Color: HSLA(hue, 1, 0.6, 0)},
	)
}
