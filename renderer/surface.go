// Package renderer draws effect frames onto a Surface.
package renderer

import (
	"errors"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNoSurface is returned when a host cannot provide a drawing context.
var ErrNoSurface = errors.New("renderer: no drawing surface")

// Stop is one colour stop of a radial gradient.
// Offset runs from 0 at the centre to 1 at the rim.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Surface is a 2D drawing context sized in surface pixels.
// Colours are non-premultiplied and composited source-over.
type Surface interface {
	// Size returns the drawable area.
	Size() (w, h float64)

	// Clear replaces every pixel with c.
	Clear(c color.NRGBA)

	// FillRadial paints the whole surface with a radial gradient from inner at
	// center to outer at radius and beyond.
	FillRadial(center r2.Vec, radius float64, inner, outer color.NRGBA)

	// FillLinearV paints a rectangle with a vertical gradient from top to bottom.
	FillLinearV(x, y, w, h float64, top, bottom color.NRGBA)

	// FillCircleGradient paints a disc shaded by stops sorted by offset.
	FillCircleGradient(center r2.Vec, radius float64, stops []Stop)

	FillCircle(center r2.Vec, radius float64, c color.NRGBA)
	FillRect(x, y, w, h float64, c color.NRGBA)
	StrokeLine(from, to r2.Vec, width float64, c color.NRGBA)

	// Release frees the context. Drawing afterwards is a no-op.
	Release()
}

// Presenter is implemented by surfaces that buffer a frame until it is presented.
type Presenter interface {
	Present()
}

var (
	Black       = color.NRGBA{A: 255}
	Transparent = color.NRGBA{}
)

// Lerp interpolates between two colours channel by channel.
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// StopAt evaluates a gradient at offset t.
func StopAt(stops []Stop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return Transparent
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return Lerp(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}
