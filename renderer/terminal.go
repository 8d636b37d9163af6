package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// upperHalf draws the top pixel of a cell in the foreground colour and the
// bottom pixel in the background colour.
const upperHalf = '▀'

// TerminalSurface rasterises into a tcell screen at two pixels per cell,
// stacked vertically. Frames are buffered until Present.
type TerminalSurface struct {
	screen tcell.Screen
	w, h   int
	pix    []color.NRGBA // Opaque framebuffer, row-major
	done   bool
}

// NewTerminalSurface creates a surface over an initialised screen.
func NewTerminalSurface(screen tcell.Screen) (*TerminalSurface, error) {
	if screen == nil {
		return nil, ErrNoSurface
	}
	s := &TerminalSurface{screen: screen}
	s.sync()
	return s, nil
}

// sync resizes the framebuffer to the screen.
func (s *TerminalSurface) sync() {
	cols, rows := s.screen.Size()
	if cols == s.w && rows*2 == s.h {
		return
	}
	s.w, s.h = cols, rows*2
	s.pix = make([]color.NRGBA, s.w*s.h)
	for i := range s.pix {
		s.pix[i] = Black
	}
}

func (s *TerminalSurface) Size() (float64, float64) {
	s.sync()
	return float64(s.w), float64(s.h)
}

// Pixel returns the framebuffer colour at (x, y).
func (s *TerminalSurface) Pixel(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return Transparent
	}
	return s.pix[y*s.w+x]
}

// blend composites c over pixel (x, y).
func (s *TerminalSurface) blend(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h || c.A == 0 {
		return
	}
	i := y*s.w + x
	if c.A == 255 {
		s.pix[i] = c
		return
	}
	a := float64(c.A) / 255
	d := s.pix[i]
	mix := func(src, dst uint8) uint8 {
		return uint8(float64(src)*a + float64(dst)*(1-a) + 0.5)
	}
	s.pix[i] = color.NRGBA{R: mix(c.R, d.R), G: mix(c.G, d.G), B: mix(c.B, d.B), A: 255}
}

func (s *TerminalSurface) Clear(c color.NRGBA) {
	if s.done {
		return
	}
	s.sync()
	c.A = 255
	for i := range s.pix {
		s.pix[i] = c
	}
}

func (s *TerminalSurface) FillRadial(center r2.Vec, radius float64, inner, outer color.NRGBA) {
	if s.done {
		return
	}
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			t := 1.0
			if radius > 0 {
				t = r2.Norm(r2.Sub(pixelCenter(x, y), center)) / radius
			}
			s.blend(x, y, Lerp(inner, outer, t))
		}
	}
}

func (s *TerminalSurface) FillLinearV(x, y, w, h float64, top, bottom color.NRGBA) {
	if s.done || h <= 0 {
		return
	}
	x0, y0, x1, y1 := s.clip(x, y, x+w, y+h)
	for py := y0; py < y1; py++ {
		c := Lerp(top, bottom, (float64(py)+0.5-y)/h)
		for px := x0; px < x1; px++ {
			s.blend(px, py, c)
		}
	}
}

func (s *TerminalSurface) FillCircleGradient(center r2.Vec, radius float64, stops []Stop) {
	if s.done || radius <= 0 || len(stops) == 0 {
		return
	}
	if radius < 1 {
		// Sub-pixel glyphs still mark their pixel, dimmed by coverage
		s.blend(int(math.Floor(center.X)), int(math.Floor(center.Y)), Fade(stops[0].Color, radius))
		return
	}
	x0, y0, x1, y1 := s.clip(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d := r2.Norm(r2.Sub(pixelCenter(px, py), center))
			if d > radius {
				continue
			}
			s.blend(px, py, StopAt(stops, d/radius))
		}
	}
}

func (s *TerminalSurface) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	s.FillCircleGradient(center, radius, []Stop{{Offset: 0, Color: c}})
}

func (s *TerminalSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if s.done {
		return
	}
	x0, y0, x1, y1 := s.clip(x, y, x+w, y+h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.blend(px, py, c)
		}
	}
}

// StrokeLine plots a one-pixel line; width only scales its alpha when below 1.
func (s *TerminalSurface) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	if s.done {
		return
	}
	if width < 1 {
		c = Fade(c, width)
	}
	d := r2.Sub(to, from)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	if steps == 0 {
		s.blend(int(math.Floor(from.X)), int(math.Floor(from.Y)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		p := r2.Add(from, r2.Scale(float64(i)/float64(steps), d))
		s.blend(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
	}
}

// Present copies the framebuffer to the screen and shows it.
func (s *TerminalSurface) Present() {
	if s.done {
		return
	}
	for row := 0; row < s.h/2; row++ {
		for col := 0; col < s.w; col++ {
			top := s.pix[(2*row)*s.w+col]
			bottom := s.pix[(2*row+1)*s.w+col]
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			s.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	s.screen.Show()
}

// Release stops drawing. The screen itself belongs to the host.
func (s *TerminalSurface) Release() {
	s.done = true
	s.pix = nil
}

func (s *TerminalSurface) clip(x0, y0, x1, y1 float64) (int, int, int, int) {
	ix0 := max(int(math.Floor(x0)), 0)
	iy0 := max(int(math.Floor(y0)), 0)
	ix1 := min(int(math.Ceil(x1)), s.w)
	iy1 := min(int(math.Ceil(y1)), s.h)
	return ix0, iy0, ix1, iy1
}

func pixelCenter(x, y int) r2.Vec {
	return r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func tcellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
