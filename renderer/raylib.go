package renderer

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// RaylibSurface draws into an offscreen render target sized to the window.
// A frame is everything between the first Clear and Present; Blit copies
// the last presented frame to the screen, so frames skipped by a rate cap
// keep showing the previous image.
type RaylibSurface struct {
	target        rl.RenderTexture2D
	width, height int32
	drawing       bool
	released      bool
}

// NewRaylibSurface creates a surface over an open window.
func NewRaylibSurface() (*RaylibSurface, error) {
	if !rl.IsWindowReady() {
		return nil, ErrNoSurface
	}
	s := &RaylibSurface{}
	s.fit()
	return s, nil
}

// fit reallocates the render target when the window size changed.
func (s *RaylibSurface) fit() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == s.width && h == s.height && s.target.ID != 0 {
		return
	}
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.width, s.height = w, h
	s.target = rl.LoadRenderTexture(w, h)
}

func rlColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func rlVec(v r2.Vec) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func (s *RaylibSurface) Size() (float64, float64) {
	return float64(s.width), float64(s.height)
}

// Clear starts a frame on the first call and fills the target.
func (s *RaylibSurface) Clear(c color.NRGBA) {
	if s.released {
		return
	}
	if !s.drawing {
		s.fit()
		rl.BeginTextureMode(s.target)
		s.drawing = true
	}
	rl.ClearBackground(rlColor(c))
}

// Present ends the frame.
func (s *RaylibSurface) Present() {
	if s.drawing {
		rl.EndTextureMode()
		s.drawing = false
	}
}

// Blit draws the last presented frame over the whole window.
// Call it between BeginDrawing and EndDrawing.
func (s *RaylibSurface) Blit() {
	if s.released || s.target.ID == 0 {
		return
	}
	src := rl.Rectangle{
		X:      0,
		Y:      float32(s.height),
		Width:  float32(s.width),
		Height: -float32(s.height), // Negative to flip
	}
	dst := rl.Rectangle{
		Width:  float32(rl.GetScreenWidth()),
		Height: float32(rl.GetScreenHeight()),
	}
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

func (s *RaylibSurface) FillRadial(center r2.Vec, radius float64, inner, outer color.NRGBA) {
	if s.released {
		return
	}
	rl.DrawRectangle(0, 0, s.width, s.height, rlColor(outer))
	rl.DrawCircleGradient(int32(center.X), int32(center.Y), float32(radius), rlColor(inner), rlColor(outer))
}

func (s *RaylibSurface) FillLinearV(x, y, w, h float64, top, bottom color.NRGBA) {
	if s.released {
		return
	}
	rl.DrawRectangleGradientV(int32(x), int32(y), int32(w), int32(h), rlColor(top), rlColor(bottom))
}

// FillCircleGradient layers one two-colour disc per gradient segment, outermost first.
func (s *RaylibSurface) FillCircleGradient(center r2.Vec, radius float64, stops []Stop) {
	if s.released || len(stops) == 0 || radius <= 0 {
		return
	}
	if len(stops) == 1 {
		rl.DrawCircleV(rlVec(center), float32(radius), rlColor(stops[0].Color))
		return
	}
	cx, cy := int32(center.X), int32(center.Y)
	for k := len(stops) - 1; k >= 1; k-- {
		rk := float32(radius * stops[k].Offset)
		if rk <= 0 {
			continue
		}
		rl.DrawCircleGradient(cx, cy, rk, rlColor(stops[k-1].Color), rlColor(stops[k].Color))
	}
}

func (s *RaylibSurface) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	if s.released {
		return
	}
	rl.DrawCircleV(rlVec(center), float32(radius), rlColor(c))
}

func (s *RaylibSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if s.released {
		return
	}
	rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), rlColor(c))
}

func (s *RaylibSurface) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	if s.released {
		return
	}
	rl.DrawLineEx(rlVec(from), rlVec(to), float32(width), rlColor(c))
}

// Export writes the last presented frame to an image file (PNG by extension).
func (s *RaylibSurface) Export(path string) error {
	if s.released || s.target.ID == 0 {
		return ErrNoSurface
	}
	img := rl.LoadImageFromTexture(s.target.Texture)
	defer rl.UnloadImage(img)
	// Render targets are stored bottom-up
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("renderer: export %s failed", path)
	}
	return nil
}

// Release frees the render target. Drawing afterwards is a no-op.
func (s *RaylibSurface) Release() {
	if s.released {
		return
	}
	s.Present()
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
		s.target = rl.RenderTexture2D{}
	}
	s.released = true
}
