package host

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/renderer"
)

// Raylib hosts an engine in the open raylib window.
// All methods must be called from the thread that owns the window.
type Raylib struct {
	frames  frameQueue
	sinks   sinks
	surface *renderer.RaylibSurface

	// Overlay, when set, draws on top of the animation every refresh
	Overlay func()

	hidden   bool
	inside   bool
	lastPos  rl.Vector2
	touching bool
}

// NewRaylib creates a host for the current window.
func NewRaylib() *Raylib {
	return &Raylib{}
}

func (h *Raylib) Mount() (renderer.Surface, error) {
	s, err := renderer.NewRaylibSurface()
	if err != nil {
		return nil, fmt.Errorf("mount raylib window: %w", err)
	}
	h.surface = s
	return s, nil
}

func (h *Raylib) Unmount() {
	h.surface = nil
}

func (h *Raylib) Bounds() engine.Rect {
	if !rl.IsWindowReady() {
		return engine.Rect{}
	}
	return engine.Rect{W: float64(rl.GetScreenWidth()), H: float64(rl.GetScreenHeight())}
}

func (h *Raylib) Subscribe(sink func(engine.Event)) func() {
	return h.sinks.subscribe(sink)
}

func (h *Raylib) RequestFrame(fn engine.FrameFunc) engine.FrameID {
	return h.frames.request(fn)
}

func (h *Raylib) CancelFrame(id engine.FrameID) {
	h.frames.cancel(id)
}

// Poll turns window state into engine events. Call it once per loop
// iteration, before Frame.
func (h *Raylib) Poll(now time.Time) {
	if hidden := rl.IsWindowMinimized(); hidden != h.hidden {
		h.hidden = hidden
		h.sinks.emit(engine.Visibility(now, hidden))
	}

	if rl.IsWindowResized() {
		h.sinks.emit(engine.Resize(now, float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())))
	}

	// Touches collapse into pointer moves
	if rl.GetTouchPointCount() > 0 {
		p := rl.GetTouchPosition(0)
		h.touching = true
		h.move(now, p)
		return
	}
	if h.touching {
		h.touching = false
		h.leave(now)
		return
	}

	if !rl.IsCursorOnScreen() {
		h.leave(now)
		return
	}
	h.move(now, rl.GetMousePosition())
}

func (h *Raylib) move(now time.Time, p rl.Vector2) {
	if h.inside && p == h.lastPos {
		return
	}
	h.inside = true
	h.lastPos = p
	h.sinks.emit(engine.PointerMove(now, float64(p.X), float64(p.Y)))
}

func (h *Raylib) leave(now time.Time) {
	if !h.inside {
		return
	}
	h.inside = false
	h.sinks.emit(engine.PointerLeave(now))
}

// Surface returns the mounted surface, nil when unmounted.
func (h *Raylib) Surface() *renderer.RaylibSurface {
	return h.surface
}

// Emit delivers a synthetic event to subscribers.
func (h *Raylib) Emit(ev engine.Event) {
	h.sinks.emit(ev)
}

// Frame runs pending frame callbacks and shows the latest image.
// It owns BeginDrawing/EndDrawing, which also pumps window events.
func (h *Raylib) Frame(now time.Time) int {
	n := h.frames.run(now)

	rl.BeginDrawing()
	if h.surface != nil {
		h.surface.Blit()
	} else {
		rl.ClearBackground(rl.Black)
	}
	if h.Overlay != nil {
		h.Overlay()
	}
	rl.EndDrawing()
	return n
}
