package host

import (
	"time"

	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/renderer"
)

// Headless hosts an engine on a recording surface with no window.
// Frames only advance when Frame is called, so callers own the clock.
type Headless struct {
	frames  frameQueue
	sinks   sinks
	bounds  engine.Rect
	surface *renderer.Recorder
}

// NewHeadless creates a headless host of the given size.
func NewHeadless(w, h float64) *Headless {
	return &Headless{bounds: engine.Rect{W: w, H: h}}
}

func (h *Headless) Mount() (renderer.Surface, error) {
	h.surface = renderer.NewRecorder(h.bounds.W, h.bounds.H)
	return h.surface, nil
}

func (h *Headless) Unmount() {}

func (h *Headless) Bounds() engine.Rect {
	return h.bounds
}

func (h *Headless) Subscribe(sink func(engine.Event)) func() {
	return h.sinks.subscribe(sink)
}

func (h *Headless) RequestFrame(fn engine.FrameFunc) engine.FrameID {
	return h.frames.request(fn)
}

func (h *Headless) CancelFrame(id engine.FrameID) {
	h.frames.cancel(id)
}

// Emit delivers an event to subscribers.
func (h *Headless) Emit(ev engine.Event) {
	h.sinks.emit(ev)
}

// Frame runs pending callbacks at now. Only the latest frame's drawing
// calls are kept.
func (h *Headless) Frame(now time.Time) int {
	if h.surface != nil {
		h.surface.Reset()
	}
	return h.frames.run(now)
}

// Surface returns the recording surface, nil before Mount.
func (h *Headless) Surface() *renderer.Recorder {
	return h.surface
}

// Run drives n frames spaced by step, starting at start.
func (h *Headless) Run(start time.Time, step time.Duration, n int) time.Time {
	now := start
	for range n {
		now = now.Add(step)
		h.Frame(now)
	}
	return now
}
