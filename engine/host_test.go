package engine

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/backdrop/renderer"
)

// manualHost fires frames only when the test says so.
type manualHost struct {
	bounds   Rect
	mountErr error
	surface  *renderer.Recorder

	next    FrameID
	pending map[FrameID]FrameFunc

	sink      func(Event)
	subs      int
	unmounted bool
}

func newManualHost(w, h float64) *manualHost {
	return &manualHost{
		bounds:  Rect{W: w, H: h},
		surface: renderer.NewRecorder(w, h),
		pending: make(map[FrameID]FrameFunc),
	}
}

func (h *manualHost) Mount() (renderer.Surface, error) {
	if h.mountErr != nil {
		return nil, h.mountErr
	}
	return h.surface, nil
}

func (h *manualHost) Unmount() { h.unmounted = true }

func (h *manualHost) Bounds() Rect { return h.bounds }

func (h *manualHost) Subscribe(sink func(Event)) func() {
	h.sink = sink
	h.subs++
	return func() {
		h.sink = nil
		h.subs--
	}
}

func (h *manualHost) RequestFrame(fn FrameFunc) FrameID {
	h.next++
	h.pending[h.next] = fn
	return h.next
}

func (h *manualHost) CancelFrame(id FrameID) {
	delete(h.pending, id)
}

// fire runs every pending request at now and returns how many ran.
func (h *manualHost) fire(now time.Time) int {
	pending := h.pending
	h.pending = make(map[FrameID]FrameFunc)
	for _, fn := range pending {
		fn(now)
	}
	return len(pending)
}

// emit delivers an event through the subscription, as a real host would.
func (h *manualHost) emit(ev Event) {
	if h.sink != nil {
		h.sink(ev)
	}
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
