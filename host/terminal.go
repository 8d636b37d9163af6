package host

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/renderer"
)

// Terminal hosts an engine on a tcell screen. Each cell is one pixel wide
// and two tall. Events may be dispatched from the polling goroutine while
// frames run on the main loop.
type Terminal struct {
	screen tcell.Screen
	sinks  sinks

	mu      sync.Mutex // Guards frames
	frames  frameQueue
	surface *renderer.TerminalSurface
}

// NewTerminal creates a host on an initialised screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (h *Terminal) Mount() (renderer.Surface, error) {
	s, err := renderer.NewTerminalSurface(h.screen)
	if err != nil {
		return nil, fmt.Errorf("mount terminal: %w", err)
	}
	h.surface = s
	return s, nil
}

func (h *Terminal) Unmount() {
	h.surface = nil
	if h.screen != nil {
		h.screen.Clear()
		h.screen.Show()
	}
}

func (h *Terminal) Bounds() engine.Rect {
	if h.screen == nil {
		return engine.Rect{}
	}
	w, rows := h.screen.Size()
	return engine.Rect{W: float64(w), H: float64(rows * 2)}
}

func (h *Terminal) Subscribe(sink func(engine.Event)) func() {
	return h.sinks.subscribe(sink)
}

func (h *Terminal) RequestFrame(fn engine.FrameFunc) engine.FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames.request(fn)
}

func (h *Terminal) CancelFrame(id engine.FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames.cancel(id)
}

// Frame runs the pending frame callbacks.
func (h *Terminal) Frame(now time.Time) int {
	h.mu.Lock()
	pending := h.frames.pending
	h.frames.pending = nil
	h.mu.Unlock()

	for _, r := range pending {
		r.fn(now)
	}
	return len(pending)
}

// Dispatch translates a tcell event into engine events.
// It returns false when the event asks to quit.
func (h *Terminal) Dispatch(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'l' {
			h.sinks.emit(engine.LowPower(ev.When()))
		}

	case *tcell.EventResize:
		w, rows := ev.Size()
		h.sinks.emit(engine.Resize(ev.When(), float64(w), float64(rows*2)))

	case *tcell.EventMouse:
		x, y := ev.Position()
		h.sinks.emit(engine.PointerMove(ev.When(), float64(x), float64(y*2+1)))

	case *tcell.EventFocus:
		h.sinks.emit(engine.Visibility(ev.When(), !ev.Focused))
	}
	return true
}
