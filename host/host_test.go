package host

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/renderer"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFrameQueue(t *testing.T) {
	var q frameQueue
	var got []int

	q.request(func(time.Time) { got = append(got, 1) })
	id := q.request(func(time.Time) { got = append(got, 2) })
	q.request(func(time.Time) {
		got = append(got, 3)
		q.request(func(time.Time) { got = append(got, 4) })
	})
	q.cancel(id)
	q.cancel(999)

	if n := q.run(epoch); n != 2 {
		t.Errorf("first run fired %d, want 2", n)
	}
	if q.len() != 1 {
		t.Errorf("%d pending after first run, want 1", q.len())
	}
	if n := q.run(epoch); n != 1 {
		t.Errorf("second run fired %d, want 1", n)
	}

	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fired %v, want %v", got, want)
			break
		}
	}
}

func TestSinks(t *testing.T) {
	var s sinks
	var a, b int
	unsubA := s.subscribe(func(engine.Event) { a++ })
	s.subscribe(func(engine.Event) { b++ })

	s.emit(engine.LowPower(epoch))
	unsubA()
	unsubA()
	s.emit(engine.LowPower(epoch))

	if a != 1 || b != 2 {
		t.Errorf("deliveries a=%d b=%d, want 1 and 2", a, b)
	}
	if s.count() != 1 {
		t.Errorf("%d subscribers, want 1", s.count())
	}
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestTerminalBounds(t *testing.T) {
	h := NewTerminal(newSimScreen(t, 80, 25))
	if got, want := h.Bounds(), (engine.Rect{W: 80, H: 50}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if got := NewTerminal(nil).Bounds(); !got.Empty() {
		t.Errorf("nil screen bounds = %+v", got)
	}
}

func TestTerminalDispatch(t *testing.T) {
	h := NewTerminal(newSimScreen(t, 80, 25))
	var events []engine.Event
	unsub := h.Subscribe(func(ev engine.Event) { events = append(events, ev) })
	defer unsub()

	tests := []struct {
		name     string
		ev       tcell.Event
		wantKind engine.EventKind
		keepOpen bool
	}{
		{"resize", tcell.NewEventResize(100, 30), engine.EventResize, true},
		{"mouse", tcell.NewEventMouse(10, 4, tcell.ButtonNone, tcell.ModNone), engine.EventPointerMove, true},
		{"focus lost", tcell.NewEventFocus(false), engine.EventVisibility, true},
		{"low power key", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), engine.EventLowPower, true},
		{"quit", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		events = events[:0]
		if got := h.Dispatch(tt.ev); got != tt.keepOpen {
			t.Errorf("%s: Dispatch = %v, want %v", tt.name, got, tt.keepOpen)
		}
		if tt.wantKind == 0 {
			if len(events) != 0 {
				t.Errorf("%s: emitted %v", tt.name, events)
			}
			continue
		}
		if len(events) != 1 || events[0].Kind != tt.wantKind {
			t.Errorf("%s: emitted %v, want one %v", tt.name, events, tt.wantKind)
		}
	}
}

func TestTerminalEventCoordinates(t *testing.T) {
	h := NewTerminal(newSimScreen(t, 80, 25))
	var last engine.Event
	h.Subscribe(func(ev engine.Event) { last = ev })

	h.Dispatch(tcell.NewEventMouse(10, 4, tcell.ButtonNone, tcell.ModNone))
	if last.Pos.X != 10 || last.Pos.Y != 9 {
		t.Errorf("mouse at cell (10,4) -> %v, want (10,9)", last.Pos)
	}

	h.Dispatch(tcell.NewEventResize(100, 30))
	if last.Size.X != 100 || last.Size.Y != 60 {
		t.Errorf("resize to 100x30 cells -> %v, want 100x60", last.Size)
	}

	h.Dispatch(tcell.NewEventFocus(true))
	if last.Hidden {
		t.Error("focus gained reported hidden")
	}
}

func TestTerminalRunsEngine(t *testing.T) {
	screen := newSimScreen(t, 60, 20)
	h := NewTerminal(screen)

	e := engine.New(h,
		engine.WithConfig(config.Default()),
		engine.WithLogger(slog.New(slog.DiscardHandler)),
		engine.WithEffectNames("network"),
		engine.WithSeed(7),
		engine.WithFPSCap(0),
	)
	if e.Inert() {
		t.Fatal("engine inert on a simulation screen")
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if n := h.Frame(epoch.Add(time.Duration(i) * 16 * time.Millisecond)); n != 1 {
			t.Fatalf("frame %d fired %d callbacks, want 1", i, n)
		}
	}
	if got := e.Stats().Frames; got != 3 {
		t.Errorf("frames = %d, want 3", got)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != '▀' {
		t.Errorf("cell (0,0) = %q, want half block", r)
	}

	e.Stop()
	if h.sinks.count() != 0 {
		t.Errorf("%d subscribers after Stop", h.sinks.count())
	}
	if n := h.Frame(epoch.Add(time.Second)); n != 0 {
		t.Errorf("%d callbacks fired after Stop", n)
	}
}

func TestHeadlessRunsEngine(t *testing.T) {
	h := NewHeadless(400, 300)
	if h.Surface() != nil {
		t.Fatal("surface before Mount")
	}

	e := engine.New(h,
		engine.WithConfig(config.Default()),
		engine.WithLogger(slog.New(slog.DiscardHandler)),
		engine.WithEffectNames("network"),
		engine.WithSeed(3),
		engine.WithFPSCap(0),
	)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	end := h.Run(epoch, 16*time.Millisecond, 5)
	if want := epoch.Add(80 * time.Millisecond); !end.Equal(want) {
		t.Errorf("Run ended at %v, want %v", end, want)
	}
	if got := e.Stats().Frames; got != 5 {
		t.Errorf("frames = %d, want 5", got)
	}

	rec := h.Surface()
	if rec.Count(renderer.OpClear) == 0 {
		t.Error("last frame not recorded")
	}
	// Glowing particles draw a second disc
	if got, n := rec.Count(renderer.OpCircleGradient), e.Stats().Particles; n == 0 || got < n {
		t.Errorf("drew %d discs for %d particles", got, n)
	}

	e.Stop()
	if !rec.Released {
		t.Error("surface not released on Stop")
	}
}
