package engine

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/renderer"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameFunc is invoked by the host once per display refresh.
type FrameFunc func(now time.Time)

// Rect is the container rectangle in host coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Origin returns the top-left corner.
func (r Rect) Origin() r2.Vec {
	return r2.Vec{X: r.X, Y: r.Y}
}

// Host is the display environment an engine draws into.
// A window, a terminal or a test harness.
type Host interface {
	// Mount creates the drawing surface. It fails with renderer.ErrNoSurface
	// when the host has no place to draw.
	Mount() (renderer.Surface, error)
	// Unmount removes the surface from the host.
	Unmount()
	// Bounds returns the current container rectangle.
	Bounds() Rect
	// Subscribe delivers host events to sink until unsubscribe is called.
	Subscribe(sink func(Event)) (unsubscribe func())
	// RequestFrame schedules fn for the next refresh.
	RequestFrame(fn FrameFunc) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)
}

// EventKind discriminates host events.
type EventKind uint8

const (
	EventPointerMove EventKind = iota + 1
	EventPointerLeave
	EventResize
	EventVisibility
	EventLowPower
)

var eventNames = [...]string{
	EventPointerMove:  "pointer_move",
	EventPointerLeave: "pointer_leave",
	EventResize:       "resize",
	EventVisibility:   "visibility",
	EventLowPower:     "low_power",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a host notification. Touch moves arrive as EventPointerMove.
type Event struct {
	Kind EventKind
	Time time.Time

	Pos    r2.Vec // Pointer position in host coordinates
	Size   r2.Vec // New container size for EventResize
	Hidden bool   // EventVisibility: true when the surface is no longer shown
}

// PointerMove builds a pointer or touch move event.
func PointerMove(at time.Time, x, y float64) Event {
	return Event{Kind: EventPointerMove, Time: at, Pos: r2.Vec{X: x, Y: y}}
}

// PointerLeave builds a pointer leave event.
func PointerLeave(at time.Time) Event {
	return Event{Kind: EventPointerLeave, Time: at}
}

// Resize builds a container resize event.
func Resize(at time.Time, w, h float64) Event {
	return Event{Kind: EventResize, Time: at, Size: r2.Vec{X: w, Y: h}}
}

// Visibility builds a visibility change event.
func Visibility(at time.Time, hidden bool) Event {
	return Event{Kind: EventVisibility, Time: at, Hidden: hidden}
}

// LowPower builds a low-power signal.
func LowPower(at time.Time) Event {
	return Event{Kind: EventLowPower, Time: at}
}
