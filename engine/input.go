package engine

import (
	"math"
	"time"

	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// InputAdapter normalises raw host events for the simulation:
// pointer moves are throttled, resizes debounced and positions
// translated into surface coordinates.
type InputAdapter struct {
	limiter   *rate.Limiter
	debounce  time.Duration
	threshold float64

	container Rect

	pending   bool
	pendingAt time.Time
	size      r2.Vec
}

// NewInputAdapter creates an adapter with the given timing.
// A zero throttle lets every pointer move through.
func NewInputAdapter(throttle, debounce time.Duration, threshold float64) *InputAdapter {
	limit := rate.Inf
	if throttle > 0 {
		limit = rate.Every(throttle)
	}
	return &InputAdapter{
		limiter:   rate.NewLimiter(limit, 1),
		debounce:  debounce,
		threshold: threshold,
	}
}

// NewInputAdapterFromConfig creates an adapter from the input section.
func NewInputAdapterFromConfig(cfg *config.Config) *InputAdapter {
	return NewInputAdapter(cfg.Derived.PointerThrottle, cfg.Derived.ResizeDebounce, cfg.Input.ResizeThreshold)
}

// SetContainer records the container rectangle events are relative to.
func (a *InputAdapter) SetContainer(r Rect) {
	a.container = r
}

// Container returns the current container rectangle.
func (a *InputAdapter) Container() Rect {
	return a.container
}

// Pointer converts a pointer event into the new pointer state.
// ok is false when the event must be ignored: unknown bounds, or a move
// arriving within the throttle interval of the last accepted one.
func (a *InputAdapter) Pointer(ev Event) (ptr components.Pointer, ok bool) {
	switch ev.Kind {
	case EventPointerLeave:
		return components.Absent, true
	case EventPointerMove:
	default:
		return components.Pointer{}, false
	}

	if a.container.Empty() {
		return components.Pointer{}, false
	}
	if !a.limiter.AllowN(ev.Time, 1) {
		return components.Pointer{}, false
	}
	return components.Pointer{
		Pos:     r2.Sub(ev.Pos, a.container.Origin()),
		Present: true,
	}, true
}

// Resize notes a container size change. Bursts collapse into the last size.
func (a *InputAdapter) Resize(size r2.Vec, at time.Time) {
	a.pending = true
	a.pendingAt = at
	a.size = size
}

// PollResize returns the settled size once the debounce interval has passed
// since the last resize. Changes below the threshold are swallowed.
func (a *InputAdapter) PollResize(now time.Time) (r2.Vec, bool) {
	if !a.pending || now.Sub(a.pendingAt) < a.debounce {
		return r2.Vec{}, false
	}
	a.pending = false

	dw := math.Abs(a.size.X - a.container.W)
	dh := math.Abs(a.size.Y - a.container.H)
	if dw < a.threshold && dh < a.threshold {
		return r2.Vec{}, false
	}
	return a.size, true
}

// Pending reports whether a resize is waiting for its debounce to expire.
func (a *InputAdapter) Pending() bool {
	return a.pending
}
