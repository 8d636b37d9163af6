package telemetry

import (
	"time"
)

// FPSMeter counts rendered frames in fixed wall-clock windows.
type FPSMeter struct {
	window  time.Duration
	start   time.Time
	frames  int
	last    float64
	history []float64 // Closed windows since the last Drain
}

// NewFPSMeter creates a meter with the given window length (1s when zero).
func NewFPSMeter(window time.Duration) *FPSMeter {
	if window <= 0 {
		window = time.Second
	}
	return &FPSMeter{window: window}
}

// Frame records a rendered frame at now. The first frame only opens a window.
// When the window has elapsed it is closed and its rate returned with ok set.
func (m *FPSMeter) Frame(now time.Time) (fps float64, ok bool) {
	if m.start.IsZero() {
		m.start = now
		return 0, false
	}
	m.frames++

	elapsed := now.Sub(m.start)
	if elapsed < m.window {
		return 0, false
	}
	fps = float64(m.frames) * float64(time.Second) / float64(elapsed)
	m.last = fps
	m.history = append(m.history, fps)
	m.frames = 0
	m.start = now
	return fps, true
}

// Rebase restarts the current window at now, discarding its partial count.
// Used after a pause so hidden time does not read as a slow window.
func (m *FPSMeter) Rebase(now time.Time) {
	m.start = now
	m.frames = 0
}

// Reset forgets all windows.
func (m *FPSMeter) Reset() {
	*m = FPSMeter{window: m.window}
}

// Last returns the rate of the most recently closed window.
func (m *FPSMeter) Last() float64 {
	return m.last
}

// Drain returns the closed window rates and clears them.
func (m *FPSMeter) Drain() []float64 {
	h := m.history
	m.history = nil
	return h
}
