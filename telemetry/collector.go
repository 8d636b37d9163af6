package telemetry

import (
	"time"
)

// Collector accumulates frame events within wall-clock windows and produces WindowStats.
type Collector struct {
	window time.Duration
	start  time.Time
	origin time.Time

	windowStartFrame int64

	// Event counters for current window
	rendered     int
	skipped      int
	degradations int
	links        []float64
	frameMS      []float64
}

// NewCollector creates a new stats collector flushing every window.
func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Collector{window: window}
}

// Begin anchors the first window at now.
func (c *Collector) Begin(now time.Time) {
	c.start = now
	c.origin = now
}

// RecordFrame records a rendered frame, its work duration and the connections it drew.
func (c *Collector) RecordFrame(d time.Duration, links int) {
	c.rendered++
	c.links = append(c.links, float64(links))
	c.frameMS = append(c.frameMS, float64(d)/float64(time.Millisecond))
}

// RecordSkip records a frame invocation dropped by the frame-rate cap.
func (c *Collector) RecordSkip() {
	c.skipped++
}

// RecordDegrade records an adaptive quality reduction.
func (c *Collector) RecordDegrade() {
	c.degradations++
}

// ShouldFlush returns true if the current window has elapsed.
func (c *Collector) ShouldFlush(now time.Time) bool {
	return !c.start.IsZero() && now.Sub(c.start) >= c.window
}

// Flush produces a WindowStats and resets counters for the next window.
// fps holds the one-second rates closed during the window.
func (c *Collector) Flush(now time.Time, frame int64, effect string, particles int, fps []float64) WindowStats {
	links := Summarize(c.links)
	work := Summarize(c.frameMS)
	rate := Summarize(fps)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		ElapsedSec:       now.Sub(c.origin).Seconds(),
		Effect:           effect,
		Particles:        particles,
		FramesRendered:   c.rendered,
		FramesSkipped:    c.skipped,
		Degradations:     c.degradations,
		LinksMean:        links.Mean,
		LinksP50:         links.P50,
		LinksP90:         links.P90,
		FrameMSMean:      work.Mean,
		FrameMSP50:       work.P50,
		FrameMSP90:       work.P90,
		FPSMean:          rate.Mean,
		FPSStd:           rate.Std,
		FPSMin:           rate.Min,
	}

	c.start = now
	c.windowStartFrame = frame
	c.rendered = 0
	c.skipped = 0
	c.degradations = 0
	c.links = c.links[:0]
	c.frameMS = c.frameMS[:0]

	return stats
}
