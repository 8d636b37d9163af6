package engine

import (
	"time"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
)

// frame is the host frame callback. The next request is armed before any
// work so a frame skipped by the cap keeps the loop alive.
func (e *Engine) frame(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.armed = false
	if e.sched.State() != StateRunning || e.surface == nil {
		return
	}
	e.arm()

	dt, ok := e.sched.Admit(now, nominalStep)
	if !ok {
		e.applyEvents()
		e.collector.RecordSkip()
		e.metrics.FramesSkipped.Inc()
		return
	}

	e.perf.StartFrame()

	e.perf.StartPhase(telemetry.PhaseInput)
	e.applyEvents()
	if size, ok := e.input.PollResize(now); ok {
		r := e.host.Bounds()
		r.W, r.H = size.X, size.Y
		e.regenerate(r)
	}

	e.perf.StartPhase(telemetry.PhaseSimulate)
	for _, eff := range e.effects {
		eff.Step(e.pointer, dt)
	}

	e.perf.StartPhase(telemetry.PhaseIndex)
	for _, eff := range e.effects {
		eff.Index()
	}

	e.perf.StartPhase(telemetry.PhaseRender)
	e.surface.Clear(renderer.Black)
	links := 0
	for _, eff := range e.effects {
		links += eff.Render(e.surface)
	}

	e.perf.StartPhase(telemetry.PhasePresent)
	if p, ok := e.surface.(renderer.Presenter); ok {
		p.Present()
	}
	work := e.perf.EndFrame()

	e.frames++
	e.links = links
	e.collector.RecordFrame(work, links)
	e.metrics.ObserveFrame(work, links)

	if fps, ok := e.fps.Frame(now); ok {
		e.metrics.FPS.Set(fps)
		if e.adaptive.ShouldDegrade(fps, e.sched.Cap(), e.class) {
			e.degrade(fps)
		}
	}

	e.flushTelemetry(now)
}

// applyEvents drains the inbox into pointer state and pending resizes.
func (e *Engine) applyEvents() {
	for _, ev := range e.inbox.drain() {
		switch ev.Kind {
		case EventPointerMove, EventPointerLeave:
			if ptr, ok := e.input.Pointer(ev); ok {
				e.pointer = ptr
			}
		case EventResize:
			e.input.Resize(ev.Size, ev.Time)
		case EventLowPower:
			e.lowPower()
		}
	}
}

// degrade sheds quality after a slow window. Quality never comes back.
func (e *Engine) degrade(fps float64) {
	changed := false
	for _, eff := range e.effects {
		if eff.Degrade() {
			changed = true
		}
	}
	if !changed {
		return
	}
	e.recordDegrade(telemetry.ReasonLowFPS)
	e.logger.Info("quality degraded",
		"reason", telemetry.ReasonLowFPS,
		"fps", fps,
		"particles", e.particles(),
		"frame", e.frames,
	)
}

func (e *Engine) lowPower() {
	changed := false
	for _, eff := range e.effects {
		if eff.LowPower() {
			changed = true
		}
	}
	if !changed {
		return
	}
	e.recordDegrade(telemetry.ReasonLowPower)
	e.logger.Info("quality degraded",
		"reason", telemetry.ReasonLowPower,
		"particles", e.particles(),
	)
}

func (e *Engine) recordDegrade(reason string) {
	e.degradations++
	e.collector.RecordDegrade()
	e.metrics.Degradations.WithLabelValues(reason).Inc()
	for _, eff := range e.effects {
		e.metrics.Particles.WithLabelValues(eff.Name()).Set(float64(eff.Len()))
	}
}

// flushTelemetry closes the stats window when it has elapsed.
func (e *Engine) flushTelemetry(now time.Time) {
	if !e.collector.ShouldFlush(now) {
		return
	}

	stats := e.collector.Flush(now, e.frames, e.effectName(), e.particles(), e.fps.Drain())
	perfStats := e.perf.Stats()
	marks := e.bookmarks.Check(stats)

	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	if e.logStats {
		stats.LogStats(e.logger)
		e.logger.Info("perf", "frame", e.frames, "stats", perfStats)
		for _, m := range marks {
			m.LogBookmark(e.logger)
		}
	}

	if e.output != nil {
		if err := e.output.WriteWindow(stats); err != nil {
			e.logger.Error("failed to write window stats", "error", err)
		}
		if err := e.output.WritePerf(perfStats, e.frames); err != nil {
			e.logger.Error("failed to write perf", "error", err)
		}
		if err := e.output.WriteBookmarks(marks); err != nil {
			e.logger.Error("failed to write bookmarks", "error", err)
		}
	}
}

// Stats is a snapshot of the engine counters.
type Stats struct {
	State        State
	Inert        bool
	Class        config.DeviceClass
	Frames       int64 // Frames simulated and drawn
	Skipped      int64 // Frame callbacks dropped by the cap
	Particles    int
	Links        int // Connections drawn in the last frame
	FPS          float64
	FPSCap       float64 // 0 when every frame renders
	Degradations int
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		State:        e.sched.State(),
		Inert:        e.surface == nil,
		Class:        e.class,
		Frames:       e.frames,
		Skipped:      e.sched.Skipped(),
		Particles:    e.particles(),
		Links:        e.links,
		FPS:          e.fps.Last(),
		FPSCap:       e.sched.Cap(),
		Degradations: e.degradations,
	}
}

// Perf returns frame work timings over the perf collector window.
func (e *Engine) Perf() telemetry.PerfStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.perf.Stats()
}
