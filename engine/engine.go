// Package engine drives ambient animations: it owns the frame lifecycle,
// feeds host input to the simulation and renders every effect onto the
// host surface once per accepted frame.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
)

// nominalStep is the step of the first frame after start or resume.
const nominalStep = time.Second / 60

// Engine animates one or more effects on a host surface.
type Engine struct {
	mu sync.Mutex

	host        Host
	surface     renderer.Surface // nil when the host could not mount one
	unsubscribe func()
	frameID     FrameID
	armed       bool

	cfg     *config.Config
	logger  *slog.Logger
	rng     *rand.Rand
	now     func() time.Time
	effects []Effect
	names   []string
	class   config.DeviceClass
	fpsCap  float64 // < 0 = from effects

	sched    *Scheduler
	input    *InputAdapter
	adaptive *Adaptive
	inbox    *inbox
	pointer  components.Pointer

	// Telemetry
	fps           *telemetry.FPSMeter
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	metrics       *telemetry.Metrics
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	frames       int64
	links        int
	degradations int
}

// Option configures an engine.
type Option func(*Engine)

// WithConfig sets the configuration. Defaults to config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSeed seeds particle generation.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithEffectNames selects effects by name: hero, network or ocean.
// They are drawn in the given order.
func WithEffectNames(names ...string) Option {
	return func(e *Engine) { e.names = append(e.names, names...) }
}

// WithEffects adds prebuilt effects after any named ones.
func WithEffects(effects ...Effect) Option {
	return func(e *Engine) { e.effects = append(e.effects, effects...) }
}

// WithFPSCap overrides the effects' frame-rate cap. 0 renders every frame.
func WithFPSCap(fps float64) Option {
	return func(e *Engine) { e.fpsCap = fps }
}

// WithClock sets the wall clock used for perf timing and unstamped events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics records into m instead of a private metric set.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithOutput writes window, perf and bookmark CSVs through om. The caller closes it.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(e *Engine) { e.output = om }
}

// WithLogStats logs every stats window.
func WithLogStats(on bool) Option {
	return func(e *Engine) { e.logStats = on }
}

// WithStatsCallback is called with every flushed stats window.
func WithStatsCallback(fn func(telemetry.WindowStats)) Option {
	return func(e *Engine) { e.statsCallback = fn }
}

// EffectNames maps an effect mode to the effects it draws, back to front.
func EffectNames(mode string) ([]string, error) {
	switch strings.ToLower(mode) {
	case "field", "hero", "":
		return []string{"hero"}, nil
	case "network":
		return []string{"network"}, nil
	case "ocean":
		return []string{"ocean"}, nil
	case "both":
		return []string{"ocean", "network"}, nil
	}
	return nil, fmt.Errorf("unknown effect %q (want field, network, ocean or both)", mode)
}

// NewEffect builds a named effect.
func NewEffect(name string, cfg *config.Config, rng *rand.Rand) (Effect, error) {
	if name == "ocean" {
		return NewOceanEffect(cfg.Ocean, cfg.Adaptive), nil
	}
	preset, err := cfg.Preset(name)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", name, err)
	}
	return NewFieldEffect(name, preset, cfg.Adaptive, rng), nil
}

// New creates an engine on host. It never fails: when the host cannot
// provide a surface the engine is inert and Start does nothing.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:   host,
		fpsCap: -1,
		inbox:  newInbox(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cfg == nil {
		e.cfg = config.Default()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.metrics == nil {
		e.metrics = telemetry.NewMetrics()
	}

	named := make([]Effect, 0, len(e.names))
	for _, name := range e.names {
		eff, err := NewEffect(name, e.cfg, e.rng)
		if err != nil {
			e.logger.Error("skipping effect", "error", err)
			continue
		}
		named = append(named, eff)
	}
	e.effects = append(named, e.effects...)
	if len(e.effects) == 0 {
		e.effects = []Effect{NewFieldEffect("hero", e.cfg.Fields.Hero, e.cfg.Adaptive, e.rng)}
	}

	e.sched = NewSchedulerFromConfig(e.cfg, e.effectiveCap())
	e.input = NewInputAdapterFromConfig(e.cfg)
	e.adaptive = NewAdaptive(e.cfg.Adaptive)
	e.fps = telemetry.NewFPSMeter(e.cfg.Derived.AdaptiveWindow)
	e.perf = telemetry.NewPerfCollector(e.cfg.Telemetry.PerfCollectorWindow)
	e.perf.SetClock(e.now)
	e.collector = telemetry.NewCollector(e.cfg.Derived.StatsWindow)
	e.bookmarks = telemetry.NewBookmarkDetector(e.cfg.Telemetry.BookmarkHistory)

	if host == nil {
		e.logger.Debug("no host, engine inert")
		return e
	}
	surface, err := host.Mount()
	if err != nil {
		e.logger.Debug("surface unavailable, engine inert", "error", err)
		return e
	}
	e.surface = surface
	return e
}

// effectiveCap returns the override, or the lowest positive cap any effect asks for.
func (e *Engine) effectiveCap() float64 {
	if e.fpsCap >= 0 {
		return e.fpsCap
	}
	lowest := 0.0
	for _, eff := range e.effects {
		if c := eff.FPSCap(); c > 0 && (lowest == 0 || c < lowest) {
			lowest = c
		}
	}
	return lowest
}

// Inert reports whether the engine has no surface to draw on.
func (e *Engine) Inert() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface == nil
}

// Effects returns the effects in draw order.
func (e *Engine) Effects() []Effect {
	return e.effects
}

// Metrics returns the metric set the engine records into.
func (e *Engine) Metrics() *telemetry.Metrics {
	return e.metrics
}

// Start generates the effects for the current bounds, subscribes to host
// events and requests the first frame. Starting an inert engine does nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.sched.State()
	if state == StateStopped {
		return fmt.Errorf("start: %w", ErrStopped)
	}
	if e.surface == nil || state != StateIdle {
		return nil
	}
	if err := e.sched.Transition(StateRunning); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	e.regenerate(e.host.Bounds())
	e.unsubscribe = e.host.Subscribe(e.Post)
	e.collector.Begin(e.now())
	e.arm()

	e.logger.Info("engine started",
		"effects", e.effectName(),
		"particles", e.particles(),
		"class", e.class.String(),
		"fps_cap", e.effectiveCap(),
	)
	return nil
}

// Pause cancels the pending frame. Pausing a paused engine is a no-op.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pause()
}

func (e *Engine) pause() error {
	if e.sched.State() == StatePaused {
		return nil
	}
	if err := e.sched.Transition(StatePaused); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	e.disarm()
	e.logger.Info("engine paused", "frame", e.frames)
	return nil
}

// Resume re-arms the frame loop after Pause. The first frame after resuming
// advances by one nominal step however long the pause lasted.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resume()
}

func (e *Engine) resume() error {
	switch e.sched.State() {
	case StateRunning:
		return nil
	case StatePaused:
	default:
		return fmt.Errorf("resume: %w: %s -> %s", ErrInvalidTransition, e.sched.State(), StateRunning)
	}
	if err := e.sched.Transition(StateRunning); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	e.sched.Rebase()
	// A zero start makes the next frame open a fresh window
	e.fps.Rebase(time.Time{})
	e.arm()
	e.logger.Info("engine resumed", "frame", e.frames)
	return nil
}

// Stop tears the engine down: the frame request is cancelled, host events
// unsubscribed and the surface released. Stop is idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sched.State() == StateStopped {
		return
	}
	e.disarm()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.surface != nil {
		e.surface.Release()
		e.surface = nil
		e.host.Unmount()
	}
	_ = e.sched.Transition(StateStopped)

	e.logger.Info("engine stopped",
		"frames", e.frames,
		"skipped", e.sched.Skipped(),
		"degradations", e.degradations,
	)
}

// Dispose stops the engine and drops its simulation state.
func (e *Engine) Dispose() {
	e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if n := e.inbox.reset(); n > 0 {
		e.logger.Debug("events dropped on overflow", "count", n)
	}
	for _, eff := range e.effects {
		eff.Resize(0, 0, e.class)
	}
}

// Post queues a host event for the next frame. It is safe to call from any
// goroutine but not from inside a frame callback. Visibility changes pause
// or resume immediately.
func (e *Engine) Post(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = e.now()
	}
	if ev.Kind != EventVisibility {
		e.inbox.push(ev)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if ev.Hidden {
		err = e.pause()
	} else {
		err = e.resume()
	}
	if err != nil {
		e.logger.Debug("visibility change ignored", "hidden", ev.Hidden, "error", err)
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.State()
}

func (e *Engine) arm() {
	e.frameID = e.host.RequestFrame(e.frame)
	e.armed = true
}

func (e *Engine) disarm() {
	if e.armed {
		e.host.CancelFrame(e.frameID)
		e.armed = false
	}
}

// regenerate rebuilds every effect for a container rectangle.
func (e *Engine) regenerate(r Rect) {
	e.input.SetContainer(r)
	e.class = e.cfg.Screen.ClassFor(r.W)
	for _, eff := range e.effects {
		eff.Resize(r.W, r.H, e.class)
		e.metrics.Particles.WithLabelValues(eff.Name()).Set(float64(eff.Len()))
	}
	e.metrics.Regenerations.Inc()
	e.logger.Debug("effects regenerated",
		"width", r.W,
		"height", r.H,
		"class", e.class.String(),
		"particles", e.particles(),
	)
}

func (e *Engine) effectName() string {
	names := make([]string, len(e.effects))
	for i, eff := range e.effects {
		names[i] = eff.Name()
	}
	return strings.Join(names, "+")
}

func (e *Engine) particles() int {
	n := 0
	for _, eff := range e.effects {
		n += eff.Len()
	}
	return n
}
