package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/backdrop/camera"
	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
)

// Effect is one animated layer. Effects are driven from the frame thread only.
type Effect interface {
	Name() string
	// FPSCap is the preferred frame-rate cap, 0 for every frame.
	FPSCap() float64
	// Resize regenerates the effect for a new surface size.
	Resize(w, h float64, class config.DeviceClass)
	Step(ptr components.Pointer, dt time.Duration)
	// Index prepares spatial lookups for the coming render.
	Index()
	// Render draws the current state and returns the connections drawn.
	Render(s renderer.Surface) int
	// Degrade sheds quality after a slow window. Returns false once nothing is left to shed.
	Degrade() bool
	// LowPower applies the low-power clamp. Returns false when it was already applied.
	LowPower() bool
	// Len returns the number of live points.
	Len() int
}

// FieldEffect animates a drifting particle field.
type FieldEffect struct {
	name     string
	preset   config.FieldConfig
	adaptive config.AdaptiveConfig
	cfg      config.FieldConfig // Resolved for the current surface

	rng       *rand.Rand
	bounds    systems.Bounds
	particles []components.Particle
	index     *systems.SpatialIndex
	draw      *renderer.FieldRenderer

	elapsed float64 // Simulated seconds

	countCap  int // 0 = uncapped
	waveScale float64
	lowPower  bool
}

// NewFieldEffect creates a field from a preset. Nothing is generated until Resize.
func NewFieldEffect(name string, preset config.FieldConfig, adaptive config.AdaptiveConfig, rng *rand.Rand) *FieldEffect {
	return &FieldEffect{
		name:      name,
		preset:    preset,
		adaptive:  adaptive,
		cfg:       preset,
		rng:       rng,
		index:     systems.NewSpatialIndex(),
		draw:      renderer.NewFieldRenderer(),
		waveScale: 1,
	}
}

func (f *FieldEffect) Name() string     { return f.name }
func (f *FieldEffect) FPSCap() float64  { return f.preset.FPSCap }
func (f *FieldEffect) Len() int         { return len(f.particles) }
func (f *FieldEffect) Elapsed() float64 { return f.elapsed }

// Config returns the resolved configuration in effect.
func (f *FieldEffect) Config() config.FieldConfig {
	return f.cfg
}

// Particles returns the live particles. Callers may edit them in place.
func (f *FieldEffect) Particles() []components.Particle {
	return f.particles
}

func (f *FieldEffect) Resize(w, h float64, class config.DeviceClass) {
	f.bounds = systems.Bounds{Width: w, Height: h}
	f.cfg = f.preset.Resolve(w, h, class)
	f.applyLimits()
	f.particles = systems.GenerateField(f.cfg, w, h, f.rng)
}

func (f *FieldEffect) applyLimits() {
	if f.countCap > 0 && f.cfg.Count > f.countCap {
		f.cfg.Count = f.countCap
	}
	f.cfg.WaveAmplitude = f.preset.WaveAmplitude * f.waveScale
}

func (f *FieldEffect) Step(ptr components.Pointer, dt time.Duration) {
	sec := dt.Seconds()
	f.elapsed += sec
	systems.Advance(f.particles, ptr, f.cfg, f.bounds, f.elapsed, sec)
}

func (f *FieldEffect) Index() {
	if f.cfg.ConnectionDistance > 0 {
		f.index.BuildParticles(f.particles, f.cfg.ConnectionDistance)
	}
}

func (f *FieldEffect) Render(s renderer.Surface) int {
	return f.draw.Render(s, f.particles, f.index, f.cfg)
}

func (f *FieldEffect) Degrade() bool {
	changed := f.limitCount(int(math.Floor(float64(f.cfg.Count) * f.adaptive.FieldCountFactor)))
	if f.cfg.WaveAmplitude != 0 && f.adaptive.FieldWaveFactor < 1 {
		f.waveScale *= f.adaptive.FieldWaveFactor
		f.cfg.WaveAmplitude = f.preset.WaveAmplitude * f.waveScale
		changed = true
	}
	return changed
}

func (f *FieldEffect) LowPower() bool {
	if f.lowPower {
		return false
	}
	f.lowPower = true
	f.limitCount(int(math.Floor(float64(f.cfg.Count) * f.adaptive.LowPowerFieldFactor)))
	return true
}

// limitCount lowers the particle count to n, never below the preset floor
// and never upwards. The surviving particles keep their state.
func (f *FieldEffect) limitCount(n int) bool {
	if n < f.preset.MinCount {
		n = f.preset.MinCount
	}
	if n >= f.cfg.Count {
		return false
	}
	f.cfg.Count = n
	f.countCap = n
	if len(f.particles) > n {
		f.particles = f.particles[:n]
	}
	return true
}

// OceanEffect animates the perspective ocean lattice.
type OceanEffect struct {
	base     config.OceanConfig
	adaptive config.AdaptiveConfig
	cfg      config.OceanConfig

	vertices []components.Vertex
	proj     *camera.Projector
	index    *systems.SpatialIndex
	draw     *renderer.OceanRenderer

	frame float64 // Nominal frames elapsed, fractional

	countCap int     // 0 = uncapped
	waveCap  float64 // 0 = uncapped
	lowPower bool
}

// NewOceanEffect creates an ocean. Nothing is generated until Resize.
func NewOceanEffect(base config.OceanConfig, adaptive config.AdaptiveConfig) *OceanEffect {
	return &OceanEffect{
		base:     base,
		adaptive: adaptive,
		cfg:      base,
		proj:     camera.New(0, 0, base.Perspective, base.Near),
		index:    systems.NewSpatialIndex(),
		draw:     renderer.NewOceanRenderer(),
	}
}

func (o *OceanEffect) Name() string    { return "ocean" }
func (o *OceanEffect) FPSCap() float64 { return o.base.FPSCap }
func (o *OceanEffect) Len() int        { return len(o.vertices) }

// Config returns the resolved configuration in effect.
func (o *OceanEffect) Config() config.OceanConfig {
	return o.cfg
}

// Vertices returns the live lattice.
func (o *OceanEffect) Vertices() []components.Vertex {
	return o.vertices
}

func (o *OceanEffect) Resize(w, h float64, class config.DeviceClass) {
	o.cfg = o.base.Resolve(class)
	if o.countCap > 0 && o.cfg.Count > o.countCap {
		o.cfg.Count = o.countCap
	}
	if o.waveCap > 0 && o.cfg.WaveSize > o.waveCap {
		o.cfg.WaveSize = o.waveCap
	}
	o.proj.Resize(w, h)

	if w <= 0 || h <= 0 {
		o.vertices = nil
		return
	}
	o.vertices = systems.GenerateOcean(o.cfg)
	systems.AdvanceOcean(o.vertices, o.cfg, o.frame)
}

func (o *OceanEffect) Step(_ components.Pointer, dt time.Duration) {
	o.frame += dt.Seconds() / systems.NominalTick
	systems.AdvanceOcean(o.vertices, o.cfg, o.frame)
}

// Index is a no-op: links join projected positions, indexed while rendering.
func (o *OceanEffect) Index() {}

func (o *OceanEffect) Render(s renderer.Surface) int {
	o.draw.Render(s, o.vertices, o.proj, o.index, o.cfg)
	return o.draw.Links()
}

func (o *OceanEffect) Degrade() bool {
	count := o.limitCount(o.cfg.Count - o.base.DegradeCountStep)
	wave := o.limitWave(o.cfg.WaveSize - o.base.DegradeWaveStep)
	return count || wave
}

func (o *OceanEffect) LowPower() bool {
	if o.lowPower {
		return false
	}
	o.lowPower = true
	if n := o.adaptive.LowPowerOceanCount; n > 0 && o.cfg.Count > n {
		o.setCount(n)
	}
	if w := o.adaptive.LowPowerOceanWave; w > 0 && o.cfg.WaveSize > w {
		o.waveCap = o.adaptive.LowPowerOceanWave
		o.cfg.WaveSize = o.waveCap
	}
	return true
}

func (o *OceanEffect) limitCount(n int) bool {
	if n < o.base.MinCount {
		n = o.base.MinCount
	}
	if n >= o.cfg.Count {
		return false
	}
	o.setCount(n)
	return true
}

func (o *OceanEffect) setCount(n int) {
	o.cfg.Count = n
	o.countCap = n
	if len(o.vertices) > n {
		o.vertices = o.vertices[:n]
	}
}

func (o *OceanEffect) limitWave(w float64) bool {
	if w < o.base.MinWaveSize {
		w = o.base.MinWaveSize
	}
	if w >= o.cfg.WaveSize {
		return false
	}
	o.cfg.WaveSize = w
	o.waveCap = w
	return true
}
