// Package config provides configuration loading and access for the animation engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownPreset is returned when a field preset name is not defined.
var ErrUnknownPreset = errors.New("unknown field preset")

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fields    FieldPresets    `yaml:"fields"`
	Ocean     OceanConfig     `yaml:"ocean"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Input     InputConfig     `yaml:"input"`
	Adaptive  AdaptiveConfig  `yaml:"adaptive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the desktop host.
type ScreenConfig struct {
	Width             int `yaml:"width"`
	Height            int `yaml:"height"`
	TargetFPS         int `yaml:"target_fps"`
	CompactBreakpoint int `yaml:"compact_breakpoint"` // Widths below this are compact devices
}

// RGB is an opaque colour in 0-255 channels.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Boundary selects what happens to a particle that leaves the surface.
type Boundary string

const (
	BoundaryWrap   Boundary = "wrap"   // Teleport to the opposite edge
	BoundaryBounce Boundary = "bounce" // Reflect velocity and clamp
)

// FieldPresets holds the named ambient field variants.
type FieldPresets struct {
	Hero    FieldConfig `yaml:"hero"`
	Network FieldConfig `yaml:"network"`
}

// FieldConfig holds ambient particle field parameters.
// Count and ConnectionDistance are per device class until Resolve picks one.
type FieldConfig struct {
	Count        int     `yaml:"count"`
	CountCompact int     `yaml:"count_compact"`
	CountPerArea float64 `yaml:"count_per_area"` // Square pixels per particle (0 = fixed count)
	MaxCount     int     `yaml:"max_count"`      // Cap for area-based counts (0 = none)
	MinCount     int     `yaml:"min_count"`      // Adaptive degradation floor

	ConnectionDistance        float64 `yaml:"connection_distance"`
	ConnectionDistanceCompact float64 `yaml:"connection_distance_compact"`
	ConnectionOpacity         float64 `yaml:"connection_opacity"`
	MinLinkAlpha              float64 `yaml:"min_link_alpha"` // Links at or below this alpha are skipped
	LineWidth                 float64 `yaml:"line_width"`
	LinkColor                 RGB     `yaml:"link_color"`

	PointerRadius float64  `yaml:"pointer_radius"`
	PointerForce  float64  `yaml:"pointer_force"` // Displacement per nominal tick at distance 0
	Boundary      Boundary `yaml:"boundary"`

	WaveAmplitude float64 `yaml:"wave_amplitude"` // Vertical displacement per nominal tick
	WaveFrequency float64 `yaml:"wave_frequency"` // Radians per pixel of x
	WaveSpeed     float64 `yaml:"wave_speed"`     // Radians per second

	SizeMin    float64 `yaml:"size_min"`
	SizeMax    float64 `yaml:"size_max"`
	Speed      float64 `yaml:"speed"` // Velocity range per axis is [-Speed/2, Speed/2)
	HueMin     float64 `yaml:"hue_min"`
	HueMax     float64 `yaml:"hue_max"`
	OpacityMin float64 `yaml:"opacity_min"`
	OpacityMax float64 `yaml:"opacity_max"`

	Glow       bool    `yaml:"glow"`       // Emphasis glow around connected particles
	Background bool    `yaml:"background"` // Gradient wash instead of a plain clear
	FPSCap     float64 `yaml:"fps_cap"`    // 0 = every frame
}

// OceanConfig holds perspective ocean grid parameters.
type OceanConfig struct {
	Count             int     `yaml:"count"`
	CountCompact      int     `yaml:"count_compact"`
	VertexSize        float64 `yaml:"vertex_size"`
	VertexSizeCompact float64 `yaml:"vertex_size_compact"`
	Width             int     `yaml:"width"` // Lattice columns
	WidthCompact      int     `yaml:"width_compact"`
	Spacing           float64 `yaml:"spacing"` // World units between lattice points
	SpacingCompact    float64 `yaml:"spacing_compact"`

	Height      float64 `yaml:"height"` // Water plane y; positive sits below the eye
	WaveSize    float64 `yaml:"wave_size"`
	WavePeriod  float64 `yaml:"wave_period"`
	WaveLength  float64 `yaml:"wave_length"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
	Perspective float64 `yaml:"perspective"`
	Near        float64 `yaml:"near"`

	ConnectionDistance float64 `yaml:"connection_distance"`
	ConnectionOpacity  float64 `yaml:"connection_opacity"`
	Color              RGB     `yaml:"color"`
	FPSCap             float64 `yaml:"fps_cap"`

	MinCount         int     `yaml:"min_count"`
	MinWaveSize      float64 `yaml:"min_wave_size"`
	DegradeCountStep int     `yaml:"degrade_count_step"`
	DegradeWaveStep  float64 `yaml:"degrade_wave_step"`
}

// SchedulerConfig holds frame scheduling parameters.
type SchedulerConfig struct {
	FrameToleranceMS float64 `yaml:"frame_tolerance_ms"` // Early frames within this are accepted; 0 keeps one render per interval
	MaxStepMS        float64 `yaml:"max_step_ms"`        // Upper bound on simulated time per frame
}

// InputConfig holds pointer and resize normalisation parameters.
type InputConfig struct {
	PointerThrottleMS float64 `yaml:"pointer_throttle_ms"`
	ResizeDebounceMS  float64 `yaml:"resize_debounce_ms"`
	ResizeThreshold   float64 `yaml:"resize_threshold"`
}

// AdaptiveConfig holds quality degradation parameters.
type AdaptiveConfig struct {
	Enabled             bool    `yaml:"enabled"`
	AllDevices          bool    `yaml:"all_devices"` // Degrade regular devices too
	MinFPS              float64 `yaml:"min_fps"`
	CapSlack            float64 `yaml:"cap_slack"` // Share of a capped rate lost to vsync beat before degrading
	WindowSec           float64 `yaml:"window_sec"`
	FieldCountFactor    float64 `yaml:"field_count_factor"`
	FieldWaveFactor     float64 `yaml:"field_wave_factor"`
	LowPowerOceanCount  int     `yaml:"low_power_ocean_count"`
	LowPowerOceanWave   float64 `yaml:"low_power_ocean_wave"`
	LowPowerFieldFactor float64 `yaml:"low_power_field_factor"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	BookmarkHistory     int     `yaml:"bookmark_history"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameTolerance  time.Duration
	MaxStep         time.Duration
	PointerThrottle time.Duration
	ResizeDebounce  time.Duration
	AdaptiveWindow  time.Duration
	StatsWindow     time.Duration
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	for name, f := range map[string]FieldConfig{"hero": c.Fields.Hero, "network": c.Fields.Network} {
		switch f.Boundary {
		case BoundaryWrap, BoundaryBounce:
		default:
			return fmt.Errorf("fields.%s.boundary: unsupported policy %q", name, f.Boundary)
		}
		if f.ConnectionDistance < 0 || f.ConnectionDistanceCompact < 0 {
			return fmt.Errorf("fields.%s: connection distance must not be negative", name)
		}
		if f.SizeMax < f.SizeMin || f.HueMax < f.HueMin || f.OpacityMax < f.OpacityMin {
			return fmt.Errorf("fields.%s: range maximum below minimum", name)
		}
	}
	if c.Ocean.Perspective <= 0 {
		return fmt.Errorf("ocean.perspective must be positive, got %v", c.Ocean.Perspective)
	}
	if c.Ocean.WavePeriod <= 0 || c.Ocean.WaveLength <= 0 {
		return fmt.Errorf("ocean: wave period and length must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameTolerance = millis(c.Scheduler.FrameToleranceMS)
	c.Derived.MaxStep = millis(c.Scheduler.MaxStepMS)
	c.Derived.PointerThrottle = millis(c.Input.PointerThrottleMS)
	c.Derived.ResizeDebounce = millis(c.Input.ResizeDebounceMS)
	c.Derived.AdaptiveWindow = time.Duration(c.Adaptive.WindowSec * float64(time.Second))
	if c.Derived.AdaptiveWindow <= 0 {
		c.Derived.AdaptiveWindow = time.Second
	}
	c.Derived.StatsWindow = time.Duration(c.Telemetry.StatsWindow * float64(time.Second))
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Preset returns the named field preset.
func (c *Config) Preset(name string) (FieldConfig, error) {
	switch name {
	case "hero", "":
		return c.Fields.Hero, nil
	case "network":
		return c.Fields.Network, nil
	}
	return FieldConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// SetPreset replaces the named field preset.
func (c *Config) SetPreset(name string, f FieldConfig) error {
	switch name {
	case "hero", "":
		c.Fields.Hero = f
	case "network":
		c.Fields.Network = f
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return nil
}

// DeviceClass buckets viewports by width.
type DeviceClass uint8

const (
	DeviceRegular DeviceClass = iota
	DeviceCompact
)

func (d DeviceClass) String() string {
	if d == DeviceCompact {
		return "compact"
	}
	return "regular"
}

// ClassFor returns the device class of a viewport width.
func (s ScreenConfig) ClassFor(width float64) DeviceClass {
	if width < float64(s.CompactBreakpoint) {
		return DeviceCompact
	}
	return DeviceRegular
}

// Resolve returns a copy with Count and ConnectionDistance fixed for a viewport.
func (f FieldConfig) Resolve(width, height float64, class DeviceClass) FieldConfig {
	out := f
	out.Count = f.CountFor(width, height, class)
	if class == DeviceCompact {
		out.ConnectionDistance = f.ConnectionDistanceCompact
	}
	out.CountCompact = out.Count
	out.ConnectionDistanceCompact = out.ConnectionDistance
	return out
}

// CountFor returns the particle count for a viewport.
// Area-based counts use one particle per CountPerArea square pixels.
func (f FieldConfig) CountFor(width, height float64, class DeviceClass) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	if f.CountPerArea > 0 {
		n := int(math.Floor(width * height / f.CountPerArea))
		if f.MaxCount > 0 && n > f.MaxCount {
			n = f.MaxCount
		}
		return n
	}
	if class == DeviceCompact {
		return f.CountCompact
	}
	return f.Count
}

// Resolve returns a copy with the device-class variants applied.
func (o OceanConfig) Resolve(class DeviceClass) OceanConfig {
	out := o
	if class == DeviceCompact {
		out.Count = o.CountCompact
		out.VertexSize = o.VertexSizeCompact
		out.Width = o.WidthCompact
		out.Spacing = o.SpacingCompact
	}
	out.CountCompact = out.Count
	out.VertexSizeCompact = out.VertexSize
	out.WidthCompact = out.Width
	out.SpacingCompact = out.Spacing
	return out
}

// Depth returns the extent of the lattice along z.
func (o OceanConfig) Depth() float64 {
	if o.Width <= 0 {
		return 0
	}
	return float64(o.Count/o.Width) * o.Spacing
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
