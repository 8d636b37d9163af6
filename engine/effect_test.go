package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
)

func TestFieldDegradeMonotonic(t *testing.T) {
	cfg := config.Default()
	f := NewFieldEffect("hero", cfg.Fields.Hero, cfg.Adaptive, rand.New(rand.NewSource(1)))
	f.Resize(1280, 720, config.DeviceRegular)

	prevCount := f.Len()
	prevWave := f.Config().WaveAmplitude
	for i := 0; i < 20; i++ {
		f.Degrade()
		if f.Len() > prevCount {
			t.Fatalf("step %d: count grew %d -> %d", i, prevCount, f.Len())
		}
		if w := f.Config().WaveAmplitude; w > prevWave {
			t.Fatalf("step %d: wave grew %v -> %v", i, prevWave, w)
		}
		prevCount, prevWave = f.Len(), f.Config().WaveAmplitude
	}
	if got := f.Len(); got != cfg.Fields.Hero.MinCount {
		t.Errorf("count = %d, want floor %d", got, cfg.Fields.Hero.MinCount)
	}

	// The cap survives regeneration
	f.Resize(1920, 1080, config.DeviceRegular)
	if got := f.Len(); got != cfg.Fields.Hero.MinCount {
		t.Errorf("count after resize = %d, want %d", got, cfg.Fields.Hero.MinCount)
	}
}

func TestFieldDegradeStep(t *testing.T) {
	cfg := config.Default()
	f := NewFieldEffect("hero", cfg.Fields.Hero, cfg.Adaptive, rand.New(rand.NewSource(1)))
	f.Resize(400, 300, config.DeviceCompact)

	if !f.Degrade() {
		t.Fatal("Degrade reported no change")
	}
	if got, want := f.Len(), 96; got != want { // 120 * 0.8
		t.Errorf("count = %d, want %d", got, want)
	}
	want := cfg.Fields.Hero.WaveAmplitude * cfg.Adaptive.FieldWaveFactor
	if got := f.Config().WaveAmplitude; got != want {
		t.Errorf("wave = %v, want %v", got, want)
	}
}

func TestFieldLowPower(t *testing.T) {
	cfg := config.Default()
	f := NewFieldEffect("hero", cfg.Fields.Hero, cfg.Adaptive, rand.New(rand.NewSource(1)))
	f.Resize(1280, 720, config.DeviceRegular)
	before := f.Len()

	if !f.LowPower() {
		t.Fatal("first LowPower reported no change")
	}
	if got := f.Len(); got > before/2 {
		t.Errorf("count = %d, want <= %d", got, before/2)
	}
	if f.LowPower() {
		t.Error("second LowPower reported a change")
	}
}

func TestOceanDegrade(t *testing.T) {
	cfg := config.Default()
	o := NewOceanEffect(cfg.Ocean, cfg.Adaptive)
	o.Resize(1280, 720, config.DeviceRegular)

	if got := o.Len(); got != cfg.Ocean.Count {
		t.Fatalf("generated %d vertices, want %d", got, cfg.Ocean.Count)
	}

	o.Degrade()
	if got, want := o.Len(), cfg.Ocean.Count-cfg.Ocean.DegradeCountStep; got != want {
		t.Errorf("count = %d, want %d", got, want)
	}
	if got, want := o.Config().WaveSize, cfg.Ocean.WaveSize-cfg.Ocean.DegradeWaveStep; got != want {
		t.Errorf("wave = %v, want %v", got, want)
	}

	for i := 0; i < 50; i++ {
		o.Degrade()
	}
	if got := o.Len(); got != cfg.Ocean.MinCount {
		t.Errorf("count = %d, want floor %d", got, cfg.Ocean.MinCount)
	}
	if got := o.Config().WaveSize; got != cfg.Ocean.MinWaveSize {
		t.Errorf("wave = %v, want floor %v", got, cfg.Ocean.MinWaveSize)
	}
	if o.Degrade() {
		t.Error("Degrade at the floor reported a change")
	}
}

func TestOceanLowPower(t *testing.T) {
	cfg := config.Default()
	o := NewOceanEffect(cfg.Ocean, cfg.Adaptive)
	o.Resize(1280, 720, config.DeviceRegular)
	o.LowPower()

	if got := o.Len(); got > cfg.Adaptive.LowPowerOceanCount {
		t.Errorf("count = %d, want <= %d", got, cfg.Adaptive.LowPowerOceanCount)
	}
	if got := o.Config().WaveSize; got > cfg.Adaptive.LowPowerOceanWave {
		t.Errorf("wave = %v, want <= %v", got, cfg.Adaptive.LowPowerOceanWave)
	}

	// Regenerating keeps the clamp
	o.Resize(1280, 720, config.DeviceRegular)
	if got := o.Len(); got > cfg.Adaptive.LowPowerOceanCount {
		t.Errorf("count after resize = %d", got)
	}
}

func TestOceanCompactClass(t *testing.T) {
	cfg := config.Default()
	o := NewOceanEffect(cfg.Ocean, cfg.Adaptive)
	o.Resize(400, 700, config.DeviceCompact)

	if got := o.Len(); got != cfg.Ocean.CountCompact {
		t.Errorf("count = %d, want %d", got, cfg.Ocean.CountCompact)
	}
	if got := o.Config().Spacing; got != cfg.Ocean.SpacingCompact {
		t.Errorf("spacing = %v, want %v", got, cfg.Ocean.SpacingCompact)
	}
}

func TestOceanStepAndRender(t *testing.T) {
	cfg := config.Default()
	o := NewOceanEffect(cfg.Ocean, cfg.Adaptive)
	o.Resize(1280, 720, config.DeviceRegular)

	o.Step(components.Absent, time.Second/60)
	rec := renderer.NewRecorder(1280, 720)
	if links := o.Render(rec); links != 0 {
		t.Errorf("links = %d, want 0 with connections disabled", links)
	}
	if rec.Count(renderer.OpCircle) == 0 {
		t.Error("no points drawn")
	}
}

func TestEffectsEmptySurface(t *testing.T) {
	cfg := config.Default()
	effects := []Effect{
		NewFieldEffect("network", cfg.Fields.Network, cfg.Adaptive, rand.New(rand.NewSource(1))),
		NewOceanEffect(cfg.Ocean, cfg.Adaptive),
	}
	for _, eff := range effects {
		eff.Resize(0, 0, config.DeviceCompact)
		if eff.Len() != 0 {
			t.Errorf("%s: %d points on an empty surface", eff.Name(), eff.Len())
		}
		eff.Step(components.Absent, time.Second/60)
		eff.Index()
		if links := eff.Render(renderer.NewRecorder(0, 0)); links != 0 {
			t.Errorf("%s: %d links on an empty surface", eff.Name(), links)
		}
	}
}
