package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Fields.Hero.Boundary != BoundaryWrap {
		t.Errorf("hero boundary = %q, want wrap", cfg.Fields.Hero.Boundary)
	}
	if cfg.Fields.Network.Boundary != BoundaryBounce {
		t.Errorf("network boundary = %q, want bounce", cfg.Fields.Network.Boundary)
	}
	if cfg.Fields.Hero.FPSCap != 30 {
		t.Errorf("hero fps cap = %v, want 30", cfg.Fields.Hero.FPSCap)
	}
	if cfg.Derived.PointerThrottle != 50*time.Millisecond {
		t.Errorf("pointer throttle = %v, want 50ms", cfg.Derived.PointerThrottle)
	}
	if cfg.Derived.ResizeDebounce != 250*time.Millisecond {
		t.Errorf("resize debounce = %v, want 250ms", cfg.Derived.ResizeDebounce)
	}
	if cfg.Derived.AdaptiveWindow != time.Second {
		t.Errorf("adaptive window = %v, want 1s", cfg.Derived.AdaptiveWindow)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	data := []byte("fields:\n  hero:\n    count: 42\nocean:\n  wave_size: 4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Fields.Hero.Count != 42 {
		t.Errorf("hero count = %d, want 42", cfg.Fields.Hero.Count)
	}
	// Untouched sibling fields keep their defaults
	if cfg.Fields.Hero.CountCompact != 120 {
		t.Errorf("hero compact count = %d, want default 120", cfg.Fields.Hero.CountCompact)
	}
	if cfg.Ocean.WaveSize != 4 {
		t.Errorf("ocean wave size = %v, want 4", cfg.Ocean.WaveSize)
	}
	if cfg.Ocean.Perspective != 100 {
		t.Errorf("ocean perspective = %v, want default 100", cfg.Ocean.Perspective)
	}
}

func TestLoadRejectsUnknownBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("fields:\n  hero:\n    boundary: spiral\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown boundary policy")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPreset(t *testing.T) {
	cfg := Default()

	if _, err := cfg.Preset("network"); err != nil {
		t.Errorf("network preset: %v", err)
	}
	_, err := cfg.Preset("aurora")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestSetPreset(t *testing.T) {
	cfg := Default()

	hero := cfg.Fields.Hero
	hero.Count = 321
	if err := cfg.SetPreset("hero", hero); err != nil {
		t.Fatalf("SetPreset: %v", err)
	}
	got, _ := cfg.Preset("hero")
	if got.Count != 321 {
		t.Errorf("count = %d, want 321", got.Count)
	}
	if err := cfg.SetPreset("aurora", hero); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestFieldResolve(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name     string
		preset   FieldConfig
		w, h     float64
		wantN    int
		wantDist float64
	}{
		{"hero regular", cfg.Fields.Hero, 1280, 720, 180, 80},
		{"hero compact", cfg.Fields.Hero, 600, 900, 120, 60},
		{"network area capped", cfg.Fields.Network, 1280, 720, 100, 150},
		{"network small area", cfg.Fields.Network, 200, 200, 10, 150},
		{"zero width", cfg.Fields.Hero, 0, 720, 0, 80},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			class := cfg.Screen.ClassFor(tc.w)
			got := tc.preset.Resolve(tc.w, tc.h, class)
			if got.Count != tc.wantN {
				t.Errorf("count = %d, want %d", got.Count, tc.wantN)
			}
			if class == DeviceRegular && got.ConnectionDistance != tc.wantDist {
				t.Errorf("distance = %v, want %v", got.ConnectionDistance, tc.wantDist)
			}
		})
	}
}

func TestOceanResolve(t *testing.T) {
	cfg := Default()

	compact := cfg.Ocean.Resolve(DeviceCompact)
	if compact.Count != 3500 || compact.Width != 102 || compact.Spacing != 16 || compact.VertexSize != 2 {
		t.Errorf("unexpected compact ocean: %+v", compact)
	}

	regular := cfg.Ocean.Resolve(DeviceRegular)
	if regular.Count != 7000 || regular.Width != 204 || regular.Spacing != 32 {
		t.Errorf("unexpected regular ocean: %+v", regular)
	}
	// 7000/204 = 34 full rows
	if got := regular.Depth(); got != 34*32 {
		t.Errorf("depth = %v, want %v", got, 34*32)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Fields.Hero.Count = 77

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Fields.Hero.Count != 77 {
		t.Errorf("count = %d, want 77", loaded.Fields.Hero.Count)
	}
}
