// Field tuning tool - live preview with sliders.
//
// Usage: go run ./cmd/tune [-config path] [-preset network]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/host"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 340
)

// slider edits one float parameter of a field preset.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*config.FieldConfig) float64
	set      func(*config.FieldConfig, float64)
}

var sliders = []slider{
	{"Count", 10, 400, "%.0f",
		func(f *config.FieldConfig) float64 { return float64(f.Count) },
		func(f *config.FieldConfig, v float64) { f.Count, f.CountCompact, f.CountPerArea = int(v), int(v), 0 }},
	{"Connection distance", 0, 300, "%.0f",
		func(f *config.FieldConfig) float64 { return f.ConnectionDistance },
		func(f *config.FieldConfig, v float64) { f.ConnectionDistance, f.ConnectionDistanceCompact = v, v }},
	{"Connection opacity", 0, 1, "%.2f",
		func(f *config.FieldConfig) float64 { return f.ConnectionOpacity },
		func(f *config.FieldConfig, v float64) { f.ConnectionOpacity = v }},
	{"Pointer radius", 0, 300, "%.0f",
		func(f *config.FieldConfig) float64 { return f.PointerRadius },
		func(f *config.FieldConfig, v float64) { f.PointerRadius = v }},
	{"Pointer force", 0, 10, "%.1f",
		func(f *config.FieldConfig) float64 { return f.PointerForce },
		func(f *config.FieldConfig, v float64) { f.PointerForce = v }},
	{"Speed", 0, 5, "%.2f",
		func(f *config.FieldConfig) float64 { return f.Speed },
		func(f *config.FieldConfig, v float64) { f.Speed = v }},
	{"Wave amplitude", 0, 3, "%.2f",
		func(f *config.FieldConfig) float64 { return f.WaveAmplitude },
		func(f *config.FieldConfig, v float64) { f.WaveAmplitude = v }},
	{"Size max", 0.5, 10, "%.1f",
		func(f *config.FieldConfig) float64 { return f.SizeMax },
		func(f *config.FieldConfig, v float64) { f.SizeMax = max(v, f.SizeMin) }},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	presetName := flag.String("preset", "network", "Field preset to tune: hero or network")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	preset, err := cfg.Preset(*presetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	original := preset

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(windowWidth, windowHeight, "Backdrop Tuning")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	h := host.NewRaylib()

	build := func() *engine.Engine {
		eng := engine.New(h,
			engine.WithConfig(cfg),
			engine.WithLogger(logger),
			engine.WithEffects(engine.NewFieldEffect(*presetName, preset, cfg.Adaptive, rand.New(rand.NewSource(1)))),
		)
		if err := eng.Start(); err != nil {
			logger.Error("failed to start engine", "error", err)
		}
		return eng
	}

	needsRebuild := false
	h.Overlay = func() {
		if drawPanel(&preset, original, *presetName) {
			needsRebuild = true
		}
	}

	eng := build()
	for !rl.WindowShouldClose() {
		if needsRebuild {
			eng.Dispose()
			eng = build()
			needsRebuild = false
		}

		now := time.Now()
		h.Poll(now)
		h.Frame(now)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			if out, err := presetYAML(*presetName, preset); err == nil {
				rl.SetClipboardText(out)
			}
		}
	}
	eng.Dispose()
}

// drawPanel draws the controls and returns true when a parameter changed.
func drawPanel(preset *config.FieldConfig, original config.FieldConfig, name string) bool {
	changed := false
	panelX := float32(windowWidth - panelWidth)
	panelY := float32(10)

	rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+10, windowHeight, rl.Fade(rl.Black, 0.7))
	rl.DrawText(fmt.Sprintf("Field: %s", name), int32(panelX), int32(panelY), 20, rl.RayWhite)
	panelY += 35

	for _, s := range sliders {
		value := float32(s.get(preset))
		rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.LightGray)
		panelY += 18
		newValue := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 90), Height: 20},
			"", "",
			value, s.min, s.max,
		)
		rl.DrawText(fmt.Sprintf(s.format, value), int32(panelX+float32(panelWidth-80)), int32(panelY+2), 16, rl.RayWhite)
		if newValue != value {
			s.set(preset, float64(newValue))
			changed = true
		}
		panelY += 32
	}

	panelY += 10
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(preset.Glow, "Glow off", "Glow on")) {
		preset.Glow = !preset.Glow
		changed = true
	}
	if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
		*preset = original
		changed = true
	}
	panelY += 45

	// Output YAML
	rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.RayWhite)
	panelY += 22
	if out, err := presetYAML(name, *preset); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if panelY > windowHeight-40 {
				break
			}
			rl.DrawText(line, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 14
		}
	}

	rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-20), 12, rl.LightGray)
	return changed
}

// presetYAML renders the preset as a config file fragment.
func presetYAML(name string, preset config.FieldConfig) (string, error) {
	doc := map[string]map[string]config.FieldConfig{
		"fields": {name: preset},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling preset: %w", err)
	}
	return string(out), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
