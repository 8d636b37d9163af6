package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/host"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	effect := flag.String("effect", "field", "Effect to draw: field, network, ocean or both")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N rendered frames (0 = unlimited)")
	lowPower := flag.Bool("low-power", false, "Start with the low-power quality clamp")
	metricsPath := flag.String("metrics", "", "Write Prometheus text metrics here on exit")
	showHUD := flag.Bool("hud", false, "Show the stats overlay (toggle with H)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	effects, err := engine.EffectNames(*effect)
	if err != nil {
		slog.Error("invalid effect", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Backdrop")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	h := host.NewRaylib()
	eng := engine.New(h,
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
		engine.WithSeed(rngSeed),
		engine.WithEffectNames(effects...),
		engine.WithOutput(output),
		engine.WithLogStats(*logStats),
	)
	defer eng.Dispose()

	hud := ui.NewHUD(10, 10, 260)
	hud.SetVisible(*showHUD)
	h.Overlay = func() {
		hud.Draw(ui.HUDData{Title: "Backdrop: " + *effect, Stats: eng.Stats(), Perf: eng.Perf()})
	}

	if err := eng.Start(); err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}
	if *lowPower {
		h.Emit(engine.LowPower(time.Now()))
	}

	slog.Info("starting",
		"effect", *effect,
		"seed", rngSeed,
		"output_dir", output.Dir(),
		"max_frames", *maxFrames,
	)

	for !rl.WindowShouldClose() {
		now := time.Now()
		h.Poll(now)
		if rl.IsKeyPressed(rl.KeyH) {
			hud.Toggle()
		}
		h.Frame(now)

		if *maxFrames > 0 && eng.Stats().Frames >= *maxFrames {
			slog.Info("max frames reached", "frames", eng.Stats().Frames)
			break
		}
	}

	if *metricsPath != "" {
		writeMetrics(eng, *metricsPath)
	}
}

func writeMetrics(eng *engine.Engine, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create metrics file", "error", err)
		return
	}
	defer f.Close()
	if err := eng.Metrics().WriteText(f); err != nil {
		slog.Error("failed to write metrics", "error", err)
	}
}
