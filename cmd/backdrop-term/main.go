// Terminal renderer for the backdrop effects.
//
// Usage: go run ./cmd/backdrop-term -effect ocean
//
// Press q or Esc to quit, l to send a low-power signal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/host"
	"github.com/pthm-cable/backdrop/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	effect := flag.String("effect", "network", "Effect to draw: field, network, ocean or both")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := flag.String("log-file", "", "Write JSON logs here (stdout is the screen)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N rendered frames (0 = unlimited)")
	tick := flag.Duration("tick", 16*time.Millisecond, "Frame callback interval")

	flag.Parse()

	logger, closeLog, err := newLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	effects, err := engine.EffectNames(*effect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config snapshot: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	h := host.NewTerminal(screen)
	eng := engine.New(h,
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
		engine.WithSeed(rngSeed),
		engine.WithEffectNames(effects...),
		engine.WithOutput(output),
		engine.WithLogStats(*logStats),
	)
	defer eng.Dispose()

	if err := eng.Start(); err != nil {
		logger.Error("failed to start engine", "error", err)
		return
	}

	run(h, eng, screen, *tick, *maxFrames)
}

func run(h *host.Terminal, eng *engine.Engine, screen tcell.Screen, tick time.Duration, maxFrames int64) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !h.Dispatch(ev) {
				return
			}

		case now := <-ticker.C:
			h.Frame(now)
			if maxFrames > 0 && eng.Stats().Frames >= maxFrames {
				return
			}
		}
	}
}

// newLogger logs JSON to path, or nowhere when path is empty.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { f.Close() }, nil
}
