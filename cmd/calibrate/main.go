// Package main searches for the richest field preset that still fits a
// frame-time budget on this machine, using CMA-ES over headless runs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/backdrop/config"
)

// evalRow is one line of calibrate_log.csv.
type evalRow struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Count    int     `csv:"count"`
	Distance float64 `csv:"connection_distance"`
	FrameUS  int64   `csv:"frame_us"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	presetName := flag.String("preset", "hero", "Field preset to calibrate: hero or network")
	width := flag.Float64("width", 1280, "Viewport width")
	height := flag.Float64("height", 720, "Viewport height")
	frames := flag.Int("frames", 180, "Frames per evaluation run")
	budget := flag.Duration("budget", 8*time.Millisecond, "Frame work budget")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	preset, err := baseCfg.Preset(*presetName)
	if err != nil {
		log.Fatal(err)
	}

	params := NewParamVector(preset)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *presetName, baseCfg, *width, *height, *frames, *budget, evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromPreset(preset))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		row := []evalRow{{
			Eval:     evalCount,
			Fitness:  fitness,
			Count:    int(clamped[0]),
			Distance: clamped[1],
			FrameUS:  evaluator.LastWork().Microseconds(),
		}}
		if evalCount == 1 {
			err = gocsv.Marshal(row, logFile)
		} else {
			err = gocsv.MarshalWithoutHeaders(row, logFile)
		}
		if err != nil {
			log.Printf("failed to log evaluation: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: count=%d distance=%.0f work=%s (best=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, int(clamped[0]), clamped[1], evaluator.LastWork().Round(time.Microsecond),
			bestFitness, formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES calibration of %q, population=%d, max_evals=%d, budget=%s\n",
		*presetName, popSize, *maxEvals, *budget)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("calibration ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.2f\n", spec.Name, bestParams[i])
	}

	params.ApplyToPreset(&preset, bestParams)
	if err := baseCfg.SetPreset(*presetName, preset); err != nil {
		log.Fatal(err)
	}
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
