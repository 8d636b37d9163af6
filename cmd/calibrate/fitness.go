package main

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/host"
)

// overBudgetWeight scales the penalty for frame work beyond the budget.
const overBudgetWeight = 10.0

// Evaluator scores presets by running them headless.
type Evaluator struct {
	params  *ParamVector
	name    string
	baseCfg *config.Config
	width   float64
	height  float64
	frames  int
	budget  time.Duration
	seeds   []int64

	lastWork time.Duration
}

// NewFitnessEvaluator creates an evaluator for the named preset.
func NewFitnessEvaluator(params *ParamVector, name string, baseCfg *config.Config, width, height float64, frames int, budget time.Duration, seeds []int64) *Evaluator {
	return &Evaluator{
		params:  params,
		name:    name,
		baseCfg: baseCfg,
		width:   width,
		height:  height,
		frames:  frames,
		budget:  budget,
		seeds:   seeds,
	}
}

// LastWork returns the mean frame work of the last evaluation.
func (e *Evaluator) LastWork() time.Duration {
	return e.lastWork
}

// Evaluate returns the fitness of raw parameter values. Lower is better:
// denser and more connected fields score lower until frame work exceeds
// the budget.
func (e *Evaluator) Evaluate(raw []float64) float64 {
	clamped := e.params.Clamp(raw)

	var total time.Duration
	for _, seed := range e.seeds {
		total += e.measure(clamped, seed)
	}
	work := total / time.Duration(max(len(e.seeds), 1))
	e.lastWork = work

	return Fitness(e.params.Normalize(clamped), work, e.budget)
}

// Fitness combines richness and the over-budget penalty.
func Fitness(normalized []float64, work, budget time.Duration) float64 {
	var richness float64
	for _, v := range normalized {
		richness += v
	}
	penalty := 0.0
	if budget > 0 && work > budget {
		penalty = overBudgetWeight * (float64(work)/float64(budget) - 1)
	}
	return -richness + penalty
}

// measure runs one headless engine and returns its mean frame work.
func (e *Evaluator) measure(values []float64, seed int64) time.Duration {
	preset, err := e.baseCfg.Preset(e.name)
	if err != nil {
		return 0
	}
	e.params.ApplyToPreset(&preset, values)

	adaptive := e.baseCfg.Adaptive
	adaptive.Enabled = false

	h := host.NewHeadless(e.width, e.height)
	eng := engine.New(h,
		engine.WithConfig(e.baseCfg),
		engine.WithLogger(slog.New(slog.DiscardHandler)),
		engine.WithEffects(engine.NewFieldEffect(e.name, preset, adaptive, rand.New(rand.NewSource(seed)))),
		engine.WithFPSCap(0),
	)
	defer eng.Dispose()
	if err := eng.Start(); err != nil {
		return 0
	}

	h.Run(time.Now(), time.Second/60, e.frames)
	return eng.Perf().AvgFrameDuration
}
