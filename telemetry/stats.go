package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a stats window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`
	Effect           string  `csv:"effect"`

	// State at window end
	Particles int `csv:"particles"`

	// Scheduler activity during the window
	FramesRendered int `csv:"frames_rendered"`
	FramesSkipped  int `csv:"frames_skipped"`
	Degradations   int `csv:"degradations"`

	// Connections per rendered frame
	LinksMean float64 `csv:"links_mean"`
	LinksP50  float64 `csv:"links_p50"`
	LinksP90  float64 `csv:"links_p90"`

	// Frame work in milliseconds
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`

	// One-second FPS windows closed during the window
	FPSMean float64 `csv:"fps_mean"`
	FPSStd  float64 `csv:"fps_std"`
	FPSMin  float64 `csv:"fps_min"`
}

// Summary is the distribution of a sample.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Min, Max      float64
}

// Summarize computes a Summary. values is not modified.
// Returns zeros for an empty sample and a zero Std for a single value.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var s Summary
	if len(sorted) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	s.P10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.String("effect", s.Effect),
		slog.Int("particles", s.Particles),
		slog.Int("frames_rendered", s.FramesRendered),
		slog.Int("frames_skipped", s.FramesSkipped),
		slog.Int("degradations", s.Degradations),
		slog.Float64("links_mean", s.LinksMean),
		slog.Float64("links_p90", s.LinksP90),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
		slog.Float64("fps_mean", s.FPSMean),
		slog.Float64("fps_min", s.FPSMin),
	)
}

// LogStats logs the window stats using the given logger.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats", "window", s)
}
