package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Degradation reasons.
const (
	ReasonLowFPS   = "low_fps"
	ReasonLowPower = "low_power"
)

// Metrics holds the counters of one engine on its own registry,
// so several engines in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	FramesRendered prometheus.Counter
	FramesSkipped  prometheus.Counter
	Regenerations  prometheus.Counter
	Degradations   *prometheus.CounterVec
	Particles      *prometheus.GaugeVec
	Links          prometheus.Gauge
	FPS            prometheus.Gauge
	FrameDuration  prometheus.Histogram
}

// NewMetrics creates the metric set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FramesRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "backdrop_frames_rendered_total",
			Help: "Frames simulated and drawn",
		}),
		FramesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "backdrop_frames_skipped_total",
			Help: "Frame callbacks dropped by the frame-rate cap",
		}),
		Regenerations: f.NewCounter(prometheus.CounterOpts{
			Name: "backdrop_regenerations_total",
			Help: "Particle sets rebuilt after a resize or quality change",
		}),
		Degradations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backdrop_degradations_total",
			Help: "Adaptive quality reductions",
		}, []string{"reason"}), // reason: low_fps, low_power
		Particles: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backdrop_particles",
			Help: "Live particles or lattice points per effect",
		}, []string{"effect"}),
		Links: f.NewGauge(prometheus.GaugeOpts{
			Name: "backdrop_links",
			Help: "Connections drawn in the last frame",
		}),
		FPS: f.NewGauge(prometheus.GaugeOpts{
			Name: "backdrop_fps",
			Help: "Rendered frames per second over the last closed window",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "backdrop_frame_duration_seconds",
			Help:    "Work time of a rendered frame",
			Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1},
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFrame records a rendered frame.
func (m *Metrics) ObserveFrame(d time.Duration, links int) {
	m.FramesRendered.Inc()
	m.FrameDuration.Observe(d.Seconds())
	m.Links.Set(float64(links))
}

// WriteText writes every metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
