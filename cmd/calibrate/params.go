package main

import (
	"github.com/pthm-cable/backdrop/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the parameter set for a field preset. Bounds
// bracket the preset's own values.
func NewParamVector(preset config.FieldConfig) *ParamVector {
	count := float64(preset.Count)
	if count <= 0 {
		count = 100
	}
	dist := preset.ConnectionDistance
	if dist <= 0 {
		dist = 80
	}
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "count", Path: "count", Min: 20, Max: max(count*4, 400), Default: count},
			{Name: "connection_distance", Path: "connection_distance", Min: 20, Max: max(dist*2, 200), Default: dist},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToPreset writes parameter values into a preset. Area-based counts
// are switched off so the count applies as given.
func (pv *ParamVector) ApplyToPreset(f *config.FieldConfig, values []float64) {
	clamped := pv.Clamp(values)
	f.Count = int(clamped[0])
	f.CountCompact = f.Count
	f.CountPerArea = 0
	f.ConnectionDistance = clamped[1]
	f.ConnectionDistanceCompact = clamped[1]
}

// ExtractFromPreset reads the current parameter values from a preset.
func (pv *ParamVector) ExtractFromPreset(f config.FieldConfig) []float64 {
	return []float64{float64(f.Count), f.ConnectionDistance}
}
