package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{5}, Summary{Mean: 5, P10: 5, P50: 5, P90: 5, Min: 5, Max: 5}},
		{"unsorted", []float64{50, 10, 40, 20, 30}, Summary{Mean: 30, P10: 10, P50: 30, P90: 50, Min: 10, Max: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if got.Mean != tt.want.Mean || got.P10 != tt.want.P10 || got.P50 != tt.want.P50 ||
				got.P90 != tt.want.P90 || got.Min != tt.want.Min || got.Max != tt.want.Max {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSummarizeStd(t *testing.T) {
	got := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	// Sample standard deviation
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got.Std-want) > 1e-9 {
		t.Errorf("expected std %f, got %f", want, got.Std)
	}
}

func TestSummarizeKeepsInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
