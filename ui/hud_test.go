package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/telemetry"
)

func TestBudgetUsed(t *testing.T) {
	tests := []struct {
		name string
		cap  float64
		avg  time.Duration
		want float64
	}{
		{"uncapped", 0, 5 * time.Millisecond, 0},
		{"no samples", 30, 0, 0},
		{"half", 50, 10 * time.Millisecond, 0.5},
		{"over budget", 100, 20 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := HUDData{Stats: engine.Stats{FPSCap: tt.cap}, Perf: telemetry.PerfStats{AvgFrameDuration: tt.avg}}
			if got := BudgetUsed(d); got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("BudgetUsed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhaseLinesFollowFrameOrder(t *testing.T) {
	p := telemetry.PerfStats{
		PhaseAvg: map[string]time.Duration{
			telemetry.PhaseRender:   2 * time.Millisecond,
			telemetry.PhaseSimulate: time.Millisecond,
		},
		PhasePct: map[string]float64{
			telemetry.PhaseRender:   60,
			telemetry.PhaseSimulate: 30,
		},
	}
	lines := PhaseLines(p)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "simulate") || !strings.HasPrefix(lines[1], "render") {
		t.Errorf("unexpected order %q", lines)
	}
	if !strings.Contains(lines[1], "60.0%") {
		t.Errorf("missing percentage in %q", lines[1])
	}
}

func TestFieldText(t *testing.T) {
	d := HUDData{
		Stats: engine.Stats{State: engine.StateRunning, FPS: 29.54, FPSCap: 30, Particles: 120},
	}
	tests := []struct {
		label string
		want  string
	}{
		{"State", "running"},
		{"FPS", "29.5 / 30"},
		{"Particles", "120"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			fd, ok := findField(tt.label)
			if !ok {
				t.Fatalf("no field %q", tt.label)
			}
			if got := fieldText(fd, d); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrameWorkSectionHiddenWithoutSamples(t *testing.T) {
	r := NewRenderer()
	var section SectionDescriptor
	for _, sd := range HUDSections {
		if sd.Title == "Frame work" {
			section = sd
		}
	}
	if h := r.sectionHeight(section, HUDData{}); h != 0 {
		t.Errorf("expected hidden section, height %d", h)
	}
	d := HUDData{Perf: telemetry.PerfStats{AvgFrameDuration: time.Millisecond}}
	if h := r.sectionHeight(section, d); h == 0 {
		t.Error("expected visible section")
	}
}

func findField(label string) (FieldDescriptor, bool) {
	for _, sd := range HUDSections {
		for _, fd := range sd.Fields {
			if fd.Label == label {
				return fd, true
			}
		}
	}
	return FieldDescriptor{}, false
}
