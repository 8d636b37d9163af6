package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/engine"
	"github.com/pthm-cable/backdrop/telemetry"
)

// HUDData holds all the data needed to render the stats overlay.
type HUDData struct {
	Title string
	Stats engine.Stats
	Perf  telemetry.PerfStats
}

// HUDSections is the overlay layout.
var HUDSections = []SectionDescriptor{
	{
		Title: "Engine",
		Fields: []FieldDescriptor{
			{Label: "State", Widget: WidgetText, TextGetter: func(d HUDData) string { return d.Stats.State.String() }},
			{Label: "Device", Widget: WidgetText, TextGetter: func(d HUDData) string { return d.Stats.Class.String() }},
			{Label: "FPS", Widget: WidgetText, TextGetter: fpsText},
			{Label: "Frames", Widget: WidgetText, TextGetter: func(d HUDData) string {
				return fmt.Sprintf("%d drawn, %d skipped", d.Stats.Frames, d.Stats.Skipped)
			}},
		},
	},
	{
		Title: "Scene",
		Fields: []FieldDescriptor{
			{Label: "Particles", Widget: WidgetText, Format: "%.0f", Getter: func(d HUDData) float64 { return float64(d.Stats.Particles) }},
			{Label: "Links", Widget: WidgetText, Format: "%.0f", Getter: func(d HUDData) float64 { return float64(d.Stats.Links) }},
			{Label: "Degraded", Widget: WidgetText, Format: "%.0fx", Getter: func(d HUDData) float64 { return float64(d.Stats.Degradations) }},
		},
	},
	{
		Title:   "Frame work",
		Visible: func(d HUDData) bool { return d.Perf.AvgFrameDuration > 0 },
		Fields: []FieldDescriptor{
			{Label: "Average", Widget: WidgetText, TextGetter: func(d HUDData) string {
				return d.Perf.AvgFrameDuration.Round(time.Microsecond).String()
			}},
			{Label: "Budget", Widget: WidgetBar, Getter: BudgetUsed},
		},
	},
}

// fpsText formats the measured rate against the cap.
func fpsText(d HUDData) string {
	if d.Stats.FPSCap > 0 {
		return fmt.Sprintf("%.1f / %.0f", d.Stats.FPS, d.Stats.FPSCap)
	}
	return fmt.Sprintf("%.1f", d.Stats.FPS)
}

// BudgetUsed is the share of one capped frame interval spent on frame work.
func BudgetUsed(d HUDData) float64 {
	if d.Stats.FPSCap <= 0 || d.Perf.AvgFrameDuration <= 0 {
		return 0
	}
	budget := time.Duration(float64(time.Second) / d.Stats.FPSCap)
	return clamp01(float64(d.Perf.AvgFrameDuration) / float64(budget))
}

// PhaseLines lists phase timings in execution order.
func PhaseLines(p telemetry.PerfStats) []string {
	var lines []string
	for _, phase := range telemetry.Phases {
		avg, ok := p.PhaseAvg[phase]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-9s %7s %5.1f%%", phase, avg.Round(time.Microsecond), p.PhasePct[phase]))
	}
	return lines
}

// HUD renders the stats overlay.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches overlay visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// SetVisible shows or hides the overlay.
func (h *HUD) SetVisible(visible bool) {
	h.visible = visible
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}
	r := h.renderer
	padding := r.Theme.Padding
	phases := PhaseLines(data.Perf)

	height := padding*2 + r.Theme.Line + 4
	for _, sd := range HUDSections {
		height += r.sectionHeight(sd, data)
	}
	height += int32(len(phases)) * 14

	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + padding
	y := h.y + padding
	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += r.Theme.Line + 4

	inner := h.width - padding*2
	for _, sd := range HUDSections {
		y = r.DrawSection(x, y, sd, data, inner)
	}
	for _, line := range phases {
		rl.DrawText(line, x, y, 12, rl.Gray)
		y += 14
	}
}
