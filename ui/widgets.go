package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderSize, r.Theme.Header)
	return y + r.Theme.Line
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.TextSize, r.Theme.Label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.TextSize, r.Theme.Value)
	return y + r.Theme.Line
}

// DrawBar draws a progress bar for [0, 1] values. Values above 0.8 are
// drawn in the warning colour.
func (r *Renderer) DrawBar(x, y int32, label string, value float64, width int32) int32 {
	value = clamp01(value)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.TextSize, r.Theme.Label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.Track)

	fill := r.Theme.Fill
	if value > 0.8 {
		fill = r.Theme.Warn
	}
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*value), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, r.Theme.TextSize, r.Theme.Value)

	return y + r.Theme.Line + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data HUDData, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, fieldText(fd, data))
	case WidgetBar:
		var value float64
		if fd.Getter != nil {
			value = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, value, width)
	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data HUDData, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// sectionHeight is the height DrawSection will use.
func (r *Renderer) sectionHeight(sd SectionDescriptor, data HUDData) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.Line
	}
	for _, fd := range sd.Fields {
		switch fd.Widget {
		case WidgetText, WidgetSection:
			h += r.Theme.Line
		case WidgetBar:
			h += r.Theme.Line + 2
		case WidgetSpacer:
			h += 6
		}
	}
	return h
}

func fieldText(fd FieldDescriptor, data HUDData) string {
	switch {
	case fd.TextGetter != nil:
		return fd.TextGetter(data)
	case fd.Getter != nil:
		return fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return ""
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
