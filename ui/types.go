// Package ui draws the optional stats overlay on top of the animation.
// Panels are described by field descriptors so the layout can follow the
// engine counters without hard-coded drawing code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText    WidgetType = iota // Plain text with format string
	WidgetBar                       // Progress bar [0, 1]
	WidgetSection                   // Section header
	WidgetSpacer                    // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label      string                // Display label
	Widget     WidgetType            // How to render
	Format     string                // Printf format for numeric text
	Getter     func(HUDData) float64 // Value extractor (for numeric fields)
	TextGetter func(HUDData) string  // Value extractor (for text fields)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(HUDData) bool // nil = always visible
}

// Theme holds overlay colours and metrics.
type Theme struct {
	Panel, Border     rl.Color
	Header            rl.Color
	Label, Value      rl.Color
	Track, Fill, Warn rl.Color

	Padding, Line int32 // Panel padding and text line height
	LabelWidth    int32
	BarHeight     int32
	TextSize      int32
	HeaderSize    int32
}

// DefaultTheme returns the overlay theme.
func DefaultTheme() Theme {
	return Theme{
		Panel:      rl.NewColor(12, 16, 24, 200),
		Border:     rl.NewColor(60, 70, 80, 255),
		Header:     rl.Yellow,
		Label:      rl.LightGray,
		Value:      rl.RayWhite,
		Track:      rl.NewColor(40, 40, 40, 255),
		Fill:       rl.NewColor(100, 150, 200, 255),
		Warn:       rl.NewColor(200, 100, 100, 255),
		Padding:    10,
		Line:       16,
		LabelWidth: 90,
		BarHeight:  12,
		TextSize:   12,
		HeaderSize: 14,
	}
}
