package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
)

// ParameterSlider is a bounded numeric input moved in fixed steps
type ParameterSlider struct {
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // suffix such as "%" or " years"
	Prefix      string // such as "$"
	Format      string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider with value clamped into [min, max]
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.2f",
		Width:  30,
	}
	p.SetValue(value)
	return p
}

func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

func (p *ParameterSlider) WithPrefix(prefix string) *ParameterSlider {
	p.Prefix = prefix
	return p
}

func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment moves one step up and reports whether the value changed
func (p *ParameterSlider) Increment() bool {
	return p.move(p.Step)
}

// Decrement moves one step down and reports whether the value changed
func (p *ParameterSlider) Decrement() bool {
	return p.move(-p.Step)
}

func (p *ParameterSlider) move(delta float64) bool {
	before := p.Value
	p.SetValue(p.Value + delta)
	return p.Value != before
}

// SetValue sets the value clamped to the range
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the position of the value within the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) formatValue(v float64) string {
	return p.Prefix + fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the slider as label line, value and bar
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	marker := "  "
	if p.IsFocused {
		marker = "▸ "
	}
	content.WriteString(marker + labelStyle.Render(p.Label) + "  " + valueStyle.Render(p.formatValue(p.Value)))
	content.WriteString("\n  ")
	content.WriteString(p.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(" " + rangeStyle.Render(p.formatValue(p.Min)+" – "+p.formatValue(p.Max)))

	if p.IsFocused && p.Description != "" {
		content.WriteString("\n  ")
		content.WriteString(tuistyles.InfoStyle.Render(p.Description))
	}
	return content.String()
}

func (p *ParameterSlider) renderBar() string {
	if p.Width < 2 {
		return ""
	}
	thumb := int(math.Round(float64(p.Width-1) * p.Percentage()))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(thumbStyle.Render(strings.Repeat("━", thumb) + "●"))
	bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", p.Width-1-thumb)))
	bar.WriteString("]")
	return bar.String()
}

// RenderCompact returns "label: value" on one line
func (p *ParameterSlider) RenderCompact() string {
	return tuistyles.ParameterLabelStyle.Render(p.Label+":") + " " + tuistyles.ParameterValueStyle.Render(p.formatValue(p.Value))
}
