package components

import (
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
)

// MetricCard shows one KPI of a projection
type MetricCard struct {
	Label string
	Value string
	Note  string
	Tone  Tone
	Width int
}

// Tone colors a card value
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	ToneBad
)

// NewMetricCard creates a neutral card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 24}
}

func (m *MetricCard) WithTone(t Tone) *MetricCard {
	m.Tone = t
	return m
}

func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	switch m.Tone {
	case ToneGood:
		valueStyle = valueStyle.Foreground(tuistyles.ColorSuccess)
	case ToneBad:
		valueStyle = valueStyle.Foreground(tuistyles.ColorDanger)
	}

	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + tuistyles.MetricLabelStyle.Italic(true).Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			rendered = append(rendered, c.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
