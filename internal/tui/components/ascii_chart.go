package components

import (
	"math"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// DataSeries is one line of a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
	Glyph  rune
}

// ASCIIChart draws line series on a character grid
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // x-axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

const yAxisWidth = 14

// NewASCIIChart creates an empty chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      72,
		Height:     14,
		ShowLegend: true,
	}
}

// AddSeries appends a series; glyphs are assigned in insertion order
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	glyphs := []rune{'●', '◆', '▲', '■'}
	c.Series = append(c.Series, &DataSeries{
		Name:   name,
		Points: points,
		Color:  color,
		Glyph:  glyphs[len(c.Series)%len(glyphs)],
	})
	return c
}

func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if c.pointCount() == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if axis := c.renderXAxis(); axis != "" {
		content.WriteString("\n")
		content.WriteString(axis)
	}
	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(strings.Repeat(" ", yAxisWidth) + tuistyles.HelpStyle.Render(c.XAxisLabel))
	}
	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}
	return content.String()
}

func (c *ASCIIChart) pointCount() int {
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Points))
	}
	return n
}

// bounds returns the padded value range, always including zero
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func (c *ASCIIChart) plotWidth() int {
	return max(c.Width-yAxisWidth, 2)
}

func (c *ASCIIChart) column(i, n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(c.plotWidth()-1) / float64(n-1)))
}

func (c *ASCIIChart) row(v, lo, hi float64) int {
	h := max(c.Height, 2)
	r := int(math.Round((hi - v) / (hi - lo) * float64(h-1)))
	return min(max(r, 0), h-1)
}

type cell struct {
	glyph  rune
	series int
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	h, w := max(c.Height, 2), c.plotWidth()
	grid := make([][]cell, h)
	for r := range grid {
		grid[r] = make([]cell, w)
		for col := range grid[r] {
			grid[r][col] = cell{glyph: ' ', series: -1}
		}
	}

	if lo < 0 && hi > 0 {
		zero := c.row(0, lo, hi)
		for col := range grid[zero] {
			grid[zero][col] = cell{glyph: '┈', series: -1}
		}
	}

	n := c.pointCount()
	for si, s := range c.Series {
		prevCol, prevRow := -1, -1
		for i, p := range s.Points {
			col, row := c.column(i, n), c.row(p, lo, hi)
			if prevCol >= 0 {
				drawSegment(grid, prevCol, prevRow, col, row, si)
			}
			grid[row][col] = cell{glyph: s.Glyph, series: si}
			prevCol, prevRow = col, row
		}
	}

	var b strings.Builder
	for r := range grid {
		label := ""
		switch r {
		case 0:
			label = compactMoney(hi)
		case h / 2:
			label = compactMoney(hi - (hi-lo)/2)
		case h - 1:
			label = compactMoney(lo)
		}
		b.WriteString(tuistyles.HelpStyle.Render(padLeft(label, yAxisWidth-2)))
		b.WriteString(" │")
		for _, cl := range grid[r] {
			if cl.series < 0 {
				b.WriteString(tuistyles.HelpStyle.Render(string(cl.glyph)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.Series[cl.series].Color).Render(string(cl.glyph)))
		}
		if r < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawSegment fills the cells between two plotted points with dots.
func drawSegment(grid [][]cell, x0, y0, x1, y1, series int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for x0 != x1 || y0 != y1 {
		if grid[y0][x0].series < 0 {
			grid[y0][x0] = cell{glyph: '·', series: series}
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// renderXAxis prints the first, middle and last labels under their columns
func (c *ASCIIChart) renderXAxis() string {
	n := len(c.Labels)
	if n == 0 {
		return ""
	}
	w := c.plotWidth()
	line := []rune(strings.Repeat(" ", w+len(c.Labels[n-1])))
	for _, i := range []int{0, n / 2, n - 1} {
		col := c.column(i, n)
		for j, r := range []rune(c.Labels[i]) {
			if col+j < len(line) {
				line[col+j] = r
			}
		}
	}
	return strings.Repeat(" ", yAxisWidth) + tuistyles.HelpStyle.Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		marker := lipgloss.NewStyle().Foreground(s.Color).Render(string(s.Glyph))
		items = append(items, marker+" "+s.Name)
	}
	return strings.Repeat(" ", yAxisWidth) + strings.Join(items, "   ")
}

func compactMoney(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return decimal.NewFromFloat(v/1e6).StringFixed(1) + "M"
	case abs >= 1e3:
		return decimal.NewFromFloat(v/1e3).StringFixed(0) + "k"
	default:
		return decimal.NewFromFloat(v).StringFixed(0)
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
