package scenes

import (
	"fmt"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/components"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	tea "github.com/charmbracelet/bubbletea"
)

// CashFlowModel shows yearly income, expenses and balance
type CashFlowModel struct {
	projection *domain.CashFlowProjection
	width      int
	height     int
}

func NewCashFlowModel() *CashFlowModel {
	return &CashFlowModel{}
}

func (m *CashFlowModel) SetProjection(p *domain.CashFlowProjection) {
	m.projection = p
}

func (m *CashFlowModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *CashFlowModel) Update(msg tea.Msg) (*CashFlowModel, tea.Cmd) {
	return m, nil
}

// View renders the cash flow scene
func (m *CashFlowModel) View() string {
	p := m.projection
	if p == nil || p.Len() == 0 {
		return tuistyles.InfoStyle.Render("No cash flow to project: the profile needs a birth date")
	}

	incomes := make([]float64, p.Len())
	expenses := make([]float64, p.Len())
	balances := make([]float64, p.Len())
	for i := range p.Categories {
		incomes[i] = p.Incomes[i].InexactFloat64()
		expenses[i] = p.Expenses[i].InexactFloat64()
		balances[i] = p.Balances[i].InexactFloat64()
	}

	chart := components.NewASCIIChart("Yearly cash flow").
		AddSeries("Income", incomes, tuistyles.ColorIncome).
		AddSeries("Expenses", expenses, tuistyles.ColorExpense).
		AddSeries("Balance", balances, tuistyles.ColorAccent).
		WithLabels(p.Categories)
	if m.width > 0 {
		chart.WithSize(max(40, m.width-4), max(8, min(18, m.height-12)))
	}

	var content strings.Builder
	content.WriteString(chart.Render())
	content.WriteString("\n\n")
	if deficits := p.DeficitYears(); len(deficits) > 0 {
		content.WriteString(tuistyles.MetricTrendStyle(false).Render("Deficit years: " + deficitList(deficits)))
	} else {
		content.WriteString(tuistyles.MetricTrendStyle(true).Render("No deficit years"))
	}
	return content.String()
}

// deficitList renders years compactly, collapsing consecutive runs
func deficitList(years []int) string {
	if len(years) == 0 {
		return ""
	}
	var parts []string
	start, prev := years[0], years[0]
	flush := func() {
		if start == prev {
			parts = append(parts, fmt.Sprintf("%d", start))
		} else {
			parts = append(parts, fmt.Sprintf("%d–%d", start, prev))
		}
	}
	for _, y := range years[1:] {
		if y == prev+1 {
			prev = y
			continue
		}
		flush()
		start, prev = y, y
	}
	flush()
	return strings.Join(parts, ", ")
}
