package scenes

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/components"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ResultsModel shows the net worth projection of the working scenario
type ResultsModel struct {
	summary *domain.ScenarioSummary
	width   int
	height  int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResults updates the results to display
func (m *ResultsModel) SetResults(summary *domain.ScenarioSummary) {
	m.summary = summary
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update is a no-op; the scene is read-only
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.summary == nil || m.summary.NetWorth == nil {
		return tuistyles.InfoStyle.Render("No results yet")
	}
	s := m.summary

	header := tuistyles.TitleStyle.Render("Net worth: " + s.Name)
	sub := tuistyles.SubtitleStyle.Render(fmt.Sprintf("age %d to %d, retiring at %d", s.CurrentAge, s.TerminalAge, s.RetirementAge))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		sub,
		"",
		components.MetricGrid(KeyMetrics(s), 3),
		"",
		m.chart().Render(),
	)
}

// KeyMetrics builds the KPI cards for a scenario summary
func KeyMetrics(s *domain.ScenarioSummary) []*components.MetricCard {
	depletion := components.NewMetricCard("Portfolio lasts", "for life").WithTone(components.ToneGood)
	if s.DepletionAge > 0 {
		depletion = components.NewMetricCard("Portfolio lasts", fmt.Sprintf("until %d", s.DepletionAge)).WithTone(components.ToneBad)
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("At retirement", tuistyles.FormatCurrency(s.BalanceAtRetirement)),
		components.NewMetricCard("Peak balance", tuistyles.FormatCurrency(s.PeakBalance)),
		depletion,
		components.NewMetricCard("Contribution / month", tuistyles.FormatCurrency(s.MonthlyContribution)),
		components.NewMetricCard("Withdrawal / month", tuistyles.FormatCurrency(s.MonthlyWithdrawal)),
		components.NewMetricCard("Final balance", tuistyles.FormatCurrency(s.FinalBalance)).
			WithTone(tone(s.FinalBalance.IsPositive())),
	}

	if s.NetWorth.WithProjectsBalances != nil {
		withProjects := components.NewMetricCard("Final with projects", tuistyles.FormatCurrency(s.FinalBalanceWithProjects)).
			WithTone(tone(s.FinalBalanceWithProjects.IsPositive()))
		if s.DepletionAgeWithProjects > 0 {
			withProjects.WithNote(fmt.Sprintf("depleted at %d", s.DepletionAgeWithProjects))
		}
		cards = append(cards,
			components.NewMetricCard("Project costs", tuistyles.FormatCurrency(s.TotalProjectCost)),
			withProjects,
		)
	}
	return cards
}

func tone(good bool) components.Tone {
	if good {
		return components.ToneGood
	}
	return components.ToneBad
}

// chart samples the monthly series once per year of age
func (m *ResultsModel) chart() *components.ASCIIChart {
	nw := m.summary.NetWorth

	var baseline, withProjects []float64
	var labels []string
	for i := 0; i < nw.Len(); i += 12 {
		baseline = append(baseline, nw.BaselineBalances[i])
		if nw.WithProjectsBalances != nil {
			withProjects = append(withProjects, nw.WithProjectsBalances[i])
		}
		labels = append(labels, fmt.Sprintf("%d", nw.Ages[i]))
	}

	chart := components.NewASCIIChart("").
		AddSeries("Baseline", baseline, tuistyles.ColorBaseline).
		WithLabels(labels).
		WithXAxisLabel("age")
	if withProjects != nil {
		chart.AddSeries("With projects", withProjects, tuistyles.ColorWithProjects)
	}
	if m.width > 0 {
		chart.WithSize(max(40, m.width-4), max(8, min(18, m.height-20)))
	}
	return chart
}
