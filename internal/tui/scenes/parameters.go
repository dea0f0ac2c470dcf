package scenes

import (
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/components"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// slider positions
const (
	sliderRetirementAge = iota
	sliderContribution
	sliderDesiredIncome
	sliderOtherIncome
	sliderNetWorth
	sliderReturnRate
	sliderCorrectionRate
)

var (
	keyUp    = key.NewBinding(key.WithKeys("up", "k"))
	keyDown  = key.NewBinding(key.WithKeys("down", "j"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h", "-"))
	keyRight = key.NewBinding(key.WithKeys("right", "l", "+"))
)

// ParametersModel edits the simulation parameters of the working scenario
type ParametersModel struct {
	params        domain.SimulationParameters
	sliders       []*components.ParameterSlider
	focusedSlider int
	width         int
	height        int
}

// NewParametersModel creates an empty parameters scene
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetValues rebuilds the sliders from resolved parameters and effective rates
func (m *ParametersModel) SetValues(params domain.SimulationParameters, returnRate, correctionRate decimal.Decimal) {
	m.params = params

	minRetire := float64(max(params.CurrentAge, 18))
	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider("Retirement age", float64(params.RetirementAge), minRetire, 90, 1).
			WithFormat("%.0f").WithUnit(" years").
			WithDescription("Age at which contributions stop and withdrawals begin"),
		components.NewParameterSlider("Monthly contribution", params.MonthlyContribution.InexactFloat64(), 0, 50000, 500).
			WithPrefix("$").WithFormat("%.0f").
			WithDescription("Saved into the portfolio every month before retirement"),
		components.NewParameterSlider("Desired retirement income", params.DesiredRetirementIncome.InexactFloat64(), 0, 100000, 500).
			WithPrefix("$").WithFormat("%.0f").
			WithDescription("Monthly income wanted once retired"),
		components.NewParameterSlider("Other retirement income", params.OtherIncome.InexactFloat64(), 0, 50000, 500).
			WithPrefix("$").WithFormat("%.0f").
			WithDescription("Monthly income from outside the portfolio, such as a pension"),
		components.NewParameterSlider("Current net worth", params.CurrentNetWorth.InexactFloat64(), 0, 10000000, 10000).
			WithPrefix("$").WithFormat("%.0f").
			WithDescription("Starting portfolio balance"),
		components.NewParameterSlider("Annual return", returnRate.Mul(decimal.NewFromInt(100)).InexactFloat64(), -5, 20, 0.25).
			WithUnit("%").
			WithDescription("Nominal portfolio return, compounded monthly"),
		components.NewParameterSlider("Default inflation", correctionRate.Mul(decimal.NewFromInt(100)).InexactFloat64(), 0, 15, 0.25).
			WithUnit("%").
			WithDescription("Annual correction for cash flow items without their own rate"),
	}
	m.focusedSlider = min(m.focusedSlider, len(m.sliders)-1)
	m.refreshFocus()
}

// SetSize updates the dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for _, s := range m.sliders {
		s.WithWidth(max(20, min(50, width-30)))
	}
}

// Focused returns the index of the focused slider
func (m *ParametersModel) Focused() int {
	return m.focusedSlider
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.focusedSlider > 0 {
			m.focusedSlider--
			m.refreshFocus()
		}
	case key.Matches(keyMsg, keyDown):
		if m.focusedSlider < len(m.sliders)-1 {
			m.focusedSlider++
			m.refreshFocus()
		}
	case key.Matches(keyMsg, keyLeft):
		if m.sliders[m.focusedSlider].Decrement() {
			return m, m.changed()
		}
	case key.Matches(keyMsg, keyRight):
		if m.sliders[m.focusedSlider].Increment() {
			return m, m.changed()
		}
	}
	return m, nil
}

func (m *ParametersModel) refreshFocus() {
	for i, s := range m.sliders {
		s.SetFocused(i == m.focusedSlider)
	}
}

// changed emits the slider values as a ParameterChangedMsg
func (m *ParametersModel) changed() tea.Cmd {
	params := m.params
	params.RetirementAge = int(m.sliders[sliderRetirementAge].Value)
	params.MonthlyContribution = money(m.sliders[sliderContribution].Value)
	params.DesiredRetirementIncome = money(m.sliders[sliderDesiredIncome].Value)
	params.OtherIncome = money(m.sliders[sliderOtherIncome].Value)
	params.CurrentNetWorth = money(m.sliders[sliderNetWorth].Value)
	m.params = params

	msg := tuimsg.ParameterChangedMsg{
		Parameters:     params,
		ReturnRate:     percent(m.sliders[sliderReturnRate].Value),
		CorrectionRate: percent(m.sliders[sliderCorrectionRate].Value),
	}
	return func() tea.Msg { return msg }
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if len(m.sliders) == 0 {
		return tuistyles.InfoStyle.Render("No scenario loaded")
	}

	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Simulation parameters"))
	content.WriteString("\n\n")

	blocks := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		blocks = append(blocks, s.Render())
	}
	content.WriteString(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.HelpStyle.Render("↑/↓ select • ←/→ adjust • changes recalculate immediately"))
	return content.String()
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)).Round(6)
}
