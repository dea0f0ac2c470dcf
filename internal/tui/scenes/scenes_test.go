package scenes

import (
	"testing"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParameters() domain.SimulationParameters {
	return domain.SimulationParameters{
		CurrentAge:              38,
		CurrentNetWorth:         decimal.NewFromInt(225000),
		RetirementAge:           65,
		DesiredRetirementIncome: decimal.NewFromInt(15000),
		OtherIncome:             decimal.NewFromInt(2500),
		MonthlyContribution:     decimal.NewFromInt(2000),
	}
}

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestParametersModel(t *testing.T) {
	newModel := func() *ParametersModel {
		m := NewParametersModel()
		m.SetValues(testParameters(), decimal.NewFromFloat(0.06), decimal.NewFromFloat(0.045))
		return m
	}

	t.Run("right raises retirement age", func(t *testing.T) {
		m, cmd := newModel().Update(keyPress(tea.KeyRight))
		require.NotNil(t, cmd)
		msg, ok := cmd().(tuimsg.ParameterChangedMsg)
		require.True(t, ok)

		assert.Equal(t, 66, msg.Parameters.RetirementAge)
		assert.Equal(t, 38, msg.Parameters.CurrentAge)
		assert.True(t, msg.Parameters.CurrentNetWorth.Equal(decimal.NewFromInt(225000)))
		assert.Equal(t, "0.06", msg.ReturnRate.String())
		assert.Equal(t, "0.045", msg.CorrectionRate.String())
		assert.Equal(t, 0, m.Focused())
	})

	t.Run("down then left lowers contribution", func(t *testing.T) {
		m := newModel()
		m, _ = m.Update(keyPress(tea.KeyDown))
		assert.Equal(t, 1, m.Focused())

		_, cmd := m.Update(keyPress(tea.KeyLeft))
		require.NotNil(t, cmd)
		msg := cmd().(tuimsg.ParameterChangedMsg)
		assert.True(t, msg.Parameters.MonthlyContribution.Equal(decimal.NewFromInt(1500)), msg.Parameters.MonthlyContribution.String())
		assert.Equal(t, 65, msg.Parameters.RetirementAge)
	})

	t.Run("return rate in quarter points", func(t *testing.T) {
		m := newModel()
		for i := 0; i < 5; i++ {
			m, _ = m.Update(keyPress(tea.KeyDown))
		}
		assert.Equal(t, sliderReturnRate, m.Focused())
		_, cmd := m.Update(keyPress(tea.KeyRight))
		msg := cmd().(tuimsg.ParameterChangedMsg)
		assert.Equal(t, "0.0625", msg.ReturnRate.String())
	})

	t.Run("no message at a bound", func(t *testing.T) {
		m := NewParametersModel()
		p := testParameters()
		p.RetirementAge = 90
		m.SetValues(p, decimal.NewFromFloat(0.06), decimal.NewFromFloat(0.045))
		_, cmd := m.Update(keyPress(tea.KeyRight))
		assert.Nil(t, cmd)
	})

	t.Run("focus stays in range", func(t *testing.T) {
		m := newModel()
		m, _ = m.Update(keyPress(tea.KeyUp))
		assert.Equal(t, 0, m.Focused())
		for i := 0; i < 20; i++ {
			m, _ = m.Update(keyPress(tea.KeyDown))
		}
		assert.Equal(t, sliderCorrectionRate, m.Focused())
	})

	t.Run("view", func(t *testing.T) {
		assert.Contains(t, NewParametersModel().View(), "No scenario loaded")
		out := newModel().View()
		assert.Contains(t, out, "Retirement age")
		assert.Contains(t, out, "65 years")
		assert.Contains(t, out, "6.00%")
	})
}

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: "apartment", Name: "Apartment", TotalCost: decimal.NewFromInt(250000), Priority: domain.PriorityEssential, TargetYear: 2029, Active: true},
		{ID: "car", Name: "Car", TotalCost: decimal.NewFromInt(90000), TargetYear: 2027, Occurrences: 3, IntervalYears: 8, Active: true},
		{ID: "sabbatical", Name: "Sabbatical", TotalCost: decimal.NewFromInt(180000), TargetAge: 50},
	}
}

func TestProjectsModel(t *testing.T) {
	t.Run("nil ids follow project flags", func(t *testing.T) {
		m := NewProjectsModel()
		m.SetProjects(testProjects(), nil)
		assert.Equal(t, []string{"apartment", "car"}, m.ActiveIDs())
	})

	t.Run("explicit ids", func(t *testing.T) {
		m := NewProjectsModel()
		m.SetProjects(testProjects(), []string{})
		assert.Equal(t, []string{}, m.ActiveIDs())

		m.SetProjects(testProjects(), []string{"sabbatical"})
		assert.Equal(t, []string{"sabbatical"}, m.ActiveIDs())
	})

	t.Run("toggle emits active ids", func(t *testing.T) {
		m := NewProjectsModel()
		m.SetProjects(testProjects(), nil)
		m, _ = m.Update(keyPress(tea.KeyDown))
		m, _ = m.Update(keyPress(tea.KeyDown))
		m, cmd := m.Update(keyPress(tea.KeySpace))
		require.NotNil(t, cmd)
		msg := cmd().(tuimsg.ProjectsChangedMsg)
		assert.Equal(t, []string{"apartment", "car", "sabbatical"}, msg.ActiveIDs)

		m, _ = m.Update(keyPress(tea.KeyUp))
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		msg = cmd().(tuimsg.ProjectsChangedMsg)
		assert.Equal(t, []string{"apartment", "sabbatical"}, msg.ActiveIDs)
	})

	t.Run("view", func(t *testing.T) {
		m := NewProjectsModel()
		assert.Contains(t, m.View(), "no projects")
		m.SetProjects(testProjects(), nil)
		out := m.View()
		assert.Contains(t, out, "[x] Apartment")
		assert.Contains(t, out, "[ ] Sabbatical")
		assert.Contains(t, out, "3× every 8 years")
		assert.Contains(t, out, "at age 50")
	})
}

func TestDeficitList(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  string
	}{
		{"none", nil, ""},
		{"single", []int{2030}, "2030"},
		{"run and gap", []int{2030, 2031, 2032, 2040}, "2030–2032, 2040"},
		{"two runs", []int{2030, 2031, 2035, 2036}, "2030–2031, 2035–2036"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deficitList(tt.years))
		})
	}
}

func TestKeyMetrics(t *testing.T) {
	s := &domain.ScenarioSummary{
		Name:                "base",
		FinalBalance:        decimal.NewFromInt(1000),
		DepletionAge:        0,
		NetWorth:            &domain.NetWorthProjection{},
		BalanceAtRetirement: decimal.NewFromInt(500000),
	}
	assert.Len(t, KeyMetrics(s), 6)

	s.NetWorth.WithProjectsBalances = []float64{1}
	s.DepletionAgeWithProjects = 82
	cards := KeyMetrics(s)
	require.Len(t, cards, 8)
	assert.Equal(t, "depleted at 82", cards[7].Note)
}

func TestCashFlowModel_View(t *testing.T) {
	m := NewCashFlowModel()
	assert.Contains(t, m.View(), "birth date")

	m.SetProjection(&domain.CashFlowProjection{
		Categories: []string{"2025 (38)", "2026 (39)"},
		Years:      []int{2025, 2026},
		Ages:       []int{38, 39},
		Incomes:    []decimal.Decimal{decimal.NewFromInt(1000), decimal.NewFromInt(1000)},
		Expenses:   []decimal.Decimal{decimal.NewFromInt(500), decimal.NewFromInt(1500)},
		Balances:   []decimal.Decimal{decimal.NewFromInt(500), decimal.NewFromInt(-500)},
	})
	out := m.View()
	assert.Contains(t, out, "Yearly cash flow")
	assert.Contains(t, out, "Deficit years: 2026")
}
