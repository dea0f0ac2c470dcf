package tui

import (
	"testing"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlanPath = "../../configs/plans/silva.yaml"

func fixedClock(t *testing.T) {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { calculation.SetNowFunc(time.Now) })
}

// loadedModel runs Init and feeds the resulting message back
func loadedModel(t *testing.T) (Model, *calculation.CalculationEngine) {
	t.Helper()
	fixedClock(t)

	engine := calculation.NewCalculationEngine().WithCache(calculation.NewProjectionCache(64))
	m := NewModel(testPlanPath, engine)
	msg := m.Init()()
	require.IsType(t, tuimsg.PlanLoadedMsg{}, msg)

	next, _ := m.Update(msg)
	return next.(Model), engine
}

// send delivers msg and then the message produced by its command, if any
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestModel_Load(t *testing.T) {
	m, _ := loadedModel(t)

	require.NotNil(t, m.Summary())
	assert.Equal(t, "base", m.ScenarioName())
	assert.Equal(t, 38, m.Summary().CurrentAge)
	assert.Equal(t, 65, m.Summary().RetirementAge)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "Marina Silva")
}

func TestModel_NetWorthSliderReachesZero(t *testing.T) {
	m, _ := loadedModel(t)
	require.Equal(t, "225000", m.Summary().StartingBalance.String(), "starts from the balance sheet")

	for i := 0; i < 4; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 4, m.parametersModel.Focused())

	for i := 0; i < 30; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	require.NoError(t, m.err)
	assert.True(t, m.Summary().StartingBalance.IsZero(), "got %s", m.Summary().StartingBalance)
	assert.True(t, m.Summary().BalanceAtRetirement.IsPositive())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, "225000", m.Summary().StartingBalance.String())
}

func TestModel_LoadError(t *testing.T) {
	m := NewModel("does-not-exist.yaml", nil)
	msg := m.Init()()
	require.IsType(t, tuimsg.ErrorMsg{}, msg)

	next, _ := m.Update(msg)
	assert.Contains(t, next.View(), "Error")
}

func TestModel_SliderRecalculates(t *testing.T) {
	m, engine := loadedModel(t)
	before := m.Summary()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, m.Summary())
	assert.Equal(t, 66, m.Summary().RetirementAge)
	assert.NotEqual(t, before.BalanceAtRetirement.String(), m.Summary().BalanceAtRetirement.String())

	// the plan itself is untouched
	assert.Equal(t, 65, m.plan.Scenarios[0].Parameters.RetirementAge)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 65, m.Summary().RetirementAge)
	assert.Equal(t, before.FinalBalance.String(), m.Summary().FinalBalance.String())
	assert.Positive(t, engine.Cache.Stats().Hits)
}

func TestModel_ScenarioSwitching(t *testing.T) {
	m, _ := loadedModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, "all_projects", m.ScenarioName())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	assert.Equal(t, "early", m.ScenarioName())
	assert.Equal(t, 60, m.Summary().RetirementAge)
}

func TestModel_Reset(t *testing.T) {
	m, _ := loadedModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 67, m.Summary().RetirementAge)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, 65, m.Summary().RetirementAge)
}

func TestModel_Navigation(t *testing.T) {
	m, _ := loadedModel(t)

	tests := []struct {
		key  tea.KeyMsg
		want Scene
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, SceneResults},
		{tea.KeyMsg{Type: tea.KeyTab}, SceneCashFlow},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")}, SceneProjects},
		{tea.KeyMsg{Type: tea.KeyTab}, SceneParameters},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, SceneProjects},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")}, SceneResults},
	}
	for _, tt := range tests {
		m = send(t, m, tt.key)
		assert.Equal(t, tt.want, m.currentScene, tt.key.String())
		assert.Contains(t, m.View(), tt.want.String())
	}
}

func TestModel_ToggleProject(t *testing.T) {
	m, _ := loadedModel(t)
	require.Nil(t, m.working.ActiveProjectIDs)
	withDefaults := m.Summary().TotalProjectCost

	m = send(t, m, NavigateMsg{Scene: SceneProjects})
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	assert.Equal(t, []string{"car"}, m.working.ActiveProjectIDs)
	assert.True(t, m.Summary().TotalProjectCost.LessThan(withDefaults))
}

func TestModel_Help(t *testing.T) {
	m, _ := loadedModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Contains(t, m.View(), "toggle the selected project")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "toggle the selected project")
}
