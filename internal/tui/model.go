package tui

import (
	"context"
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/scenes"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// Model represents the entire application state
type Model struct {
	currentScene Scene
	showHelp     bool

	width  int
	height int

	planPath string
	plan     *domain.Plan
	engine   *calculation.CalculationEngine

	// working is a mutable copy of plan.Scenarios[scenarioIndex]
	scenarioIndex int
	working       *domain.Scenario
	summary       *domain.ScenarioSummary

	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel
	cashFlowModel   *scenes.CashFlowModel
	projectsModel   *scenes.ProjectsModel

	err     error
	loading bool
}

// NewModel creates the application model; the plan is loaded by Init
func NewModel(planPath string, engine *calculation.CalculationEngine) Model {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return Model{
		currentScene:    SceneParameters,
		planPath:        planPath,
		engine:          engine,
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		cashFlowModel:   scenes.NewCashFlowModel(),
		projectsModel:   scenes.NewProjectsModel(),
		width:           80,
		height:          24,
		loading:         true,
	}
}

// Init loads the plan file
func (m Model) Init() tea.Cmd {
	return loadPlanCmd(m.planPath)
}

func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		plan, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.PlanLoadedMsg{Plan: plan, Path: path}
	}
}

// Summary returns the latest projection of the working scenario
func (m Model) Summary() *domain.ScenarioSummary {
	return m.summary
}

// ScenarioName returns the name of the scenario being edited
func (m Model) ScenarioName() string {
	if m.working == nil {
		return ""
	}
	return m.working.Name
}

// selectScenario resets the working copy to the plan's scenario at index i
func (m Model) selectScenario(i int) Model {
	if m.plan == nil || len(m.plan.Scenarios) == 0 {
		return m
	}
	n := len(m.plan.Scenarios)
	m.scenarioIndex = ((i % n) + n) % n
	m.working = m.plan.Scenarios[m.scenarioIndex].Clone()

	a := m.plan.EffectiveAssumptions(m.engine.Assumptions, m.working)
	params := m.engine.ResolveParameters(m.plan, m.working, calculation.Now(), a)
	m.parametersModel.SetValues(params, a.AnnualReturnRate, a.DefaultCorrectionRate)
	m.projectsModel.SetProjects(m.plan.Projects, m.working.ActiveProjectIDs)

	return m.recalculate()
}

// recalculate runs the working scenario synchronously; unchanged inputs are served from the engine cache
func (m Model) recalculate() Model {
	summary, err := m.engine.RunScenario(context.Background(), m.plan, m.working)
	if err != nil {
		m.err = fmt.Errorf("scenario %s: %w", m.working.Name, err)
		return m
	}
	m.err = nil
	m.summary = summary
	m.resultsModel.SetResults(summary)
	m.cashFlowModel.SetProjection(summary.CashFlow)
	return m
}

// applyParameters copies slider values into the working scenario
func (m Model) applyParameters(msg tuimsg.ParameterChangedMsg) Model {
	if m.working == nil {
		return m
	}
	m.working.Parameters = msg.Parameters
	m.working.Parameters.NetWorthFixed = true

	overrides := domain.AssumptionOverrides{}
	if m.working.Assumptions != nil {
		overrides = m.working.Assumptions.Clone()
	}
	overrides.AnnualReturnRate = decimalPtr(msg.ReturnRate)
	overrides.DefaultCorrectionRate = decimalPtr(msg.CorrectionRate)
	m.working.Assumptions = &overrides

	return m.recalculate()
}

func (m Model) applyProjects(msg tuimsg.ProjectsChangedMsg) Model {
	if m.working == nil {
		return m
	}
	m.working.ActiveProjectIDs = msg.ActiveIDs
	return m.recalculate()
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
