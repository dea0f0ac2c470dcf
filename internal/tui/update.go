package tui

import (
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.cashFlowModel.SetSize(msg.Width, msg.Height)
		m.projectsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.currentScene = msg.Scene
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.PlanLoadedMsg:
		m.loading = false
		m.plan = msg.Plan
		m = m.selectScenario(0)
		m.parametersModel.SetSize(m.width, m.height)
		return m, nil

	case tuimsg.ParameterChangedMsg:
		return m.applyParameters(msg), nil

	case tuimsg.ProjectsChangedMsg:
		return m.applyProjects(msg), nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes global shortcuts before the current scene sees the key
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		m.showHelp = false
		return m, nil

	case "tab":
		return m, navigate((m.currentScene + 1) % sceneCount)

	case "shift+tab":
		return m, navigate((m.currentScene + sceneCount - 1) % sceneCount)

	case "1", "2", "3", "4":
		return m, navigate(Scene(msg.String()[0] - '1'))

	case "]":
		return m.selectScenario(m.scenarioIndex + 1), nil

	case "[":
		return m.selectScenario(m.scenarioIndex - 1), nil

	case "r":
		// discard edits to the working scenario
		return m.selectScenario(m.scenarioIndex), nil
	}

	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.plan == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentScene {
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCashFlow:
		m.cashFlowModel, cmd = m.cashFlowModel.Update(msg)
	case SceneProjects:
		m.projectsModel, cmd = m.projectsModel.Update(msg)
	}
	return m, cmd
}
