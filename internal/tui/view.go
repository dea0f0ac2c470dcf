package tui

import (
	"fmt"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return tuistyles.InfoStyle.Render("Loading " + m.planPath + "...")
	}
	if m.plan == nil {
		return m.renderError()
	}

	var content string
	switch {
	case m.showHelp:
		content = renderHelp()
	case m.err != nil:
		content = m.renderError()
	default:
		switch m.currentScene {
		case SceneParameters:
			content = m.parametersModel.View()
		case SceneResults:
			content = m.resultsModel.View()
		case SceneCashFlow:
			content = m.cashFlowModel.View()
		case SceneProjects:
			content = m.projectsModel.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(max(m.height-5, 1)).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render(fmt.Sprintf("%s · %s", m.plan.Profile.Name, m.ScenarioName()))

	tabs := make([]string, 0, sceneCount)
	for s := Scene(0); s < sceneCount; s++ {
		label := fmt.Sprintf(" %d %s ", s+1, s)
		if s == m.currentScene {
			tabs = append(tabs, tuistyles.SelectedItemStyle.Underline(true).Render(label))
		} else {
			tabs = append(tabs, tuistyles.HelpStyle.Render(label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(tabs, "│"), "")
}

func (m Model) renderStatusBar() string {
	status := "sustainable"
	if m.summary != nil && !m.summary.Sustainable {
		status = fmt.Sprintf("depleted at %d", m.summary.DepletionAge)
	}
	left := tuistyles.StatusKeyStyle.Render(fmt.Sprintf("scenario %d/%d", m.scenarioIndex+1, len(m.plan.Scenarios))) + " " + status
	if stats := m.cacheStats(); stats != "" {
		left += "  " + stats
	}
	right := "tab scenes • [ ] scenario • r reset • ? help • q quit"
	return tuistyles.StatusBarStyle.Width(max(m.width, 1)).Render(left + "   " + right)
}

func (m Model) cacheStats() string {
	if m.engine.Cache == nil {
		return ""
	}
	s := m.engine.Cache.Stats()
	return fmt.Sprintf("cache %d/%d", s.Hits, s.Hits+s.Misses)
}

func (m Model) renderError() string {
	if m.err == nil {
		return ""
	}
	return tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
}

func renderHelp() string {
	rows := [][2]string{
		{"tab / shift+tab", "next / previous scene"},
		{"1-4", "jump to scene"},
		{"[ ]", "previous / next scenario"},
		{"r", "reset the scenario to its saved values"},
		{"↑/↓", "move selection"},
		{"←/→", "adjust the focused slider"},
		{"space", "toggle the selected project"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", tuistyles.StatusKeyStyle.Render(fmt.Sprintf("%-16s", r[0])), r[1]))
	}
	b.WriteString("\n" + tuistyles.HelpStyle.Render("esc closes this help"))
	return b.String()
}
