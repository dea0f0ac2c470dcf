package scenes

import (
	"fmt"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuimsg"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui/tuistyles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var keyToggle = key.NewBinding(key.WithKeys(" ", "x", "enter"))

// ProjectsModel lists the plan's projects and toggles which ones are simulated
type ProjectsModel struct {
	projects []domain.Project
	active   map[string]bool
	cursor   int
	width    int
	height   int
}

func NewProjectsModel() *ProjectsModel {
	return &ProjectsModel{active: map[string]bool{}}
}

// SetProjects loads the projects and marks the ones the scenario includes
func (m *ProjectsModel) SetProjects(projects []domain.Project, activeIDs []string) {
	m.projects = projects
	m.active = map[string]bool{}
	for _, p := range domain.ActiveProjects(projects, activeIDs) {
		m.active[p.ID] = true
	}
	m.cursor = min(m.cursor, max(len(projects)-1, 0))
}

func (m *ProjectsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ActiveIDs returns the included project ids in plan order, never nil
func (m *ProjectsModel) ActiveIDs() []string {
	ids := []string{}
	for _, p := range m.projects {
		if m.active[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Update handles cursor movement and toggling
func (m *ProjectsModel) Update(msg tea.Msg) (*ProjectsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.projects) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keyDown):
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keyToggle):
		id := m.projects[m.cursor].ID
		m.active[id] = !m.active[id]
		msg := tuimsg.ProjectsChangedMsg{ActiveIDs: m.ActiveIDs()}
		return m, func() tea.Msg { return msg }
	}
	return m, nil
}

// View renders the project list
func (m *ProjectsModel) View() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Projects"))
	content.WriteString("\n\n")

	if len(m.projects) == 0 {
		content.WriteString(tuistyles.InfoStyle.Render("This plan has no projects"))
		return content.String()
	}

	header := fmt.Sprintf("    %-3s %-30s %-10s %14s  %s", "", "Project", "Priority", "Cost", "When")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")

	for i, p := range m.projects {
		check := "[ ]"
		if m.active[p.ID] {
			check = "[x]"
		}
		line := fmt.Sprintf("%-3s %-30s %-10s %14s  %s", check, truncate(p.Name, 30), p.Priority, tuistyles.FormatCurrency(p.TotalCost), when(p))
		if i == m.cursor {
			content.WriteString(tuistyles.SelectedItemStyle.Render("  ▸ " + line))
		} else {
			content.WriteString(tuistyles.UnselectedItemStyle.Render("    " + line))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(tuistyles.HelpStyle.Render("↑/↓ select • space toggle"))
	return content.String()
}

func when(p domain.Project) string {
	var s string
	switch {
	case p.TargetYear > 0:
		s = fmt.Sprintf("in %d", p.TargetYear)
	case p.TargetAge > 0:
		s = fmt.Sprintf("at age %d", p.TargetAge)
	default:
		s = "now"
	}
	if p.Occurrences > 1 {
		s += fmt.Sprintf(", %d× every %d years", p.Occurrences, p.IntervalYears)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
