package tui

// Scene represents the screens of the TUI
type Scene int

const (
	SceneParameters Scene = iota
	SceneResults
	SceneCashFlow
	SceneProjects
	sceneCount
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// String returns the tab label of a scene
func (s Scene) String() string {
	switch s {
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Net worth"
	case SceneCashFlow:
		return "Cash flow"
	case SceneProjects:
		return "Projects"
	default:
		return "Unknown"
	}
}
