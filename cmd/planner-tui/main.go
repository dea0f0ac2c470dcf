package main

import (
	"fmt"
	"os"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: planner-tui <plan-file>")
		os.Exit(1)
	}
	planPath := os.Args[1]

	if _, err := os.Stat(planPath); os.IsNotExist(err) {
		fmt.Printf("Error: plan file not found: %s\n", planPath)
		os.Exit(1)
	}

	engine := calculation.NewCalculationEngine().WithCache(calculation.NewProjectionCache(0))
	p := tea.NewProgram(tui.NewModel(planPath, engine), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
