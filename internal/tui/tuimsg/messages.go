package tuimsg

import (
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// PlanLoadedMsg carries a freshly parsed plan
type PlanLoadedMsg struct {
	Plan *domain.Plan
	Path string
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ParameterChangedMsg carries the full set of slider values after a change
type ParameterChangedMsg struct {
	Parameters     domain.SimulationParameters
	ReturnRate     decimal.Decimal // fraction
	CorrectionRate decimal.Decimal // fraction
}

// ProjectsChangedMsg carries the project ids now included in the simulation
type ProjectsChangedMsg struct {
	ActiveIDs []string
}
