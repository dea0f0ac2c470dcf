package breakeven

import (
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	OptimizeContribution  OptimizationTarget = "contribution"   // minimum monthly contribution that stays funded
	OptimizeIncome        OptimizationTarget = "income"         // maximum desired retirement income that stays funded
	OptimizeRetirementAge OptimizationTarget = "retirement_age" // earliest funded retirement age
	OptimizeAll           OptimizationTarget = "all"
)

// ParseTarget maps a CLI/API label to a target
func ParseTarget(s string) (OptimizationTarget, error) {
	switch OptimizationTarget(s) {
	case OptimizeContribution, OptimizeIncome, OptimizeRetirementAge, OptimizeAll:
		return OptimizationTarget(s), nil
	case "":
		return OptimizeAll, nil
	default:
		return "", &BreakEvenError{Operation: "parse_target", Message: "unknown optimization target " + s}
	}
}

// Constraints define bounds for the searched parameter
type Constraints struct {
	MinContribution *decimal.Decimal `json:"min_contribution,omitempty"`
	MaxContribution *decimal.Decimal `json:"max_contribution,omitempty"`

	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`

	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// IncludeProjects judges funding on the with-projects series instead of the baseline
	IncludeProjects bool `json:"include_projects"`
}

// DefaultConstraints returns the unbounded search with projects included
func DefaultConstraints() Constraints {
	return Constraints{IncludeProjects: true}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Plan          *domain.Plan
	BaseScenario  *domain.Scenario
	Target        OptimizationTarget
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // Convergence tolerance for binary search, in currency units
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"-"`
	Target          OptimizationTarget  `json:"target"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Solved parameters
	OptimalContribution  *decimal.Decimal `json:"optimal_contribution,omitempty"`
	OptimalIncome        *decimal.Decimal `json:"optimal_income,omitempty"`
	OptimalRetirementAge *int             `json:"optimal_retirement_age,omitempty"`

	// Results at the solved parameters
	ScenarioSummary     *domain.ScenarioSummary `json:"scenario_summary,omitempty"`
	BaseScenarioSummary *domain.ScenarioSummary `json:"base_scenario_summary,omitempty"`
	BaseFunded          bool                    `json:"base_funded"`
}

// MultiDimensionalResult contains results when solving for every target
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // one currency unit per month
		MaxIterations: 60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinContribution != nil && c.MinContribution.IsNegative() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_contribution cannot be negative"}
	}
	if c.MinContribution != nil && c.MaxContribution != nil && c.MinContribution.GreaterThan(*c.MaxContribution) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_contribution cannot be greater than max_contribution"}
	}

	if c.MinIncome != nil && c.MinIncome.IsNegative() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be negative"}
	}
	if c.MinIncome != nil && c.MaxIncome != nil && c.MinIncome.GreaterThan(*c.MaxIncome) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be greater than max_income"}
	}

	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MinRetirementAge > *c.MaxRetirementAge {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_retirement_age cannot be greater than max_retirement_age"}
	}
	if c.MinRetirementAge != nil && *c.MinRetirementAge <= 0 {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_retirement_age must be positive"}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
