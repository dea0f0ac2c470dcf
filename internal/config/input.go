package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	plan, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return plan, nil
}

// Parse decodes and validates a plan document
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Normalize(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ValidationError reports a plan that failed validation
type ValidationError struct {
	PlanID string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.PlanID == "" {
		return fmt.Sprintf("plan validation failed: %v", e.Err)
	}
	return fmt.Sprintf("plan %s validation failed: %v", e.PlanID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Normalize fills defaults and validates a plan assembled outside of Parse
func (ip *InputParser) Normalize(plan *domain.Plan) error {
	ip.applyDefaults(plan)
	if err := ip.ValidatePlan(plan); err != nil {
		return &ValidationError{PlanID: plan.Profile.ID, Err: err}
	}
	return nil
}

// applyDefaults fills values a plan file may leave out
func (ip *InputParser) applyDefaults(plan *domain.Plan) {
	for i := range plan.CashFlowItems {
		if plan.CashFlowItems[i].StartType == "" {
			plan.CashFlowItems[i].StartType = domain.AnchorYear
		}
	}
	for i := range plan.FamilyMembers {
		if plan.FamilyMembers[i].Relationship == "" {
			plan.FamilyMembers[i].Relationship = domain.RelationshipOther
		}
	}
}

// ValidatePlan validates a loaded plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateProfile(&plan.Profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	for i, member := range plan.FamilyMembers {
		if err := ip.validateFamilyMember(&member); err != nil {
			return fmt.Errorf("family member %d (%s) validation failed: %w", i, member.Name, err)
		}
	}

	for i, item := range plan.CashFlowItems {
		if err := ip.ValidateCashFlowItem(&item); err != nil {
			return fmt.Errorf("cash flow item %d (%s) validation failed: %w", i, item.Description, err)
		}
	}

	projectIDs := make(map[string]bool, len(plan.Projects))
	for i, project := range plan.Projects {
		if err := ip.ValidateProject(&project); err != nil {
			return fmt.Errorf("project %d (%s) validation failed: %w", i, project.Name, err)
		}
		if projectIDs[project.ID] {
			return fmt.Errorf("duplicate project id %q", project.ID)
		}
		projectIDs[project.ID] = true
	}

	if err := ip.validateAssumptions(plan.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}

	if len(plan.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	names := make(map[string]bool, len(plan.Scenarios))
	for i, scenario := range plan.Scenarios {
		if err := ip.validateScenario(&scenario, projectIDs); err != nil {
			return fmt.Errorf("scenario %d (%s) validation failed: %w", i, scenario.Name, err)
		}
		if names[scenario.Name] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		names[scenario.Name] = true
	}

	return nil
}

func (ip *InputParser) validateProfile(p *domain.Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if p.BirthDate != "" {
		if _, ok := dateutil.ParseDate(p.BirthDate); !ok {
			return fmt.Errorf("birth date %q is not a valid date", p.BirthDate)
		}
	}
	return ValidateLifeExpectancy(p.LifeExpectancy)
}

// ValidateLifeExpectancy accepts 0, meaning the assumption default, up to domain.MaxAge
func ValidateLifeExpectancy(years int) error {
	if years < 0 || years > domain.MaxAge {
		return fmt.Errorf("life expectancy must be between 0 and %d, got %d", domain.MaxAge, years)
	}
	return nil
}

func (ip *InputParser) validateFamilyMember(m *domain.FamilyMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := domain.ParseRelationship(string(m.Relationship)); err != nil {
		return err
	}
	if m.BirthDate != "" {
		if _, ok := dateutil.ParseDate(m.BirthDate); !ok {
			return fmt.Errorf("birth date %q is not a valid date", m.BirthDate)
		}
	}
	return nil
}

// ValidateCashFlowItem rejects unknown labels, negative amounts and anchors outside
// a lifetime. A non-positive duration is allowed and simply never becomes active.
func (ip *InputParser) ValidateCashFlowItem(item *domain.CashFlowItem) error {
	if item.Kind != domain.FlowIncome && item.Kind != domain.FlowExpense {
		return fmt.Errorf("kind must be income or expense, got %q", item.Kind)
	}
	if item.StartType != domain.AnchorYear && item.StartType != domain.AnchorAge {
		return fmt.Errorf("start type must be year or age, got %q", item.StartType)
	}
	if item.MonthlyAmount.IsNegative() {
		return fmt.Errorf("monthly amount cannot be negative")
	}
	if item.AnnualCorrection != nil && item.AnnualCorrection.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return fmt.Errorf("annual correction must be greater than -100%%")
	}
	switch item.StartType {
	case domain.AnchorYear:
		if err := validateYear("start year", item.Start); err != nil {
			return err
		}
	case domain.AnchorAge:
		if item.Start < 0 || item.Start > domain.MaxAge {
			return fmt.Errorf("start age must be between 0 and %d, got %d", domain.MaxAge, item.Start)
		}
	}
	if item.DurationYears > domain.MaxAge {
		return fmt.Errorf("duration cannot exceed %d years, got %d", domain.MaxAge, item.DurationYears)
	}
	return nil
}

// ValidateProject rejects negative costs and realizations outside a lifetime
func (ip *InputParser) ValidateProject(p *domain.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if p.TotalCost.IsNegative() {
		return fmt.Errorf("total cost cannot be negative")
	}
	if p.TargetYear < 0 || p.TargetAge < 0 {
		return fmt.Errorf("target year and age cannot be negative")
	}
	if p.Occurrences < 0 || p.IntervalYears < 0 {
		return fmt.Errorf("occurrences and interval cannot be negative")
	}
	if p.TargetYear > 0 {
		if err := validateYear("target year", p.TargetYear); err != nil {
			return err
		}
	}
	if p.TargetAge > domain.MaxAge || p.Occurrences > domain.MaxAge || p.IntervalYears > domain.MaxAge {
		return fmt.Errorf("target age, occurrences and interval cannot exceed %d", domain.MaxAge)
	}
	return nil
}

const (
	minYear = 1900
	maxYear = 2200
)

func validateYear(field string, year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%s must be between %d and %d, got %d", field, minYear, maxYear, year)
	}
	return nil
}

func (ip *InputParser) validateScenario(s *domain.Scenario, projectIDs map[string]bool) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	p := s.Parameters
	if p.CurrentAge < 0 {
		return fmt.Errorf("current age cannot be negative")
	}
	if p.RetirementAge <= 0 || p.RetirementAge > domain.MaxAge {
		return fmt.Errorf("retirement age must be between 1 and %d, got %d", domain.MaxAge, p.RetirementAge)
	}
	if p.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	if p.DesiredRetirementIncome.IsNegative() || p.OtherIncome.IsNegative() {
		return fmt.Errorf("retirement incomes cannot be negative")
	}
	for _, id := range s.ActiveProjectIDs {
		if !projectIDs[id] {
			return fmt.Errorf("active project %q is not defined", id)
		}
	}
	return ip.validateAssumptions(s.Assumptions)
}

func (ip *InputParser) validateAssumptions(o *domain.AssumptionOverrides) error {
	if o == nil {
		return nil
	}
	return domain.DefaultProjectionAssumptions().WithOverrides(o).Validate()
}
