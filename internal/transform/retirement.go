package transform

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

// PostponeRetirement moves the retirement age by a number of years.
// Positive values explore "work a little longer", negative ones an earlier exit.
type PostponeRetirement struct {
	Years int
}

func (sr *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (sr *PostponeRetirement) Description() string {
	if sr.Years < 0 {
		return fmt.Sprintf("Retire %d years earlier", -sr.Years)
	}
	return fmt.Sprintf("Postpone retirement by %d years", sr.Years)
}

func (sr *PostponeRetirement) Validate(base *domain.Scenario) error {
	if err := requireBase(sr.Name(), base); err != nil {
		return err
	}
	if base.Parameters.RetirementAge+sr.Years <= 0 {
		return NewTransformError(sr.Name(), "validate",
			fmt.Sprintf("retirement age %d shifted by %d years is not positive", base.Parameters.RetirementAge, sr.Years), nil)
	}
	return nil
}

func (sr *PostponeRetirement) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.RetirementAge += sr.Years
	return modified, nil
}

// SetRetirementAge sets the retirement age to an absolute value.
type SetRetirementAge struct {
	Age int
}

func (s *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (s *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", s.Age)
}

func (s *SetRetirementAge) Validate(base *domain.Scenario) error {
	if err := requireBase(s.Name(), base); err != nil {
		return err
	}
	if s.Age <= 0 || s.Age > 130 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("age must be between 1 and 130, got %d", s.Age), nil)
	}
	return nil
}

func (s *SetRetirementAge) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.Parameters.RetirementAge = s.Age
	return modified, nil
}
