package transform

import (
	"fmt"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

// currentActiveIDs materializes the scenario's active project list.
// A scenario without an explicit list inherits each project's Active flag.
func currentActiveIDs(base *domain.Scenario, catalogue []domain.Project) []string {
	if base.ActiveProjectIDs != nil {
		return append([]string{}, base.ActiveProjectIDs...)
	}
	ids := []string{}
	for _, p := range domain.ActiveProjects(catalogue, nil) {
		ids = append(ids, p.ID)
	}
	return ids
}

func findProject(catalogue []domain.Project, id string) (domain.Project, bool) {
	for _, p := range catalogue {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// ActivateProject includes a project from the plan in the simulation
type ActivateProject struct {
	ID       string
	Projects []domain.Project
}

func (ap *ActivateProject) Name() string {
	return "activate_project"
}

func (ap *ActivateProject) Description() string {
	if p, ok := findProject(ap.Projects, ap.ID); ok {
		return fmt.Sprintf("Include project %s (%s)", p.Name, p.TotalCost.StringFixed(2))
	}
	return fmt.Sprintf("Include project %s", ap.ID)
}

func (ap *ActivateProject) Validate(base *domain.Scenario) error {
	if err := requireBase(ap.Name(), base); err != nil {
		return err
	}
	if _, ok := findProject(ap.Projects, ap.ID); !ok {
		return NewTransformError(ap.Name(), "validate", fmt.Sprintf("unknown project %q", ap.ID), nil)
	}
	return nil
}

func (ap *ActivateProject) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	ids := currentActiveIDs(base, ap.Projects)
	for _, id := range ids {
		if id == ap.ID {
			modified.ActiveProjectIDs = ids
			return modified, nil
		}
	}
	modified.ActiveProjectIDs = append(ids, ap.ID)
	return modified, nil
}

// DeactivateProject removes a project from the simulation
type DeactivateProject struct {
	ID       string
	Projects []domain.Project
}

func (dp *DeactivateProject) Name() string {
	return "deactivate_project"
}

func (dp *DeactivateProject) Description() string {
	if p, ok := findProject(dp.Projects, dp.ID); ok {
		return fmt.Sprintf("Drop project %s", p.Name)
	}
	return fmt.Sprintf("Drop project %s", dp.ID)
}

func (dp *DeactivateProject) Validate(base *domain.Scenario) error {
	if err := requireBase(dp.Name(), base); err != nil {
		return err
	}
	if _, ok := findProject(dp.Projects, dp.ID); !ok {
		return NewTransformError(dp.Name(), "validate", fmt.Sprintf("unknown project %q", dp.ID), nil)
	}
	return nil
}

func (dp *DeactivateProject) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	kept := []string{}
	for _, id := range currentActiveIDs(base, dp.Projects) {
		if id != dp.ID {
			kept = append(kept, id)
		}
	}
	modified.ActiveProjectIDs = kept
	return modified, nil
}

// LimitPriority keeps only active projects at or above the given priority tier
type LimitPriority struct {
	Max      domain.Priority
	Projects []domain.Project
}

func (lp *LimitPriority) Name() string {
	return "limit_priority"
}

func (lp *LimitPriority) Description() string {
	return fmt.Sprintf("Keep only %s projects or more important", lp.Max)
}

func (lp *LimitPriority) Validate(base *domain.Scenario) error {
	if err := requireBase(lp.Name(), base); err != nil {
		return err
	}
	if lp.Max < domain.PriorityEssential || lp.Max > domain.PriorityDream {
		return NewTransformError(lp.Name(), "validate", fmt.Sprintf("unknown priority %d", int(lp.Max)), nil)
	}
	return nil
}

func (lp *LimitPriority) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	kept := []string{}
	for _, id := range currentActiveIDs(base, lp.Projects) {
		if p, ok := findProject(lp.Projects, id); ok && p.Priority <= lp.Max {
			kept = append(kept, id)
		}
	}
	modified.ActiveProjectIDs = kept
	return modified, nil
}

// ClearProjects runs the scenario without any project
type ClearProjects struct{}

func (cp *ClearProjects) Name() string {
	return "clear_projects"
}

func (cp *ClearProjects) Description() string {
	return "Run without any project"
}

func (cp *ClearProjects) Validate(base *domain.Scenario) error {
	return requireBase(cp.Name(), base)
}

func (cp *ClearProjects) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.Clone()
	modified.ActiveProjectIDs = []string{}
	return modified, nil
}
