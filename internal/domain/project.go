package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Priority ranks a project; lower values are more important
type Priority int

const (
	PriorityEssential Priority = iota
	PriorityDesire
	PriorityDream
)

func (p Priority) String() string {
	switch p {
	case PriorityEssential:
		return "essential"
	case PriorityDesire:
		return "desire"
	case PriorityDream:
		return "dream"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParsePriority parses a priority tier label
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "essential", "essencial", "":
		return PriorityEssential, nil
	case "desire", "desejo":
		return PriorityDesire, nil
	case "dream", "sonho":
		return PriorityDream, nil
	default:
		return PriorityEssential, fmt.Errorf("unknown project priority %q", s)
	}
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Project is a discrete life goal with a total cost.
// The realization point is TargetYear, else TargetAge, else the start of the projection.
type Project struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	TotalCost     decimal.Decimal `yaml:"total_cost" json:"total_cost"`
	Priority      Priority        `yaml:"priority" json:"priority"`
	TargetYear    int             `yaml:"target_year,omitempty" json:"target_year,omitempty"`
	TargetAge     int             `yaml:"target_age,omitempty" json:"target_age,omitempty"`
	Occurrences   int             `yaml:"occurrences,omitempty" json:"occurrences,omitempty"`       // 0 or 1 means one-time
	IntervalYears int             `yaml:"interval_years,omitempty" json:"interval_years,omitempty"` // spacing between occurrences
	Active        bool            `yaml:"active" json:"active"`
}

// RealizationYears lists the calendar years in which the project is charged
func (p Project) RealizationYears(currentYear, currentAge int) []int {
	first := currentYear
	switch {
	case p.TargetYear > 0:
		first = p.TargetYear
	case p.TargetAge > 0:
		first = currentYear + (p.TargetAge - currentAge)
	}

	n := p.Occurrences
	if n < 1 {
		n = 1
	}
	interval := p.IntervalYears
	if interval < 1 {
		interval = 1
	}

	years := make([]int, n)
	for i := range years {
		years[i] = first + i*interval
	}
	return years
}

// ActiveProjects selects the projects included in a simulation.
// With a nil id list each project's own Active flag decides; otherwise only listed ids count.
func ActiveProjects(projects []Project, activeIDs []string) []Project {
	var out []Project
	if activeIDs == nil {
		for _, p := range projects {
			if p.Active {
				out = append(out, p)
			}
		}
		return out
	}

	wanted := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		wanted[id] = struct{}{}
	}
	for _, p := range projects {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
