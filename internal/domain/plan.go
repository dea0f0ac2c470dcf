package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding is a named asset or liability value
type Holding struct {
	Name     string          `yaml:"name" json:"name"`
	Category string          `yaml:"category,omitempty" json:"category,omitempty"`
	Value    decimal.Decimal `yaml:"value" json:"value"`
}

// BalanceSheet lists what the client owns and owes
type BalanceSheet struct {
	Assets      []Holding `yaml:"assets,omitempty" json:"assets,omitempty"`
	Liabilities []Holding `yaml:"liabilities,omitempty" json:"liabilities,omitempty"`
}

// IsEmpty reports whether no holdings are recorded
func (b BalanceSheet) IsEmpty() bool {
	return len(b.Assets) == 0 && len(b.Liabilities) == 0
}

// NetWorth returns total assets minus total liabilities
func (b BalanceSheet) NetWorth() decimal.Decimal {
	total := decimal.Zero
	for _, a := range b.Assets {
		total = total.Add(a.Value)
	}
	for _, l := range b.Liabilities {
		total = total.Sub(l.Value)
	}
	return total
}

// Plan is everything loaded for one client before a projection can run
type Plan struct {
	Profile       Profile              `yaml:"profile" json:"profile"`
	FamilyMembers []FamilyMember       `yaml:"family_members,omitempty" json:"family_members,omitempty"`
	CashFlowItems []CashFlowItem       `yaml:"cash_flow_items,omitempty" json:"cash_flow_items,omitempty"`
	Projects      []Project            `yaml:"projects,omitempty" json:"projects,omitempty"`
	BalanceSheet  BalanceSheet         `yaml:"balance_sheet,omitempty" json:"balance_sheet,omitempty"`
	Scenarios     []Scenario           `yaml:"scenarios" json:"scenarios"`
	Assumptions   *AssumptionOverrides `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
}

// FindScenario returns the named scenario, or the first one when name is empty
func (p *Plan) FindScenario(name string) (*Scenario, error) {
	if len(p.Scenarios) == 0 {
		return nil, fmt.Errorf("plan %s has no scenarios", p.Profile.ID)
	}
	if name == "" {
		return &p.Scenarios[0], nil
	}
	for i := range p.Scenarios {
		if p.Scenarios[i].Name == name {
			return &p.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found in plan %s", name, p.Profile.ID)
}

// ScenarioNames lists scenario names in file order
func (p *Plan) ScenarioNames() []string {
	names := make([]string, len(p.Scenarios))
	for i, s := range p.Scenarios {
		names[i] = s.Name
	}
	return names
}

// FindProject looks a project up by id
func (p *Plan) FindProject(id string) (*Project, bool) {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return &p.Projects[i], true
		}
	}
	return nil, false
}

// EffectiveAssumptions layers plan then scenario overrides on base
func (p *Plan) EffectiveAssumptions(base ProjectionAssumptions, s *Scenario) ProjectionAssumptions {
	a := base.WithOverrides(p.Assumptions)
	if s != nil {
		a = a.WithOverrides(s.Assumptions)
	}
	return a
}
