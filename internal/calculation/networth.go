package calculation

import (
	"strconv"

	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

// NetWorthInput is everything the net worth projection reads
type NetWorthInput struct {
	Parameters       domain.SimulationParameters `json:"parameters"`
	Projects         []domain.Project            `json:"projects,omitempty"`
	ActiveProjectIDs []string                    `json:"active_project_ids"`
	CurrentYear      int                         `json:"current_year,omitempty"` // 0 uses today
}

// ProjectNetWorth simulates the portfolio month by month from the current age to
// the terminal age. Each month the balance grows at the monthly equivalent of the
// annual return, then receives the contribution (before retirement age) or pays the
// withdrawal (from retirement age on), and is floored at zero.
//
// When projects are supplied a second series is run with the active project costs
// charged at their realization months.
func ProjectNetWorth(in NetWorthInput, a domain.ProjectionAssumptions) *domain.NetWorthProjection {
	p := in.Parameters

	currentAge := p.CurrentAge
	if currentAge <= 0 {
		currentAge = a.DefaultCurrentAge
	}
	currentYear := in.CurrentYear
	if currentYear == 0 {
		currentYear = nowFunc().Year()
	}

	months := (a.TerminalAge - currentAge) * 12
	if months < 0 {
		months = 0
	}

	monthlyRate := a.MonthlyReturnRate()
	contribution := p.MonthlyContribution.InexactFloat64()
	withdrawal := p.MonthlyWithdrawal().InexactFloat64()

	out := &domain.NetWorthProjection{
		Ages:             make([]int, 0, months),
		Years:            make([]string, 0, months),
		BaselineBalances: make([]float64, 0, months),
		MonthlyRate:      monthlyRate,
	}

	withProjects := len(in.Projects) > 0
	var charges map[int]float64
	if withProjects {
		out.WithProjectsBalances = make([]float64, 0, months)
		charges, out.ProjectEvents = scheduleProjects(
			domain.ActiveProjects(in.Projects, in.ActiveProjectIDs),
			currentYear, currentAge, months)
	}

	baseline := p.CurrentNetWorth.InexactFloat64()
	adjusted := baseline

	for m := 0; m < months; m++ {
		age := currentAge + m/12
		flow := -withdrawal
		if age < p.RetirementAge {
			flow = contribution
		}

		baseline = floorZero(baseline*(1+monthlyRate) + flow)

		out.Ages = append(out.Ages, age)
		out.Years = append(out.Years, strconv.Itoa(currentYear+m/12))
		out.BaselineBalances = append(out.BaselineBalances, baseline)

		if withProjects {
			adjusted = floorZero(adjusted*(1+monthlyRate) + flow - charges[m])
			out.WithProjectsBalances = append(out.WithProjectsBalances, adjusted)
		}
	}

	return out
}

// scheduleProjects maps each realization of an active project to the first month of
// its realization year. Realizations outside the horizon are reported but not charged.
func scheduleProjects(projects []domain.Project, currentYear, currentAge, months int) (map[int]float64, []domain.ProjectEvent) {
	charges := make(map[int]float64)
	var events []domain.ProjectEvent

	for _, project := range projects {
		cost := project.TotalCost.InexactFloat64()
		for _, year := range project.RealizationYears(currentYear, currentAge) {
			month := (year - currentYear) * 12
			event := domain.ProjectEvent{
				ProjectID: project.ID,
				Name:      project.Name,
				Year:      year,
				Month:     -1,
				Cost:      project.TotalCost,
			}
			if month >= 0 && month < months {
				charges[month] += cost
				event.Month = month
				event.Applied = true
			}
			events = append(events, event)
		}
	}

	return charges, events
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
