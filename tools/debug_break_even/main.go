package main

import (
	"context"
	"fmt"
	"os"

	calc "github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

// Prints the yearly net worth of every scenario of a plan as CSV, then the
// age at which the first two scenarios swap places.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_break_even <plan-file>")
		return
	}
	plan, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	engine := calc.NewCalculationEngine()
	var summaries []*domain.ScenarioSummary
	for i := range plan.Scenarios {
		s, err := engine.RunScenario(context.Background(), plan, &plan.Scenarios[i])
		if err != nil {
			panic(err)
		}
		summaries = append(summaries, s)
	}
	if len(summaries) == 0 {
		fmt.Println("no scenarios")
		return
	}

	minLen := -1
	for _, s := range summaries {
		if minLen == -1 || s.NetWorth.Len() < minLen {
			minLen = s.NetWorth.Len()
		}
	}
	if minLen <= 0 {
		fmt.Println("no projection data")
		return
	}

	header := "Month,Year,Age"
	for i := range summaries {
		header += fmt.Sprintf(",S%d_Baseline,S%d_WithProjects", i+1, i+1)
	}
	fmt.Println(header)

	for idx := 0; idx < minLen; idx += 12 {
		first := summaries[0].NetWorth
		row := fmt.Sprintf("%d,%s,%d", idx, first.Years[idx], first.Ages[idx])
		for _, s := range summaries {
			nw := s.NetWorth
			withProjects := nw.BaselineBalances[idx]
			if nw.WithProjectsBalances != nil {
				withProjects = nw.WithProjectsBalances[idx]
			}
			row += fmt.Sprintf(",%.0f,%.0f", nw.BaselineBalances[idx], withProjects)
		}
		fmt.Println(row)
	}

	for _, s := range summaries {
		fmt.Printf("%s: retire %d, depleted %d (with projects %d), final %s\n",
			s.Name, s.RetirementAge, s.DepletionAge, s.DepletionAgeWithProjects, s.FinalBalance.StringFixed(0))
	}

	if len(summaries) >= 2 {
		if be := crossover(summaries[0].NetWorth, summaries[1].NetWorth); be != nil {
			fmt.Printf("\nCrossover at age %d in %s (S1=%.0f S2=%.0f)\n", be.Age, be.Year, be.A, be.B)
		} else {
			fmt.Println("\nNo crossover within projection horizon")
		}
	}
}

type crossoverPoint struct {
	Age  int
	Year string
	A, B float64
}

// crossover returns the first month at which the sign of a-b changes
func crossover(a, b *domain.NetWorthProjection) *crossoverPoint {
	length := min(a.Len(), b.Len())
	if length == 0 {
		return nil
	}

	prev := a.BaselineBalances[0] - b.BaselineBalances[0]
	for i := 1; i < length; i++ {
		diff := a.BaselineBalances[i] - b.BaselineBalances[i]
		if diff == 0 || (diff > 0) != (prev > 0) {
			return &crossoverPoint{Age: a.Ages[i], Year: a.Years[i], A: a.BaselineBalances[i], B: b.BaselineBalances[i]}
		}
		prev = diff
	}
	return nil
}
