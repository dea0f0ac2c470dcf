package output

import (
	"bytes"
	"fmt"
	"strings"
)

// ConsoleFormatter renders a plain-text report for terminals
type ConsoleFormatter struct {
	// Yearly adds the per-age table below each scenario summary
	Yearly bool
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("FINANCIAL PLAN PROJECTION\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")
	if report.ProfileName != "" {
		fmt.Fprintf(&b, "Client:    %s (%s)\n", report.ProfileName, report.PlanID)
	}
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	for i, s := range report.Scenarios {
		fmt.Fprintf(&b, "SCENARIO %d: %s\n", i+1, s.Name)
		b.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&b, "  Current Age:              %d\n", s.CurrentAge)
		fmt.Fprintf(&b, "  Retirement Age:           %d\n", s.RetirementAge)
		fmt.Fprintf(&b, "  Starting Net Worth:       %s\n", FormatCurrency(s.StartingBalance))
		fmt.Fprintf(&b, "  Monthly Contribution:     %s\n", FormatCurrency(s.MonthlyContribution))
		fmt.Fprintf(&b, "  Monthly Withdrawal:       %s\n", FormatCurrency(s.MonthlyWithdrawal))
		fmt.Fprintf(&b, "  Balance At Retirement:    %s\n", FormatCurrency(s.BalanceAtRetirement))
		fmt.Fprintf(&b, "  Peak Balance:             %s\n", FormatCurrency(s.PeakBalance))
		fmt.Fprintf(&b, "  Final Balance (age %d):  %s\n", s.TerminalAge, FormatCurrency(s.FinalBalance))
		fmt.Fprintf(&b, "  Final With Projects:      %s\n", FormatCurrency(s.FinalBalanceWithProjects))
		fmt.Fprintf(&b, "  Project Cost Applied:     %s\n", FormatCurrency(s.TotalProjectCost))
		if s.Sustainable {
			b.WriteString("  Status:                   ✓ Sustainable\n")
		} else {
			fmt.Fprintf(&b, "  Status:                   ⚠ Depleted at age %d\n", s.DepletionAge)
		}
		if s.DepletionAgeWithProjects > 0 && s.DepletionAgeWithProjects != s.DepletionAge {
			fmt.Fprintf(&b, "  With projects:            ⚠ Depleted at age %d\n", s.DepletionAgeWithProjects)
		}

		if s.NetWorth != nil && len(s.NetWorth.ProjectEvents) > 0 {
			b.WriteString("\n  PROJECTS\n")
			for _, ev := range s.NetWorth.ProjectEvents {
				status := "applied"
				if !ev.Applied {
					status = "outside horizon"
				}
				fmt.Fprintf(&b, "    %-24s %d  %14s  %s\n", ev.Name, ev.Year, FormatCurrency(ev.Cost), status)
			}
		}

		if s.CashFlow != nil {
			if deficits := s.CashFlow.DeficitYears(); len(deficits) > 0 {
				fmt.Fprintf(&b, "\n  Cash flow deficit in %d year(s), first in %d\n", len(deficits), deficits[0])
			}
		}

		if c.Yearly {
			b.WriteString("\n")
			fmt.Fprintf(&b, "  %-5s %-6s %14s %14s %14s %16s %16s\n", "Age", "Year", "Income", "Expense", "Cash Balance", "Net Worth", "With Projects")
			for _, row := range YearRows(s) {
				income, expense, balance := "-", "-", "-"
				if row.HasCashFlow {
					income = FormatCurrency(row.Income)
					expense = FormatCurrency(row.Expense)
					balance = FormatCurrency(row.CashFlowBalance)
				}
				fmt.Fprintf(&b, "  %-5d %-6s %14s %14s %14s %16s %16s\n", row.Age, row.Year, income, expense, balance,
					FormatMoney(row.NetWorth), FormatMoney(row.NetWorthWithProject))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("ASSUMPTIONS\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, line := range report.AssumptionLines() {
		fmt.Fprintf(&b, "  • %s\n", line)
	}

	return b.Bytes(), nil
}
