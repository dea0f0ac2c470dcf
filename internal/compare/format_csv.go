package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Monthly Contribution",
		"Monthly Withdrawal",
		"Balance At Retirement",
		"Peak Balance",
		"Final Balance",
		"Final Balance With Projects",
		"Project Cost",
		"Funded Years",
		"Depletion Age",
		"Deficit Years",
		"Final Balance Diff",
		"Final Balance % Change",
		"Funded Years Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		result.MonthlyContribution.StringFixed(2),
		result.MonthlyWithdrawal.StringFixed(2),
		result.BalanceAtRetirement.StringFixed(2),
		result.PeakBalance.StringFixed(2),
		result.FinalBalance.StringFixed(2),
		result.FinalBalanceWithProjects.StringFixed(2),
		result.TotalProjectCost.StringFixed(2),
		strconv.Itoa(result.FundedYears),
		strconv.Itoa(result.DepletionAge),
		strconv.Itoa(result.DeficitYears),
		result.FinalBalanceDiff.StringFixed(2),
		result.FinalBalancePctFromBase.StringFixed(2),
		strconv.Itoa(result.FundedYearsDiff),
	}
}
