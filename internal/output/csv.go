package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one row per scenario and age
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Scenario", "Age", "Year", "Income", "Expense", "CashFlowBalance", "NetWorth", "NetWorthWithProjects"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, s := range report.Scenarios {
		for _, row := range YearRows(s) {
			record := []string{
				s.Name,
				strconv.Itoa(row.Age),
				row.Year,
				"", "", "",
				strconv.FormatFloat(row.NetWorth, 'f', 2, 64),
				strconv.FormatFloat(row.NetWorthWithProject, 'f', 2, 64),
			}
			if row.HasCashFlow {
				record[3] = row.Income.StringFixed(2)
				record[4] = row.Expense.StringFixed(2)
				record[5] = row.CashFlowBalance.StringFixed(2)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
