package output

import (
	"bytes"
	_ "embed"
	"html/template"
)

// HTMLFormatter produces a standalone HTML report with the SVG chart inlined
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"money": FormatMoney,
	"rows":  YearRows,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	chart, err := SVGChartFormatter{Width: 880, Height: 360}.Format(report)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := struct {
		*Report
		Chart       template.HTML
		Assumptions []string
	}{report, template.HTML(chart), report.AssumptionLines()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
