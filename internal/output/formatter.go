package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter renders a projection report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]func() Formatter{
	"console": func() Formatter { return ConsoleFormatter{} },
	"json":    func() Formatter { return JSONFormatter{Pretty: true} },
	"csv":     func() Formatter { return CSVFormatter{} },
	"html":    func() Formatter { return HTMLFormatter{} },
	"svg":     func() Formatter { return SVGChartFormatter{Width: 960, Height: 480} },
}

var aliases = map[string]string{
	"text":  "console",
	"table": "console",
	"htm":   "html",
	"chart": "svg",
}

// GetFormatterByName resolves a formatter by name or alias (case-insensitive)
func GetFormatterByName(name string) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	factory, ok := formatters[key]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)", name, strings.Join(FormatterNames(), ", "))
	}
	return factory(), nil
}

// FormatterNames lists the canonical formatter names
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders report with f and writes the result to w
func WriteFormatted(w io.Writer, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s report: %w", f.Name(), err)
	}
	return nil
}
