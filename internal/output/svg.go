package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// SVGChartFormatter draws the net worth series of every scenario, baseline solid and
// with-projects dashed, above a bar band with the first scenario's yearly cash flow balance.
type SVGChartFormatter struct {
	Width  int
	Height int
}

func (c SVGChartFormatter) Name() string { return "svg" }

var seriesColors = []string{"#2563eb", "#16a34a", "#d97706", "#9333ea", "#dc2626", "#0891b2"}

const (
	chartMarginLeft   = 80.0
	chartMarginRight  = 20.0
	chartMarginTop    = 30.0
	chartMarginBottom = 40.0
)

func (c SVGChartFormatter) Format(report *Report) ([]byte, error) {
	width, height := float64(c.Width), float64(c.Height)
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 480
	}

	doc := etree.NewDocument()
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", ftoa(width))
	svg.CreateAttr("height", ftoa(height))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", ftoa(width), ftoa(height)))
	svg.CreateAttr("font-family", "sans-serif")
	svg.CreateAttr("font-size", "11")

	bg := svg.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", "#ffffff")

	title := svg.CreateElement("text")
	title.CreateAttr("x", ftoa(chartMarginLeft))
	title.CreateAttr("y", "18")
	title.CreateAttr("font-size", "14")
	title.SetText(chartTitle(report))

	plotBottom := height - chartMarginBottom
	hasCashFlow := len(report.Scenarios) > 0 && report.Scenarios[0].CashFlow != nil && report.Scenarios[0].CashFlow.Len() > 0
	netWorthBottom := plotBottom
	if hasCashFlow {
		netWorthBottom = chartMarginTop + (plotBottom-chartMarginTop)*0.7
	}

	minAge, maxAge, maxBalance := seriesBounds(report)
	if hasCashFlow {
		cfAges := report.Scenarios[0].CashFlow.Ages
		if maxAge == 0 || cfAges[0] < minAge {
			minAge = cfAges[0]
		}
		if last := cfAges[len(cfAges)-1] + 1; last > maxAge {
			maxAge = last
		}
	}
	if maxAge <= minAge {
		maxAge = minAge + 1
	}
	if maxBalance <= 0 {
		maxBalance = 1
	}
	x := func(age float64) float64 {
		return chartMarginLeft + (age-float64(minAge))/float64(maxAge-minAge)*(width-chartMarginLeft-chartMarginRight)
	}
	y := func(v float64) float64 {
		return netWorthBottom - v/maxBalance*(netWorthBottom-chartMarginTop)
	}

	drawAxes(svg, x, y, minAge, maxAge, maxBalance, netWorthBottom)

	legend := svg.CreateElement("g")
	legend.CreateAttr("class", "legend")
	for i, s := range report.Scenarios {
		if s.NetWorth == nil || s.NetWorth.Len() == 0 {
			continue
		}
		color := seriesColors[i%len(seriesColors)]
		nw := s.NetWorth

		addPolyline(svg, "baseline", s.Name, color, "", nw.Ages, nw.BaselineBalances, x, y)
		if nw.WithProjectsBalances != nil {
			addPolyline(svg, "with-projects", s.Name, color, "6 4", nw.Ages, nw.WithProjectsBalances, x, y)
		}

		for _, ev := range nw.ProjectEvents {
			if !ev.Applied {
				continue
			}
			age := float64(nw.Ages[ev.Month]) + float64(ev.Month%12)/12
			marker := svg.CreateElement("circle")
			marker.CreateAttr("class", "project")
			marker.CreateAttr("cx", ftoa(x(age)))
			marker.CreateAttr("cy", ftoa(y(nw.WithProjectsBalances[ev.Month])))
			marker.CreateAttr("r", "3.5")
			marker.CreateAttr("fill", color)
			marker.CreateElement("title").SetText(fmt.Sprintf("%s %d: %s", ev.Name, ev.Year, FormatCurrency(ev.Cost)))
		}

		item := legend.CreateElement("text")
		item.CreateAttr("x", ftoa(width-chartMarginRight-200))
		item.CreateAttr("y", ftoa(chartMarginTop+14*float64(i)))
		item.CreateAttr("fill", color)
		item.SetText(s.Name)
	}

	if hasCashFlow {
		drawCashFlowBand(svg, report.Scenarios[0].CashFlow.Ages, report.Scenarios[0].CashFlow.Balances, x, netWorthBottom+20, plotBottom)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func chartTitle(report *Report) string {
	if report.ProfileName != "" {
		return "Net worth projection - " + report.ProfileName
	}
	return "Net worth projection"
}

// seriesBounds finds the age span and the largest balance over all scenarios
func seriesBounds(report *Report) (int, int, float64) {
	minAge, maxAge, maxBalance := math.MaxInt32, 0, 0.0
	for _, s := range report.Scenarios {
		if s.NetWorth == nil || s.NetWorth.Len() == 0 {
			continue
		}
		nw := s.NetWorth
		if nw.Ages[0] < minAge {
			minAge = nw.Ages[0]
		}
		if last := nw.Ages[nw.Len()-1] + 1; last > maxAge {
			maxAge = last
		}
		for _, v := range nw.BaselineBalances {
			maxBalance = math.Max(maxBalance, v)
		}
		for _, v := range nw.WithProjectsBalances {
			maxBalance = math.Max(maxBalance, v)
		}
	}
	if minAge == math.MaxInt32 {
		minAge = 0
	}
	return minAge, maxAge, maxBalance
}

func drawAxes(svg *etree.Element, x, y func(float64) float64, minAge, maxAge int, maxBalance, bottom float64) {
	axes := svg.CreateElement("g")
	axes.CreateAttr("class", "axes")
	axes.CreateAttr("stroke", "#9aa5b1")

	line := func(x1, y1, x2, y2 float64) {
		l := axes.CreateElement("line")
		l.CreateAttr("x1", ftoa(x1))
		l.CreateAttr("y1", ftoa(y1))
		l.CreateAttr("x2", ftoa(x2))
		l.CreateAttr("y2", ftoa(y2))
	}
	line(x(float64(minAge)), bottom, x(float64(maxAge)), bottom)
	line(x(float64(minAge)), y(0), x(float64(minAge)), y(maxBalance))

	step := 5
	if maxAge-minAge > 60 {
		step = 10
	}
	for age := minAge - minAge%step + step; age < maxAge; age += step {
		t := axes.CreateElement("text")
		t.CreateAttr("x", ftoa(x(float64(age))))
		t.CreateAttr("y", ftoa(bottom+14))
		t.CreateAttr("text-anchor", "middle")
		t.CreateAttr("stroke", "none")
		t.SetText(strconv.Itoa(age))
	}
	for i := 0; i <= 4; i++ {
		v := maxBalance * float64(i) / 4
		t := axes.CreateElement("text")
		t.CreateAttr("x", ftoa(x(float64(minAge))-6))
		t.CreateAttr("y", ftoa(y(v)+4))
		t.CreateAttr("text-anchor", "end")
		t.CreateAttr("stroke", "none")
		t.SetText(shortMoney(v))
	}
}

func addPolyline(svg *etree.Element, class, name, color, dash string, ages []int, series []float64, x, y func(float64) float64) {
	points := make([]string, 0, len(series))
	for m, v := range series {
		age := float64(ages[m]) + float64(m%12)/12
		points = append(points, ftoa(x(age))+","+ftoa(y(v)))
	}

	pl := svg.CreateElement("polyline")
	pl.CreateAttr("class", class)
	pl.CreateAttr("data-scenario", name)
	pl.CreateAttr("fill", "none")
	pl.CreateAttr("stroke", color)
	pl.CreateAttr("stroke-width", "1.5")
	if dash != "" {
		pl.CreateAttr("stroke-dasharray", dash)
	}
	pl.CreateAttr("points", strings.Join(points, " "))
}

// drawCashFlowBand draws one bar per year, green above the zero line and red below
func drawCashFlowBand(svg *etree.Element, ages []int, balances []decimal.Decimal, x func(float64) float64, top, bottom float64) {
	band := svg.CreateElement("g")
	band.CreateAttr("class", "cash-flow")

	maxAbs := 0.0
	for _, b := range balances {
		maxAbs = math.Max(maxAbs, math.Abs(b.InexactFloat64()))
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	zero := top + (bottom-top)/2
	half := (bottom - top) / 2

	axis := band.CreateElement("line")
	axis.CreateAttr("x1", ftoa(x(float64(ages[0]))))
	axis.CreateAttr("x2", ftoa(x(float64(ages[len(ages)-1]+1))))
	axis.CreateAttr("y1", ftoa(zero))
	axis.CreateAttr("y2", ftoa(zero))
	axis.CreateAttr("stroke", "#9aa5b1")

	label := band.CreateElement("text")
	label.CreateAttr("x", ftoa(chartMarginLeft-6))
	label.CreateAttr("y", ftoa(zero+4))
	label.CreateAttr("text-anchor", "end")
	label.SetText("cash flow")

	for i, b := range balances {
		v := b.InexactFloat64()
		h := math.Abs(v) / maxAbs * half
		barTop, fill := zero-h, "#16a34a"
		if v < 0 {
			barTop, fill = zero, "#dc2626"
		}
		x0 := x(float64(ages[i]))
		w := math.Max(x(float64(ages[i]+1))-x0-1, 1)

		bar := band.CreateElement("rect")
		bar.CreateAttr("x", ftoa(x0))
		bar.CreateAttr("y", ftoa(barTop))
		bar.CreateAttr("width", ftoa(w))
		bar.CreateAttr("height", ftoa(h))
		bar.CreateAttr("fill", fill)
		bar.CreateElement("title").SetText(fmt.Sprintf("age %d: %s", ages[i], FormatCurrency(b)))
	}
}

func shortMoney(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("%.0fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
