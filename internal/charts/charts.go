// Package charts renders dashboard visuals as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/wealthsense/internal/analytics"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/format"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// Generator renders charts with amounts in one currency.
type Generator struct {
	currency string
}

// NewGenerator creates a Generator labelling amounts in currency.
func NewGenerator(currency string) *Generator {
	return &Generator{currency: currency}
}

// CategoryPie draws the share of each expense category.
func (g *Generator) CategoryPie(b analytics.Breakdown) ([]byte, error) {
	total := b.Total()
	if len(b) == 0 || total <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(b))
	for _, c := range b.Sorted() {
		share := c.Amount / total * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", c.Category, format.Number(g.currency, c.Amount), share),
			Value: c.Amount,
			Style: chart.Style{
				FontSize:  11,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  "Spending by category",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DailyFlow plots income and expense per day. groups may be in any order.
func (g *Generator) DailyFlow(groups []analytics.DayGroup) ([]byte, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}

	ordered := make([]analytics.DayGroup, len(groups))
	copy(ordered, groups)
	// Ledger order is newest first; plot oldest to newest.
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	xValues := make([]time.Time, len(ordered))
	incomeValues := make([]float64, len(ordered))
	expenseValues := make([]float64, len(ordered))
	peak := 0.0
	for i, day := range ordered {
		xValues[i] = day.Date.In(time.UTC)
		incomeValues[i] = analytics.TotalByType(day.Transactions, domain.TypeIncome)
		expenseValues[i] = analytics.TotalByType(day.Transactions, domain.TypeExpense)
		peak = max(peak, incomeValues[i], expenseValues[i])
	}
	if peak <= 0 {
		return nil, ErrNoData
	}

	first, last := xValues[0], xValues[len(xValues)-1]
	if last.Before(first) {
		first, last = last, first
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan"),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first.Add(-12 * time.Hour)),
				Max: chart.TimeToFloat64(last.Add(12 * time.Hour)),
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format.Number(g.currency, f)
				}
				return ""
			},
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    chart.ColorGreen,
				},
			},
			chart.TimeSeries{
				Name:    "Expense",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    chart.ColorRed,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render daily flow chart: %w", err)
	}
	return buffer.Bytes(), nil
}
