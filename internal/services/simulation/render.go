package simulation

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tomblance/drip/internal/models"
)

// RenderChartPNG renders the merged chart rows as a PNG line chart: one
// solid line per symbol plus the invested baseline as a gray dashed line.
func RenderChartPNG(rows []models.ChartRow, symbols []string) ([]byte, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need at least 2 chart rows, got %d", len(rows))
	}

	var series []chart.Series
	for i, symbol := range symbols {
		var xValues []time.Time
		var yValues []float64
		for _, row := range rows {
			value, ok := row.Values[symbol]
			if !ok {
				continue
			}
			date, err := time.Parse("2006-01-02", row.Date)
			if err != nil {
				continue
			}
			xValues = append(xValues, date)
			yValues = append(yValues, value)
		}
		if len(xValues) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name: symbol,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(symbolHex(i)),
				StrokeWidth: 2.0,
			},
			XValues: xValues,
			YValues: yValues,
		})
	}

	var investedX []time.Time
	var investedY []float64
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		investedX = append(investedX, date)
		investedY = append(investedY, row.Invested)
	}
	if len(investedX) >= 2 {
		series = append(series, chart.TimeSeries{
			Name: "Invested",
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: investedX,
			YValues: investedY,
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no drawable series")
	}

	graph := chart.Chart{
		Title:  "Investment Value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// symbolHex cycles through the card colors assigned to user symbols.
func symbolHex(i int) string {
	if len(models.StockColors) == 0 {
		return "2563eb"
	}
	color := models.StockColors[i%len(models.StockColors)]
	if len(color) > 0 && color[0] == '#' {
		color = color[1:]
	}
	return color
}
