package report

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func renderBarChart(w io.Writer, title string, bars []Bar) error {
	var values []chart.Value
	low, high := 0.0, 0.0
	for i, b := range bars {
		v, ok := b.Value.Number()
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, chart.Value{
			Label: b.Label,
			Value: v,
			Style: chart.Style{
				FillColor:   chart.GetDefaultColor(i),
				StrokeColor: chart.GetDefaultColor(i),
			},
		})
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if len(values) == 0 {
		return ErrNoData
	}

	// Bars grow from zero, so the axis must span it; a flat range cannot be drawn.
	if low == high {
		high = low + 1
	}

	graph := chart.BarChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:        1200,
		Height:       400,
		BarWidth:     40,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: low,
				Max: high,
			},
		},
		Bars: values,
	}

	return graph.Render(chart.PNG, w)
}
