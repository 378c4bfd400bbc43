package exporter

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/use-agent/sheetscrape/cleaner"
	"github.com/wcharczuk/go-chart/v2"
)

const labelMaxRunes = 18

// ErrNoBars is returned when a chart image has nothing to plot.
var ErrNoBars = errors.New("exporter: no values to chart")

// RenderChartPNG draws the same bars the workbook chart references as a
// standalone PNG: the first spec.Rows(len(values)) pairs, in order.
func RenderChartPNG(w io.Writer, spec *ChartSpec, labels []string, values []float64) error {
	n := spec.Rows(min(len(labels), len(values)))
	if n == 0 {
		return ErrNoBars
	}

	bars := make([]chart.Value, n)
	for i := range n {
		bars[i] = chart.Value{
			Label: cleaner.Truncate(labels[i], labelMaxRunes),
			Value: values[i],
			Style: chart.Style{
				FillColor:   chart.ColorBlue,
				StrokeColor: chart.ColorBlue,
				StrokeWidth: 1,
			},
		}
	}

	top := slices.Max(values[:n])
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      1024,
		Height:     512,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 20}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  spec.YAxisTitle,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("exporter: render chart: %w", err)
	}
	return nil
}

// SaveChartPNG writes the chart image to path.
func SaveChartPNG(path string, spec *ChartSpec, labels []string, values []float64) error {
	if spec.Rows(min(len(labels), len(values))) == 0 {
		return ErrNoBars
	}
	return saveFile(path, func(w io.Writer) error {
		return RenderChartPNG(w, spec, labels, values)
	})
}
