// Package report renders a stored form analysis as a self-contained
// HTML page with ECharts visualisations.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/liftlab/formcheck/internal/analysis"
)

// Render writes the score report for one analysis. The page carries a
// radar chart of the sub-analysis scores and a bar chart of the same
// values for easier reading of individual numbers.
func Render(w io.Writer, id string, result *analysis.FormAnalysis) error {
	names := make([]string, 0, len(result.SubAnalyses))
	values := make([]float64, 0, len(result.SubAnalyses))
	for _, sub := range result.SubAnalyses {
		names = append(names, prettyName(sub.Name))
		values = append(values, sub.Score)
	}

	title := fmt.Sprintf("%s form report", prettyName(result.Exercise))
	subtitle := fmt.Sprintf("id=%s overall=%d confidence=%.2f errors=%d",
		id, result.OverallScore, result.ConfidenceScore, len(result.CriticalErrors))

	page := components.NewPage()
	page.SetPageTitle(title)
	page.AddCharts(radarChart(title, subtitle, names, values), barChart(names, values))

	return page.Render(w)
}

func radarChart(title, subtitle string, names []string, values []float64) *charts.Radar {
	indicators := make([]*opts.Indicator, len(names))
	for i, name := range names {
		indicators[i] = &opts.Indicator{Name: name, Max: 100}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "700px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	radar.AddSeries("scores", []opts.RadarData{{Value: values}},
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}),
	)

	return radar
}

func barChart(names []string, values []float64) *charts.Bar {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "700px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sub-analysis scores"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("score", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	return bar
}

// prettyName turns a metric identifier like "knee_alignment" into
// "Knee Alignment" for chart labels.
func prettyName(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
