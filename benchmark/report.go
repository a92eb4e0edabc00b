package benchmark

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func shapeLabels(results []Result) []string {
	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = fmt.Sprintf("%dx%d", r.SetASize, r.SetBSize)
	}
	return labels
}

func toBarItems(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func milliseconds(results []Result, pick func(Result) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = pick(r)
	}
	return out
}

func newConstraintsChart(results []Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Circuit size", Subtitle: "R1CS constraints per shape"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "psi-prover benchmarks", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	values := make([]opts.BarData, len(results))
	for i, r := range results {
		values[i] = opts.BarData{Value: r.Constraints}
	}
	bar.SetXAxis(shapeLabels(results)).
		AddSeries("constraints", values).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func newTimingChart(results []Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Stage timings", Subtitle: "milliseconds per shape"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "psi-prover benchmarks", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(shapeLabels(results)).
		AddSeries("setup", toBarItems(milliseconds(results, func(r Result) float64 {
			return float64(r.SetupTime.Microseconds()) / 1000.0
		}))).
		AddSeries("prove", toBarItems(milliseconds(results, func(r Result) float64 {
			return float64(r.ProveTime.Microseconds()) / 1000.0
		}))).
		AddSeries("verify", toBarItems(milliseconds(results, func(r Result) float64 {
			return float64(r.VerifyTime.Microseconds()) / 1000.0
		}))).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// WriteReport renders the results as a standalone HTML page.
func WriteReport(results []Result, path string) error {
	page := components.NewPage()
	page.AddCharts(newConstraintsChart(results), newTimingChart(results))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
