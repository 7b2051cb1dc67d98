// Package charts renders simulation results as interactive HTML bar charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/handsim/internal/simulator"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Width  string   // Chart width (e.g., "900px")
	Height string   // Chart height (e.g., "500px")
	Theme  string   // Chart theme
	Colors []string // Series colors, first is used
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75"},
	}
}

// DataPoint represents a single bar.
type DataPoint struct {
	Label string
	Value float64
}

// ScoreDistribution converts the result's histogram into chart points.
func ScoreDistribution(r *simulator.Result) []DataPoint {
	points := make([]DataPoint, len(r.Distribution))
	for i, bin := range r.Distribution {
		points[i] = DataPoint{Label: bin.Label(), Value: float64(bin.Count)}
	}
	return points
}

// PatternRates converts the per-pattern match rates into chart points.
func PatternRates(r *simulator.Result) []DataPoint {
	points := make([]DataPoint, len(r.Patterns))
	for i, p := range r.Patterns {
		label := p.Pattern.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		points[i] = DataPoint{Label: label, Value: p.Rate}
	}
	return points
}

func newBarChart(title, subtitle, xName, yName, series string, data []DataPoint, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0]}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).AddSeries(series, yData)
	return bar
}

// Render writes an HTML page with the score distribution and, when the run
// had patterns, the pattern match rates.
func Render(w io.Writer, r *simulator.Result, config ChartConfig) error {
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	page := components.NewPage()
	page.PageTitle = "Opening hand simulation"

	subtitle := fmt.Sprintf("%d trials, going %s, mean %.3f", r.Trials, r.Turn, r.Mean)
	page.AddCharts(newBarChart("Score Distribution", subtitle, "Score", "Hands", "Hands",
		ScoreDistribution(r), config))

	if len(r.Patterns) > 0 {
		page.AddCharts(newBarChart("Pattern Match Rate", subtitle, "Pattern", "%", "Match rate",
			PatternRates(r), config))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteFile renders the charts to an HTML file at path.
func WriteFile(path string, r *simulator.Result, config ChartConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return Render(f, r, config)
}
