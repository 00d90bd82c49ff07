// Package chart renders the provider x stage grid as an interactive
// heatmap page.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pwc-dv/dvmap/internal/config"
	"github.com/pwc-dv/dvmap/internal/matrix"
)

// UnassignedColor fills cells with no assignment.
const UnassignedColor = "#eeeeee"

// palette is the tableau10 qualitative scheme. Stage i uses palette[i].
var palette = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

const (
	DefaultWidth     = 800
	DefaultRowHeight = 28
	MinHeight        = 200
)

// Options configures the heatmap page.
type Options struct {
	Title     string
	Width     int
	RowHeight int
}

// OptionsFromConfig reads the chart section of the configuration.
func OptionsFromConfig(cfg config.ChartConfig) Options {
	return Options{Title: cfg.Title, Width: cfg.Width, RowHeight: cfg.RowHeight}
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = config.DefaultConfig().DVMap.Chart.Title
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	return o
}

// Height returns the page height for the given number of provider rows.
func (o Options) Height(rows int) int {
	o = o.withDefaults()
	if h := rows * o.RowHeight; h > MinHeight {
		return h
	}
	return MinHeight
}

// StageColor returns the fill of an assigned cell at stage position i
// (0-based). The palette wraps for grids with more stages than colors.
func StageColor(i int) string {
	return palette[i%len(palette)]
}

// Heatmap builds the chart. Cell values are 0 when unassigned and the
// 1-based stage position when assigned, so each stage gets its own color
// band in the visual map.
func Heatmap(g *matrix.Grid, o Options) *charts.HeatMap {
	o = o.withDefaults()

	labels := make([]string, len(g.Stages))
	for i, s := range g.Stages {
		labels[i] = s.Label
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Width:     fmt.Sprintf("%dpx", o.Width),
			Height:    fmt.Sprintf("%dpx", o.Height(len(g.Providers))),
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      labels,
			AxisLabel: &opts.AxisLabel{Interval: "0", Rotate: 20},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:    "category",
			Data:    g.Providers,
			Inverse: opts.Bool(true),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:   "piecewise",
			Show:   opts.Bool(false),
			Pieces: visualPieces(len(g.Stages)),
		}),
	)
	hm.SetXAxis(labels)
	hm.AddSeries("Intercept", cellData(g))
	return hm
}

// visualPieces maps cell values to fills: 0 is unassigned, i is the i-th
// stage.
func visualPieces(stages int) []opts.Piece {
	pieces := []opts.Piece{{Lt: 0.5, Color: UnassignedColor}}
	for i := 0; i < stages; i++ {
		v := float32(i + 1)
		pieces = append(pieces, opts.Piece{Gt: v - 0.5, Lt: v + 0.5, Color: StageColor(i)})
	}
	return pieces
}

// cellData lays out one point per cell as [stage, provider, value].
func cellData(g *matrix.Grid) []opts.HeatMapData {
	data := make([]opts.HeatMapData, 0, len(g.Cells))
	for y, name := range g.Providers {
		for x, c := range g.Row(name) {
			value := 0
			if c.Assigned {
				value = x + 1
			}
			data = append(data, opts.HeatMapData{
				Name:  c.Provider + " / " + c.Label,
				Value: [3]interface{}{x, y, value},
			})
		}
	}
	return data
}

// Render writes the heatmap as a standalone HTML page.
func Render(w io.Writer, g *matrix.Grid, o Options) error {
	if err := Heatmap(g, o).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
