// Package chart renders a dashboard view: a box plot of closing prices,
// volume over time, and close with both rolling means and crossover markers.
package chart

import (
	"fmt"
	"io"

	"stockdash/indicator"
	"stockdash/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "1100px"
	chartHeight = "420px"

	buyColor  = "#1a9850"
	sellColor = "#d73027"
)

// absent is ECharts' marker for a missing point.
const absent = "-"

// RenderCharts writes an HTML page with every chart of v. A view without
// data renders nothing.
func RenderCharts(w io.Writer, v *model.DashboardView) error {
	if v == nil || !v.HasData {
		return nil
	}

	page := components.NewPage()
	page.PageTitle = v.Stock.DisplayName
	page.AddCharts(
		SignalChart(v),
		CloseBoxPlot(v),
		VolumeChart(v),
	)
	return page.Render(w)
}

// CloseBoxPlot is the distribution of closing prices.
func CloseBoxPlot(v *model.DashboardView) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Closing price distribution",
			Subtitle: fmt.Sprintf("%d sessions, mean %.2f, std-dev %.2f", v.Stats.Count, v.Stats.Mean, v.Stats.StdDev),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
	)

	s := v.Stats
	box.SetXAxis([]string{v.Stock.Ticker}).
		AddSeries("Close", []opts.BoxPlotData{
			{Name: v.Stock.Ticker, Value: []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}},
		})
	return box
}

// VolumeChart is traded volume per session.
func VolumeChart(v *model.DashboardView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	volumes := v.Series.Volumes()
	data := make([]opts.BarData, len(volumes))
	for i, vol := range volumes {
		data[i] = opts.BarData{Value: vol}
	}

	bar.SetXAxis(v.Series.Dates()).AddSeries("Volume", data)
	return bar
}

// SignalChart overlays both rolling means and buy/sell markers on the close.
func SignalChart(v *model.DashboardView) *charts.Line {
	q := v.Query
	dates := v.Series.Dates()
	closes := v.Series.Closes()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    v.Stock.DisplayName,
			Subtitle: fmt.Sprintf("SMA %d / SMA %d, %d buy, %d sell", q.ShortWindow, q.LongWindow, v.Summary.Buys, v.Summary.Sells),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	line.SetXAxis(dates).
		AddSeries("Close", lineData(closes)).
		AddSeries(fmt.Sprintf("SMA %d", q.ShortWindow), lineData(v.Signals.ShortMean)).
		AddSeries(fmt.Sprintf("SMA %d", q.LongWindow), lineData(v.Signals.LongMean))

	buys, sells := EventMarkers(closes, v.Signals)

	buyScatter := charts.NewScatter()
	buyScatter.SetXAxis(dates).AddSeries("Buy", buys,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: buyColor}))

	sellScatter := charts.NewScatter()
	sellScatter.SetXAxis(dates).AddSeries("Sell", sells,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: sellColor}))

	line.Overlap(buyScatter, sellScatter)
	return line
}

// EventMarkers returns scatter series aligned with closes: the close price
// at every buy (resp. sell) position and an absent point elsewhere.
func EventMarkers(closes []float64, sig indicator.Signals) (buys, sells []opts.ScatterData) {
	buys = make([]opts.ScatterData, len(closes))
	sells = make([]opts.ScatterData, len(closes))
	for i := range closes {
		buys[i] = opts.ScatterData{Value: absent}
		sells[i] = opts.ScatterData{Value: absent}
	}

	for _, e := range sig.Events() {
		switch e.Kind {
		case indicator.EventBuy:
			buys[e.Index] = opts.ScatterData{Value: closes[e.Index], Symbol: "triangle", SymbolSize: 14}
		case indicator.EventSell:
			sells[e.Index] = opts.ScatterData{Value: closes[e.Index], Symbol: "triangle", SymbolSize: 14, SymbolRotate: 180}
		}
	}
	return buys, sells
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if indicator.IsAbsent(v) {
			data[i] = opts.LineData{Value: absent}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}
