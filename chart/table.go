package chart

import (
	"fmt"
	"html/template"

	"stockdash/indicator"
	"stockdash/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
)

// RawTable renders the OHLCV rows of v with both rolling means as an HTML table.
func RawTable(v *model.DashboardView) template.HTML {
	if v == nil || !v.HasData {
		return ""
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Date", "Open", "High", "Low", "Close", "Volume",
		fmt.Sprintf("SMA %d", v.Query.ShortWindow), fmt.Sprintf("SMA %d", v.Query.LongWindow), "Signal"})

	for i, b := range v.Series.Bars {
		t.AppendRow(table.Row{
			b.Date.Format(model.DateLayout),
			price(b.Open), price(b.High), price(b.Low), price(b.Close),
			b.Volume,
			price(v.Signals.ShortMean[i]),
			price(v.Signals.LongMean[i]),
			signalLabel(v.Signals, i),
		})
	}

	t.Style().HTML.CSSClass = "raw-data"
	return template.HTML(t.RenderHTML())
}

// EventTable lists crossover events in date order.
func EventTable(v *model.DashboardView) template.HTML {
	if v == nil || len(v.Events) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Date", "Event", "Close"})
	for _, e := range v.Events {
		t.AppendRow(table.Row{e.Date, e.Kind, price(e.Close)})
	}
	t.Style().HTML.CSSClass = "events"
	return template.HTML(t.RenderHTML())
}

// price rounds half away from zero to two places for display only.
func price(v float64) string {
	if indicator.IsAbsent(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func signalLabel(sig indicator.Signals, i int) string {
	p := sig.Position[i]
	switch {
	case indicator.IsAbsent(p):
		return ""
	case p > 0:
		return string(indicator.EventBuy)
	case p < 0:
		return string(indicator.EventSell)
	}
	return ""
}
