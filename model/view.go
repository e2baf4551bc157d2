package model

import "stockdash/indicator"

// DashboardView is everything the presentation layer needs for one query.
// Series and Signals are empty when HasData is false.
type DashboardView struct {
	Query    DashboardQuery
	Markets  []MarketStatus
	Stocks   []string
	Stock    Constituent
	Series   PriceSeries
	Signals  indicator.Signals
	Events   []EventView
	Summary  indicator.Summary
	Stats    CloseStats
	Warnings []string
	HasData  bool
}

func (v *DashboardView) Warn(msg string) {
	v.Warnings = append(v.Warnings, msg)
}
