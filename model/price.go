package model

import "time"

const DateLayout = "2006-01-02"

// Bar is one daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ascending, duplicate-free run of daily bars.
type PriceSeries struct {
	Ticker string    `json:"ticker"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Bars   []Bar     `json:"bars"`
}

func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

func (p PriceSeries) Dates() []string {
	dates := make([]string, len(p.Bars))
	for i, b := range p.Bars {
		dates[i] = b.Date.Format(DateLayout)
	}
	return dates
}

func (p PriceSeries) Volumes() []int64 {
	volumes := make([]int64, len(p.Bars))
	for i, b := range p.Bars {
		volumes[i] = b.Volume
	}
	return volumes
}

func (p PriceSeries) IsEmpty() bool {
	return len(p.Bars) == 0
}

// BarDto is the wire form of Bar with a plain date string
type BarDto struct {
	Date   string  `json:"date" copier:"-"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
