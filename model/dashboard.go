package model

import (
	"time"

	"stockdash/indicator"
)

const (
	MinWindow          = 1
	MaxWindow          = 200
	DefaultShortWindow = 20
	DefaultLongWindow  = 50
)

// DashboardQuery is one user selection on the dashboard
type DashboardQuery struct {
	Market      string    `json:"market"`
	Stock       string    `json:"stock"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ShortWindow int       `json:"shortWindow"`
	LongWindow  int       `json:"longWindow"`
	ShowRaw     bool      `json:"showRaw"`
}

func (q DashboardQuery) Windows() indicator.Windows {
	return indicator.Windows{Short: q.ShortWindow, Long: q.LongWindow}
}

// EventView is a buy/sell crossover located on the date axis
type EventView struct {
	Index int     `json:"index"`
	Date  string  `json:"date"`
	Kind  string  `json:"kind"`
	Close float64 `json:"close"`
}

// CloseStats summarises the distribution of closing prices
type CloseStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// SignalPoint is one row of the signal table. Absent means are nil.
type SignalPoint struct {
	Date      string   `json:"date"`
	Close     float64  `json:"close"`
	ShortMean *float64 `json:"shortMean"`
	LongMean  *float64 `json:"longMean"`
	Signal    float64  `json:"signal"`
	Position  *float64 `json:"position"`
}

type SignalReport struct {
	Ticker      string        `json:"ticker"`
	ShortWindow int           `json:"shortWindow"`
	LongWindow  int           `json:"longWindow"`
	Points      []SignalPoint `json:"points"`
	Events      []EventView   `json:"events"`
	Buys        int           `json:"buys"`
	Sells       int           `json:"sells"`
	LastSignal  bool          `json:"lastSignal"`
}

// --- Huma Structs ---

type PriceInput struct {
	Market string `query:"market" doc:"Market identifier" example:"sp500" required:"true"`
	Stock  string `query:"stock" doc:"Stock display name" example:"Apple Inc. (AAPL)" required:"true"`
	Start  string `query:"start" doc:"First day (YYYY-MM-DD)" example:"2023-01-01"`
	End    string `query:"end" doc:"Last day, inclusive (YYYY-MM-DD)" example:"2023-12-31"`
}

type SignalInput struct {
	Market string `query:"market" doc:"Market identifier" example:"sp500" required:"true"`
	Stock  string `query:"stock" doc:"Stock display name" example:"Apple Inc. (AAPL)" required:"true"`
	Start  string `query:"start" doc:"First day (YYYY-MM-DD)" example:"2023-01-01"`
	End    string `query:"end" doc:"Last day, inclusive (YYYY-MM-DD)" example:"2023-12-31"`
	Short  int    `query:"short" doc:"Short rolling window" minimum:"1" maximum:"200" default:"20"`
	Long   int    `query:"long" doc:"Long rolling window" minimum:"1" maximum:"200" default:"50"`
}
