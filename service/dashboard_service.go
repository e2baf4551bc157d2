package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"stockdash/customerrors"
	"stockdash/indicator"
	"stockdash/model"
	"stockdash/validator"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type DashboardService interface {
	Defaults(q model.DashboardQuery) model.DashboardQuery
	Build(ctx context.Context, q model.DashboardQuery) (*model.DashboardView, error)
	Report(ctx context.Context, q model.DashboardQuery) (*model.SignalReport, error)
}

type DashboardServiceImpl struct {
	catalog CatalogService
	prices  PriceService
	now     func() time.Time
}

func NewDashboardService(catalog CatalogService, prices PriceService) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		catalog: catalog,
		prices:  prices,
		now:     time.Now,
	}
}

// Defaults fills unset fields: first market, its first stock and the last
// year up to today. Windows are taken as given so an explicit 0 still fails
// validation.
func (s *DashboardServiceImpl) Defaults(q model.DashboardQuery) model.DashboardQuery {
	if q.Market == "" {
		if markets := s.catalog.Markets(); len(markets) > 0 {
			q.Market = markets[0].ID
		}
	}
	if q.Stock == "" {
		if stocks, err := s.catalog.ListStocks(q.Market); err == nil && len(stocks) > 0 {
			q.Stock = stocks[0]
		}
	}

	today := s.now().UTC()
	if q.End.IsZero() {
		q.End = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}
	if q.Start.IsZero() {
		q.Start = q.End.AddDate(-1, 0, 0)
	}
	return q
}

// Build runs catalog, price fetch and signal computation in order. The
// returned view is always usable for rendering the controls; the error says
// why there is nothing to chart.
func (s *DashboardServiceImpl) Build(ctx context.Context, q model.DashboardQuery) (*model.DashboardView, error) {
	q = s.Defaults(q)
	view := &model.DashboardView{
		Query:   q,
		Markets: s.catalog.Markets(),
	}

	for _, m := range view.Markets {
		if m.ID == q.Market && m.Error != "" {
			view.Warn(fmt.Sprintf("Constituents for %s could not be loaded: %s", m.Name, m.Error))
		}
	}

	stocks, err := s.catalog.ListStocks(q.Market)
	if err != nil {
		view.Warn(err.Error())
		return view, err
	}
	view.Stocks = stocks

	if err := validator.ValidateDashboardQuery(q); err != nil {
		view.Warn(err.Error())
		return view, err
	}

	stock, err := s.catalog.Resolve(q.Market, q.Stock)
	if err != nil {
		view.Warn(err.Error())
		return view, err
	}
	view.Stock = stock

	windows := q.Windows()
	if windows.Inverted() {
		view.Warn(fmt.Sprintf("Short window (%d) is not below long window (%d): signals mark the short mean rising above the long one as configured.", q.ShortWindow, q.LongWindow))
	}

	series, err := s.prices.FetchPrices(ctx, stock.Ticker, q.Start, q.End)
	if err != nil {
		log.Warn().Err(err).Str("ticker", stock.Ticker).Msg("no price data")
		view.Warn(fmt.Sprintf("No price data for %s between %s and %s.", stock.Ticker,
			q.Start.Format(model.DateLayout), q.End.Format(model.DateLayout)))
		if !errors.Is(err, customerrors.ErrPriceDataUnavailable) {
			err = fmt.Errorf("%w: %v", customerrors.ErrPriceDataUnavailable, err)
		}
		return view, err
	}

	view.Series = series
	view.Signals = indicator.ComputeSignals(series.Closes(), windows.Short, windows.Long)
	view.Events = eventViews(series, view.Signals)
	view.Summary = view.Signals.Summary()
	view.Stats = CloseStatistics(series.Closes())
	view.HasData = true
	return view, nil
}

// Report is the machine-readable form of Build.
func (s *DashboardServiceImpl) Report(ctx context.Context, q model.DashboardQuery) (*model.SignalReport, error) {
	view, err := s.Build(ctx, q)
	if err != nil {
		return nil, err
	}

	sig := view.Signals
	points := make([]model.SignalPoint, len(view.Series.Bars))
	for i, bar := range view.Series.Bars {
		points[i] = model.SignalPoint{
			Date:      bar.Date.Format(model.DateLayout),
			Close:     bar.Close,
			ShortMean: present(sig.ShortMean[i]),
			LongMean:  present(sig.LongMean[i]),
			Signal:    sig.Signal[i],
			Position:  present(sig.Position[i]),
		}
	}

	return &model.SignalReport{
		Ticker:      view.Stock.Ticker,
		ShortWindow: view.Query.ShortWindow,
		LongWindow:  view.Query.LongWindow,
		Points:      points,
		Events:      view.Events,
		Buys:        view.Summary.Buys,
		Sells:       view.Summary.Sells,
		LastSignal:  view.Summary.LastSignal,
	}, nil
}

func eventViews(series model.PriceSeries, sig indicator.Signals) []model.EventView {
	events := sig.Events()
	views := make([]model.EventView, 0, len(events))
	for _, e := range events {
		bar := series.Bars[e.Index]
		views = append(views, model.EventView{
			Index: e.Index,
			Date:  bar.Date.Format(model.DateLayout),
			Kind:  string(e.Kind),
			Close: bar.Close,
		})
	}
	return views
}

// CloseStatistics computes the five-number summary plus mean and standard
// deviation of closes. An empty input yields a zero value.
func CloseStatistics(closes []float64) model.CloseStats {
	if len(closes) == 0 {
		return model.CloseStats{}
	}

	sorted := make([]float64, len(closes))
	copy(sorted, closes)
	sort.Float64s(sorted)

	stats := model.CloseStats{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
	}
	if len(sorted) > 1 {
		stats.StdDev = stat.StdDev(sorted, nil)
	}
	return stats
}

func present(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
