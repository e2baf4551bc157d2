package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stockdash/customerrors"
	"stockdash/model"
	"stockdash/service"
	"stockdash/util"
	"stockdash/validator"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jinzhu/copier"
)

type SignalController struct {
	catalog   service.CatalogService
	prices    service.PriceService
	dashboard service.DashboardService
}

func NewSignalController(catalog service.CatalogService, prices service.PriceService, dashboard service.DashboardService) *SignalController {
	return &SignalController{
		catalog:   catalog,
		prices:    prices,
		dashboard: dashboard,
	}
}

func (ctrl *SignalController) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-prices",
		Method:      http.MethodGet,
		Path:        "/api/prices",
		Summary:     "Daily OHLCV bars of a stock",
		Tags:        []string{"Prices"},
	}, ctrl.GetPrices)

	huma.Register(api, huma.Operation{
		OperationID: "get-signals",
		Method:      http.MethodGet,
		Path:        "/api/signals",
		Summary:     "Rolling means and crossover events of a stock",
		Tags:        []string{"Signals"},
	}, ctrl.GetSignals)
}

func (ctrl *SignalController) GetPrices(ctx context.Context, input *model.PriceInput) (*model.DefaultResponse, error) {
	q, err := ctrl.query(input.Market, input.Stock, input.Start, input.End)
	if err != nil {
		return nil, apiError(err)
	}

	if err := validator.ValidateDashboardQuery(q); err != nil {
		return nil, apiError(err)
	}

	stock, err := ctrl.catalog.Resolve(q.Market, q.Stock)
	if err != nil {
		return nil, apiError(err)
	}

	ctxt, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	series, err := ctrl.prices.FetchPrices(ctxt, stock.Ticker, q.Start, q.End)
	if err != nil {
		return nil, apiError(err)
	}

	bars := make([]model.BarDto, 0, len(series.Bars))
	if err := copier.Copy(&bars, &series.Bars); err != nil {
		return nil, huma.Error500InternalServerError("Something went wrong")
	}
	for i := range bars {
		bars[i].Date = series.Bars[i].Date.Format(model.DateLayout)
	}

	return NewResponse(bars, "Fetch Success"), nil
}

func (ctrl *SignalController) GetSignals(ctx context.Context, input *model.SignalInput) (*model.DefaultResponse, error) {
	q, err := ctrl.query(input.Market, input.Stock, input.Start, input.End)
	if err != nil {
		return nil, apiError(err)
	}
	q.ShortWindow = input.Short
	q.LongWindow = input.Long

	ctxt, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	report, err := ctrl.dashboard.Report(ctxt, q)
	if err != nil {
		return nil, apiError(err)
	}
	return NewResponse(report, "Fetch Success"), nil
}

func (ctrl *SignalController) query(market, stock, start, end string) (model.DashboardQuery, error) {
	startDate, err := util.ParseDate(start)
	if err != nil {
		return model.DashboardQuery{}, fmt.Errorf("%w: start %q is not YYYY-MM-DD", customerrors.ErrInvalidQuery, start)
	}
	endDate, err := util.ParseDate(end)
	if err != nil {
		return model.DashboardQuery{}, fmt.Errorf("%w: end %q is not YYYY-MM-DD", customerrors.ErrInvalidQuery, end)
	}

	return ctrl.dashboard.Defaults(model.DashboardQuery{
		Market:      market,
		Stock:       stock,
		Start:       startDate,
		End:         endDate,
		ShortWindow: model.DefaultShortWindow,
		LongWindow:  model.DefaultLongWindow,
	}), nil
}
