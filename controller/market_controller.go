package controller

import (
	"context"
	"net/http"

	"stockdash/model"
	"stockdash/service"

	"github.com/danielgtaylor/huma/v2"
)

type MarketController struct {
	catalog service.CatalogService
}

func NewMarketController(catalog service.CatalogService) *MarketController {
	return &MarketController{catalog: catalog}
}

func (ctrl *MarketController) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-markets",
		Method:      http.MethodGet,
		Path:        "/api/markets",
		Summary:     "List markets and their load status",
		Tags:        []string{"Markets"},
	}, ctrl.ListMarkets)

	huma.Register(api, huma.Operation{
		OperationID: "list-stocks",
		Method:      http.MethodGet,
		Path:        "/api/markets/{market}/stocks",
		Summary:     "List display names of a market's constituents",
		Tags:        []string{"Markets"},
	}, ctrl.ListStocks)
}

func (ctrl *MarketController) ListMarkets(ctx context.Context, input *struct{}) (*model.DefaultResponse, error) {
	return NewResponse(ctrl.catalog.Markets(), "Fetch Success"), nil
}

func (ctrl *MarketController) ListStocks(ctx context.Context, input *model.MarketPathInput) (*model.DefaultResponse, error) {
	stocks, err := ctrl.catalog.ListStocks(input.Market)
	if err != nil {
		return nil, apiError(err)
	}
	return NewResponse(stocks, "Fetch Success"), nil
}
