package controller

import (
	"errors"

	"stockdash/customerrors"
	"stockdash/model"

	"github.com/danielgtaylor/huma/v2"
)

// NewResponse creates a success response with the given data and message.
func NewResponse(data any, message string) *model.DefaultResponse {
	return &model.DefaultResponse{
		Body: model.Response{
			Success: true,
			Message: message,
			Data:    data,
		},
	}
}

// apiError maps domain errors onto HTTP status codes.
func apiError(err error) error {
	switch {
	case errors.Is(err, customerrors.ErrUnknownMarket), errors.Is(err, customerrors.ErrUnknownStock):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, customerrors.ErrInvalidQuery):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, customerrors.ErrPriceDataUnavailable):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error502BadGateway(err.Error())
	}
}
