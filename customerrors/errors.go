package customerrors

import "errors"

var (
	ErrSourceTableUnavailable = errors.New("source table unavailable")
	ErrPriceDataUnavailable   = errors.New("price data unavailable")
	ErrMalformedSchema        = errors.New("expected columns missing from source table")
	ErrUnknownMarket          = errors.New("market not found")
	ErrUnknownStock           = errors.New("stock not found")
	ErrInvalidQuery           = errors.New("invalid dashboard query")
)
