package service

import (
	"context"
	"time"

	"stockdash/cache"
	"stockdash/metrics"
	"stockdash/model"

	"github.com/rs/zerolog/log"
)

// PriceFetcher retrieves daily bars from an upstream provider.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
}

type PriceService interface {
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
}

type PriceServiceImpl struct {
	fetcher PriceFetcher
	cache   cache.PriceCache
}

func NewPriceService(fetcher PriceFetcher, priceCache cache.PriceCache) PriceService {
	return &PriceServiceImpl{
		fetcher: fetcher,
		cache:   priceCache,
	}
}

// FetchPrices serves from the cache when possible. Failures are returned
// and never cached.
func (s *PriceServiceImpl) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	cacheKey := cache.PriceKey(ticker, start, end)
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.PriceFetches.WithLabelValues("hit").Inc()
		return cached, nil
	}

	series, err := s.fetcher.FetchPrices(ctx, ticker, start, end)
	if err != nil {
		metrics.PriceFetches.WithLabelValues("error").Inc()
		return model.PriceSeries{}, err
	}

	metrics.PriceFetches.WithLabelValues("miss").Inc()
	if !series.IsEmpty() {
		s.cache.Set(cacheKey, series)
	}
	log.Debug().Str("ticker", ticker).Int("bars", len(series.Bars)).Msg("price series fetched")
	return series, nil
}
