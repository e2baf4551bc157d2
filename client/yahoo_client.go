package client

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"stockdash/customerrors"
	"stockdash/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type YahooClient struct {
	client *resty.Client
}

func NewYahooClient(baseUrl string, timeout time.Duration) *YahooClient {
	client := resty.New().
		SetBaseURL(baseUrl).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   userAgent,
		})

	return &YahooClient{
		client: client,
	}
}

// FetchPrices returns the daily bars of ticker between start and end,
// both inclusive.
func (y *YahooClient) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return model.PriceSeries{}, fmt.Errorf("%w: end %s before start %s", customerrors.ErrPriceDataUnavailable,
			end.Format(model.DateLayout), start.Format(model.DateLayout))
	}

	var chartResponse model.YahooChartResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(start.Unix(), 10),
			"period2":  strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
			"interval": "1d",
			"events":   "history",
		}).
		SetResult(&chartResponse).
		SetError(&chartResponse).
		Get("/{ticker}")

	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("yahoo request failed")
		return model.PriceSeries{}, fmt.Errorf("%w: %v", customerrors.ErrPriceDataUnavailable, err)
	}
	if chartResponse.Chart.Error != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: %s", customerrors.ErrPriceDataUnavailable, chartResponse.Chart.Error.Description)
	}
	if !resp.IsSuccess() {
		return model.PriceSeries{}, fmt.Errorf("%w: status %d", customerrors.ErrPriceDataUnavailable, resp.StatusCode())
	}

	bars := slices.DeleteFunc(toBars(chartResponse), func(b model.Bar) bool {
		return b.Date.Before(start) || b.Date.After(end)
	})
	if len(bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: no data for %s in range", customerrors.ErrPriceDataUnavailable, ticker)
	}

	return model.PriceSeries{
		Ticker: ticker,
		Start:  start,
		End:    end,
		Bars:   bars,
	}, nil
}

func toBars(chartResponse model.YahooChartResponse) []model.Bar {
	if len(chartResponse.Chart.Result) == 0 {
		return nil
	}
	result := chartResponse.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]
	offset := result.Meta.GmtOffset

	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, okO := at(quote.Open, i)
		high, okH := at(quote.High, i)
		low, okL := at(quote.Low, i)
		closePrice, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, model.Bar{
			Date:   truncateDay(time.Unix(ts+offset, 0).UTC()),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	slices.SortStableFunc(bars, func(a, b model.Bar) int {
		return a.Date.Compare(b.Date)
	})
	return slices.CompactFunc(bars, func(a, b model.Bar) bool {
		return a.Date.Equal(b.Date)
	})
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
