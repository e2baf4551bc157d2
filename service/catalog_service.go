package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockdash/customerrors"
	"stockdash/metrics"
	"stockdash/model"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
)

// TableLoader fetches one indexed HTML table from a page.
type TableLoader interface {
	LoadTable(ctx context.Context, url string, index int) (model.Table, error)
}

type CatalogService interface {
	Markets() []model.MarketStatus
	ListStocks(marketID string) ([]string, error)
	Resolve(marketID, displayName string) (model.Constituent, error)
}

type market struct {
	config model.MarketConfig
	stocks []model.Constituent
	index  map[string]int
	err    error
}

type CatalogServiceImpl struct {
	markets []*market
	byID    map[string]*market
}

// NewCatalogService loads every market once. Each market is isolated: a
// failing source leaves that market empty with its error recorded.
func NewCatalogService(ctx context.Context, loader TableLoader, configs []model.MarketConfig, loadTimeout time.Duration) *CatalogServiceImpl {
	s := &CatalogServiceImpl{
		markets: make([]*market, 0, len(configs)),
		byID:    make(map[string]*market, len(configs)),
	}

	for _, cfg := range configs {
		m := loadMarket(ctx, loader, cfg, loadTimeout)
		s.markets = append(s.markets, m)
		s.byID[cfg.ID] = m
		metrics.CatalogStocks.WithLabelValues(cfg.ID).Set(float64(len(m.stocks)))
	}

	return s
}

func loadMarket(ctx context.Context, loader TableLoader, cfg model.MarketConfig, timeout time.Duration) *market {
	m := &market{config: cfg, index: map[string]int{}}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	table, err := loader.LoadTable(loadCtx, cfg.Url, cfg.Table)
	if err != nil {
		m.err = err
		log.Warn().Err(err).Str("market", cfg.ID).Msg("market source unavailable")
		return m
	}

	stocks, err := BuildConstituents(cfg, table)
	if err != nil {
		m.err = err
		log.Warn().Err(err).Str("market", cfg.ID).Strs("columns", table.Columns).Msg("market table schema mismatch")
		return m
	}

	for _, c := range stocks {
		if _, dup := m.index[c.DisplayName]; dup {
			log.Debug().Str("market", cfg.ID).Str("stock", c.DisplayName).Msg("duplicate display name skipped")
			continue
		}
		m.index[c.DisplayName] = len(m.stocks)
		m.stocks = append(m.stocks, c)
	}

	log.Info().Str("market", cfg.ID).Int("stocks", len(m.stocks)).Msg("market loaded")
	return m
}

// BuildConstituents turns a scraped table into constituents, in table order.
// Rows with an empty name or ticker are dropped.
func BuildConstituents(cfg model.MarketConfig, table model.Table) ([]model.Constituent, error) {
	if !table.HasColumn(cfg.NameColumn) || !table.HasColumn(cfg.TickerColumn) {
		return nil, fmt.Errorf("%w: %s needs %q and %q", customerrors.ErrMalformedSchema, cfg.ID, cfg.NameColumn, cfg.TickerColumn)
	}

	stocks := make([]model.Constituent, 0, len(table.Rows))
	for _, row := range table.Rows {
		canonical := map[string]string{
			"name":   row[cfg.NameColumn],
			"ticker": NormalizeTicker(cfg, row[cfg.TickerColumn]),
		}
		if cfg.SectorColumn != "" {
			canonical["sector"] = row[cfg.SectorColumn]
		}

		var c model.Constituent
		if err := mapstructure.Decode(canonical, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", customerrors.ErrMalformedSchema, err)
		}
		if c.Name == "" || c.Ticker == "" {
			continue
		}
		c.DisplayName = BuildDisplayName(c)
		stocks = append(stocks, c)
	}
	return stocks, nil
}

// BuildDisplayName joins the company name and the exchange ticker.
func BuildDisplayName(c model.Constituent) string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Ticker)
}

func NormalizeTicker(cfg model.MarketConfig, raw string) string {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return ""
	}
	if cfg.TickerDotToDash {
		ticker = strings.ReplaceAll(ticker, ".", "-")
	}
	if cfg.TickerSuffix != "" && !strings.HasSuffix(ticker, strings.ToUpper(cfg.TickerSuffix)) {
		ticker = strings.TrimSuffix(ticker, ".") + strings.ToUpper(cfg.TickerSuffix)
	}
	return ticker
}

func (s *CatalogServiceImpl) Markets() []model.MarketStatus {
	statuses := make([]model.MarketStatus, 0, len(s.markets))
	for _, m := range s.markets {
		status := model.MarketStatus{
			ID:     m.config.ID,
			Name:   m.config.Name,
			Stocks: len(m.stocks),
		}
		if m.err != nil {
			status.Error = m.err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func (s *CatalogServiceImpl) ListStocks(marketID string) ([]string, error) {
	m, ok := s.byID[marketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", customerrors.ErrUnknownMarket, marketID)
	}

	names := make([]string, len(m.stocks))
	for i, c := range m.stocks {
		names[i] = c.DisplayName
	}
	return names, nil
}

func (s *CatalogServiceImpl) Resolve(marketID, displayName string) (model.Constituent, error) {
	m, ok := s.byID[marketID]
	if !ok {
		return model.Constituent{}, fmt.Errorf("%w: %s", customerrors.ErrUnknownMarket, marketID)
	}
	i, ok := m.index[displayName]
	if !ok {
		return model.Constituent{}, fmt.Errorf("%w: %s in %s", customerrors.ErrUnknownStock, displayName, marketID)
	}
	return m.stocks[i], nil
}
