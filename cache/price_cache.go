package cache

import (
	"strings"
	"time"

	"stockdash/model"

	"github.com/patrickmn/go-cache"
)

// PriceCache memoizes fetched price series by (ticker, start, end).
// Entries are never evicted or invalidated while the process runs.
type PriceCache interface {
	Get(key string) (model.PriceSeries, bool)
	Set(key string, series model.PriceSeries)
}

func PriceKey(ticker string, start, end time.Time) string {
	return "prices:" + strings.ToUpper(ticker) + ":" + start.Format(model.DateLayout) + ":" + end.Format(model.DateLayout)
}

type MemoryPriceCache struct {
	store *cache.Cache
}

func NewMemoryPriceCache() *MemoryPriceCache {
	return &MemoryPriceCache{
		store: cache.New(cache.NoExpiration, 0),
	}
}

func (c *MemoryPriceCache) Get(key string) (model.PriceSeries, bool) {
	if cached, found := c.store.Get(key); found {
		return cached.(model.PriceSeries), true
	}
	return model.PriceSeries{}, false
}

func (c *MemoryPriceCache) Set(key string, series model.PriceSeries) {
	c.store.Set(key, series, cache.NoExpiration)
}

func (c *MemoryPriceCache) Len() int {
	return c.store.ItemCount()
}
