package cache

import (
	"context"
	"testing"
	"time"

	"stockdash/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisPriceCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisPriceCacheFromClient(client)
	t.Cleanup(func() { c.Close() })
	return c, server, client
}

func TestRedisPriceCache_RoundTrip(t *testing.T) {
	c, _, client := newTestRedisCache(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	series := model.PriceSeries{
		Ticker: "AAPL",
		Start:  start,
		End:    end,
		Bars: []model.Bar{
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 187.15, High: 188.44, Low: 183.885, Close: 185.6400146484375, Volume: 82488700},
			{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Open: 182.15, High: 183.0872, Low: 180.88, Close: 181.91, Volume: 71983600},
		},
	}
	key := PriceKey("AAPL", start, end)

	c.Set(key, series)
	got, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, series, got)

	ttl, err := client.TTL(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "price keys never expire")
}

func TestRedisPriceCache_Miss(t *testing.T) {
	c, _, _ := newTestRedisCache(t)

	_, found := c.Get("prices:NONE:2024-01-01:2024-01-05")
	assert.False(t, found)
}

func TestRedisPriceCache_UndecodableValue(t *testing.T) {
	c, server, _ := newTestRedisCache(t)

	require.NoError(t, server.Set("prices:BAD:2024-01-01:2024-01-05", "not json"))
	_, found := c.Get("prices:BAD:2024-01-01:2024-01-05")
	assert.False(t, found)
}

func TestRedisPriceCache_ServerDown(t *testing.T) {
	c, server, _ := newTestRedisCache(t)
	server.Close()

	c.Set("prices:AAPL:2024-01-01:2024-01-05", model.PriceSeries{Ticker: "AAPL"})
	_, found := c.Get("prices:AAPL:2024-01-01:2024-01-05")
	assert.False(t, found)
}

func TestNewRedisPriceCache(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := NewRedisPriceCache("redis://" + server.Addr() + "/0")
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", model.PriceSeries{Ticker: "MSFT"})
	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, "MSFT", got.Ticker)

	_, err = NewRedisPriceCache("not-a-url")
	assert.ErrorContains(t, err, "invalid redis url")
}
