package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockdash/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisPriceCache shares fetched series between processes. Keys carry no TTL.
type RedisPriceCache struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisPriceCache(url string) (*RedisPriceCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if opts.TLSConfig == nil && strings.HasPrefix(url, "rediss://") {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("connected to redis price cache")
	return NewRedisPriceCacheFromClient(client), nil
}

func NewRedisPriceCacheFromClient(client *redis.Client) *RedisPriceCache {
	return &RedisPriceCache{client: client, timeout: 2 * time.Second}
}

func (c *RedisPriceCache) Get(key string) (model.PriceSeries, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PriceSeries{}, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis GET failed")
		return model.PriceSeries{}, false
	}

	var series model.PriceSeries
	if err := json.Unmarshal(val, &series); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis value decode failed")
		return model.PriceSeries{}, false
	}
	return series, true
}

func (c *RedisPriceCache) Set(key string, series model.PriceSeries) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := json.Marshal(series)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis value encode failed")
		return
	}
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis SET failed")
	}
}

func (c *RedisPriceCache) Close() error {
	return c.client.Close()
}
