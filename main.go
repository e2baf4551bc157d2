package main

import (
	"context"
	"runtime"

	"stockdash/cache"
	"stockdash/config"
	"stockdash/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	sysConfigs, err := config.LoadConfigs()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	if sysConfigs.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if sysConfigs.Config.DebugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var priceCache cache.PriceCache = cache.NewMemoryPriceCache()
	if sysConfigs.Config.RedisUrl != "" {
		redisCache, err := cache.NewRedisPriceCache(sysConfigs.Config.RedisUrl)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory price cache")
		} else {
			defer redisCache.Close()
			priceCache = redisCache
		}
	}

	router := routes.SetupRouter(context.Background(), sysConfigs, priceCache)

	port := sysConfigs.Config.Port
	log.Info().Str("port", port).Int("markets", len(sysConfigs.Markets)).Msg("Server starting")
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.With().Logger()
}
