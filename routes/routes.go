package routes

import (
	"context"
	"time"

	"stockdash/cache"
	"stockdash/client"
	"stockdash/config"
	"stockdash/controller"
	"stockdash/middleware"
	"stockdash/service"
	"stockdash/templates"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter builds the clients, loads the market catalog once and wires
// every controller.
func SetupRouter(ctx context.Context, cfg *config.SystemConfigs, priceCache cache.PriceCache) *gin.Engine {
	timeout := time.Duration(cfg.Config.HttpTimeoutSeconds) * time.Second

	// --- 1. Clients ---
	tableClient := client.NewTableClient(timeout)
	yahooClient := client.NewYahooClient(cfg.Config.YahooBaseUrl, timeout)

	// --- 2. Services (Dependency Injection) ---
	catalogSvc := service.NewCatalogService(ctx, tableClient, cfg.Markets, 2*timeout)
	priceSvc := service.NewPriceService(yahooClient, priceCache)

	return NewRouter(config.NewConfigManager(cfg.Config), catalogSvc, priceSvc)
}

func NewRouter(cm *config.ConfigManager, catalogSvc service.CatalogService, priceSvc service.PriceService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.ZerologMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cm))
	r.Use(middleware.RateLimiter(cm))
	r.SetHTMLTemplate(templates.Load())

	dashboardSvc := service.NewDashboardService(catalogSvc, priceSvc)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- 3. Browser pages ---
	controller.NewDashboardController(dashboardSvc).RegisterRoutes(r)

	// --- 4. JSON API ---
	api := r.Group("/api")
	{
		// Health Check
		controller.NewHealthController().RegisterRoutes(api)
	}

	humaApi := humagin.New(r, huma.DefaultConfig("Stock Dashboard API", "1.0.0"))
	controller.NewMarketController(catalogSvc).RegisterRoutes(humaApi)
	controller.NewSignalController(catalogSvc, priceSvc, dashboardSvc).RegisterRoutes(humaApi)

	return r
}
