package router

import (
	"time"

	"grocerytracker/internal/config"
	"grocerytracker/internal/handler"
	"grocerytracker/internal/infra"
	"grocerytracker/internal/middleware"
	"grocerytracker/internal/repository"
	"grocerytracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App is the wired application. The composition root runs the HTTP engine
// and owns the background parts: seeding, the scrape scheduler's runner and
// the rate limiter janitor.
type App struct {
	Engine  *gin.Engine
	Scraper *service.ScraperManager
	Seeder  *service.Seeder
	Limiter *middleware.RateLimiter
}

// New wires all dependencies and returns the configured application.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil (report cache disabled); clock nil means the wall clock.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, clock service.Clock) *App {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if clock == nil {
		clock = service.SystemClock
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Middleware())

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewReportCache(rdb, cfg.CacheTTL())
	storeClient := infra.NewStoreClient(infra.StoreClientConfig{
		MaxRetries: cfg.MaxRetries,
		Breaker:    infra.DefaultCBConfig(),
	})

	// ── Repositories ─────────────────────────────────────────────────────────
	storeRepo := repository.NewStoreRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	storeSvc := service.NewStoreService(storeRepo, cache)
	categorySvc := service.NewCategoryService(categoryRepo, db, cache)
	itemSvc := service.NewItemService(itemRepo, categoryRepo, db, cache)
	priceSvc := service.NewPriceService(priceRepo, itemRepo, storeRepo, cache, clock)
	reportSvc := service.NewReportService(reportRepo, priceRepo, cache, clock, cfg.ItemsPerPage)
	ingestSvc := service.NewIngestionService(storeRepo, categoryRepo, itemRepo, priceRepo, cache, clock)

	var source service.ProductSource = service.NewDemoSource(uint64(time.Now().UnixNano()))
	if !cfg.UseDemoData {
		source = service.NewLiveSource(storeClient, source)
	}
	scraper := service.NewScraperManager(service.ScraperConfig{
		Stores:        cfg.Stores,
		Enabled:       cfg.ScrapingEnabled,
		Demo:          cfg.UseDemoData,
		IntervalHours: cfg.ScrapingIntervalHours,
		RequestDelay:  cfg.RequestDelay(),
	}, source, storeClient, storeRepo, reportRepo, ingestSvc)
	seeder := service.NewSeeder(storeSvc, categorySvc, itemSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	storesH := handler.NewStoresHandler(storeSvc, reportSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc, reportSvc)
	itemsH := handler.NewItemsHandler(itemSvc, reportSvc)
	pricesH := handler.NewPricesHandler(priceSvc, reportSvc)
	dashboardH := handler.NewDashboardHandler(reportSvc)
	scrapeH := handler.NewScrapeHandler(scraper)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.GET("/stores", storesH.List)
		api.POST("/stores", storesH.Create)
		api.GET("/stores/stats", storesH.Stats)

		api.GET("/categories", categoriesH.List)
		api.POST("/categories", categoriesH.Create)
		api.GET("/categories/stats", categoriesH.Stats)

		api.GET("/items", itemsH.List)
		api.POST("/items", itemsH.Create)
		api.GET("/items/stats", itemsH.Stats)

		api.GET("/prices", pricesH.List)
		api.POST("/prices", pricesH.Create)
		api.GET("/prices/latest", pricesH.Latest)
		api.GET("/price-trends/:item_id", pricesH.Trend)
		api.GET("/daily-summary", pricesH.DailySummary)
		api.GET("/price-comparison", pricesH.Comparison)
		api.GET("/price-comparison/pdf", pricesH.ComparisonPDF)

		api.GET("/dashboard", dashboardH.Dashboard)
		api.GET("/trending-items", dashboardH.Trending)

		scrape := api.Group("/scrape")
		{
			scrape.POST("", scrapeH.ScrapeAll)
			scrape.GET("/status", scrapeH.Status)
			scrape.POST("/store/:name", scrapeH.ScrapeStore)
			scrape.GET("/store/:name/status", scrapeH.StoreStatus)
			scrape.GET("/store/:name/connection", scrapeH.TestConnection)
		}
	}

	return &App{Engine: r, Scraper: scraper, Seeder: seeder, Limiter: limiter}
}
