// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ondesc/backend/config"
	"github.com/ondesc/backend/internal/application/adapter"
	"github.com/ondesc/backend/internal/application/usecase/client"
	"github.com/ondesc/backend/internal/application/usecase/invoice"
	"github.com/ondesc/backend/internal/infra/metrics"
	"github.com/ondesc/backend/internal/infra/server/router"
	"github.com/ondesc/backend/internal/integration/adapters"
	"github.com/ondesc/backend/internal/integration/entrypoint/controller"
	"github.com/ondesc/backend/internal/integration/entrypoint/middleware"
	"github.com/ondesc/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
	Router      *router.Router
}

// Options carries the optional infrastructure of the injector.
type Options struct {
	// DB enables the client endpoints when set.
	DB *gorm.DB
	// Redis enables the calculation cache when set and the cache is enabled in config.
	Redis *redis.Client
	// Registry receives the metrics; metrics are disabled when nil.
	Registry *prometheus.Registry
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, opts Options) *Injector {
	// Create adapters/services
	extractor := adapters.NewPDFTextExtractor()
	renderer := adapters.NewStatementRenderer()

	var cache adapter.CalculationCache
	if opts.Redis != nil && cfg.Cache.Enabled {
		cache = adapters.NewRedisCalculationCache(opts.Redis)
	}

	var (
		appMetrics      *metrics.Metrics
		calcMetrics     adapter.CalculationMetrics
		requestObserver middleware.RequestObserver
		metricsHandler  http.Handler
	)
	if opts.Registry != nil {
		appMetrics = metrics.New(opts.Registry)
		calcMetrics = appMetrics
		requestObserver = appMetrics
		metricsHandler = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
	}

	// Create invoice use cases
	processUseCase := invoice.NewProcessInvoiceUseCase(cache, calcMetrics, cfg.Cache.TTL)
	calculateInvoiceUseCase := invoice.NewCalculateInvoiceUseCase(extractor, processUseCase)

	// Create controllers
	healthController := controller.NewHealthController(pingDB(opts.DB), pingRedis(opts.Redis))
	invoiceController := controller.NewInvoiceController(calculateInvoiceUseCase, cfg.Upload.MaxBytes)

	var clientController *controller.ClientController
	if opts.DB != nil {
		// Create repositories
		clientRepo := persistence.NewClientRepository(opts.DB)
		calculationRepo := persistence.NewCalculationRepository(opts.DB)

		// Create client use cases
		createClientUseCase := client.NewCreateClientUseCase(clientRepo)
		listClientsUseCase := client.NewListClientsUseCase(clientRepo, calculationRepo)
		getClientUseCase := client.NewGetClientUseCase(clientRepo, calculationRepo)
		updateStatusUseCase := client.NewUpdateStatusUseCase(clientRepo)

		// Create monthly invoice use cases
		uploadUseCase := invoice.NewUploadInvoiceUseCase(clientRepo, calculationRepo, extractor)
		calculateClientUseCase := invoice.NewCalculateClientUseCase(clientRepo, calculationRepo, processUseCase)
		exportUseCase := invoice.NewExportStatementUseCase(clientRepo, calculationRepo, renderer)

		clientController = controller.NewClientController(
			createClientUseCase,
			listClientsUseCase,
			getClientUseCase,
			updateStatusUseCase,
			uploadUseCase,
			calculateClientUseCase,
			exportUseCase,
			cfg.Upload.MaxBytes,
		)
	}

	// Create middleware
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	// Create router
	r := router.NewRouter(healthController, invoiceController, clientController, rateLimiter, requestObserver, metricsHandler)

	return &Injector{
		Config:      cfg,
		DB:          opts.DB,
		Metrics:     appMetrics,
		RateLimiter: rateLimiter,
		Router:      r,
	}
}

func pingDB(db *gorm.DB) func() bool {
	if db == nil {
		return func() bool { return false }
	}
	return func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}
}

func pingRedis(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		return client.Ping(context.Background()).Err() == nil
	}
}
