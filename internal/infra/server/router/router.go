// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ondesc/backend/internal/integration/entrypoint/controller"
	"github.com/ondesc/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	invoiceController *controller.InvoiceController
	clientController  *controller.ClientController
	uploadRateLimiter *middleware.RateLimiter
	requestObserver   middleware.RequestObserver
	metricsHandler    http.Handler
}

// NewRouter creates a new router instance with all dependencies.
// requestObserver and metricsHandler may be nil.
func NewRouter(
	healthController *controller.HealthController,
	invoiceController *controller.InvoiceController,
	clientController *controller.ClientController,
	uploadRateLimiter *middleware.RateLimiter,
	requestObserver middleware.RequestObserver,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		healthController:  healthController,
		invoiceController: invoiceController,
		clientController:  clientController,
		uploadRateLimiter: uploadRateLimiter,
		requestObserver:   requestObserver,
		metricsHandler:    metricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	if r.requestObserver != nil {
		r.engine.Use(middleware.Metrics(r.requestObserver))
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if r.uploadRateLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{r.uploadRateLimiter.Middleware(), h}
	}

	v1 := r.engine.Group("/api/v1")
	{
		if r.invoiceController != nil {
			invoices := v1.Group("/invoices")
			{
				invoices.POST("/calculate", limited(r.invoiceController.Calculate)...)
			}
		}

		// Client routes (only setup if the database is available)
		if r.clientController != nil {
			clients := v1.Group("/clients")
			{
				clients.GET("", r.clientController.List)
				clients.POST("", r.clientController.Create)
				clients.GET("/:id", r.clientController.Get)
				clients.PATCH("/:id/status", r.clientController.UpdateStatus)
				clients.POST("/:id/invoice", limited(r.clientController.UploadInvoice)...)
				clients.POST("/:id/calculation", limited(r.clientController.Calculate)...)
				clients.GET("/:id/calculation/statement", r.clientController.ExportStatement)
			}
		}
	}
}
