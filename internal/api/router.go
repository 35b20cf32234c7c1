package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/crmlite/crm/docs"
	"github.com/crmlite/crm/internal/api/handler"
	"github.com/crmlite/crm/internal/api/middleware"
	"github.com/crmlite/crm/internal/core/ports"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Clients   ports.ClientRepository
	Services  ports.ServiceRepository
	Quotes    ports.QuoteRepository
	Projects  ports.ProjectRepository
	Compose   ports.QuoteService
	Export    ports.ExportService
	Artifacts ports.ArtifactStore
	Intake    ports.IntakeService
	Repair    ports.RepairService
	// Ready lists the backends pinged by the readiness check.
	Ready map[string]ports.Pinger
	Log   zerolog.Logger

	// MetricsRegisterer and MetricsGatherer default to the global registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	if d.MetricsRegisterer == nil {
		d.MetricsRegisterer = prometheus.DefaultRegisterer
	}
	if d.MetricsGatherer == nil {
		d.MetricsGatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.MetricsRegisterer,
	}))

	// --- Health checks ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the store reachable?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.MetricsGatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public contact form ---
	intake := handler.NewIntakeHandler(d.Intake)
	e.POST("/public/intake", intake.Submit)

	v1 := e.Group("/v1")

	clients := handler.NewClientHandler(d.Clients, d.Quotes)
	v1.GET("/clients", clients.List)
	v1.POST("/clients", clients.Create)
	v1.GET("/clients/:id", clients.Get)
	v1.PUT("/clients/:id", clients.Update)
	v1.DELETE("/clients/:id", clients.Delete)
	v1.GET("/clients/:id/quotes", clients.Quotes)

	catalog := handler.NewCatalogHandler(d.Services)
	v1.GET("/services", catalog.List)
	v1.POST("/services", catalog.Create)
	v1.GET("/services/:id", catalog.Get)
	v1.PUT("/services/:id", catalog.Update)
	v1.DELETE("/services/:id", catalog.Delete)

	quotes := handler.NewQuoteHandler(d.Quotes, d.Compose, d.Export)
	v1.GET("/quotes", quotes.List)
	v1.POST("/quotes", quotes.Create)
	v1.POST("/quotes/totals", quotes.Totals)
	v1.POST("/quotes/items", quotes.ItemFromService)
	v1.GET("/quotes/:id", quotes.Get)
	v1.PUT("/quotes/:id", quotes.Update)
	v1.DELETE("/quotes/:id", quotes.Delete)
	v1.POST("/quotes/:id/duplicate", quotes.Duplicate)
	v1.POST("/quotes/:id/export", quotes.Export)

	exports := handler.NewExportHandler(d.Artifacts)
	v1.GET("/exports/:name", exports.Download)

	projects := handler.NewProjectHandler(d.Projects)
	v1.GET("/projects", projects.List)
	v1.POST("/projects", projects.Create)
	v1.GET("/projects/:id", projects.Get)
	v1.PUT("/projects/:id", projects.Update)
	v1.DELETE("/projects/:id", projects.Delete)

	admin := handler.NewAdminHandler(d.Repair)
	v1.POST("/admin/repair", admin.Repair)

	return e
}
