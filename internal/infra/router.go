package infra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers/internal/cache"
	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/handlers"
	"github.com/umalmyha/customers/internal/middleware"
	"github.com/umalmyha/customers/internal/repository"
	"github.com/umalmyha/customers/internal/service"
	"github.com/umalmyha/customers/internal/ui"
	"github.com/umalmyha/customers/internal/validation"
	"github.com/umalmyha/customers/internal/view"
)

var customerPrefixes = []string{"/customer", "/api/customer"}

// APIStorage is storage engine of customers api
type APIStorage struct {
	Factory repository.UnitOfWorkFactory
	Ping    func(context.Context) error
}

// APIRouter builds echo app serving customers api
func APIRouter(storage APIStorage, customerCache cache.CustomerCache, cfg config.APIConfig, logger logrus.FieldLogger) (*echo.Echo, error) {
	e, err := newEcho(logger)
	if err != nil {
		return nil, err
	}

	e.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	// Validators
	customerValidator, err := validation.NewCustomerValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer validator - %w", err)
	}

	// Middleware
	uowMw := middleware.UnitOfWork(storage.Factory, logger.WithField("component", "unit-of-work"))

	// Services
	customerSvc := service.NewCustomerService(
		storage.Factory,
		customerValidator,
		customerCache,
		logger.WithField("component", "customer-service"),
	)

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)
	healthHandler := handlers.NewHealthHTTPHandler(storage.Ping, logger.WithField("component", "health"))

	// customers
	for _, prefix := range customerPrefixes {
		customersAPI := e.Group(prefix, uowMw)
		customersAPI.GET("", customerHandler.GetAll)
		customersAPI.GET("/:id", customerHandler.Get)
		customersAPI.POST("", customerHandler.Post)
		customersAPI.PUT("", customerHandler.Put)
		customersAPI.DELETE("/:id", customerHandler.Delete)
	}

	e.GET("/health", healthHandler.Get)

	return e, nil
}

// UIRouter builds echo app serving customer pages
func UIRouter(client ui.CustomerClient, cfg config.UIConfig, logger logrus.FieldLogger) (*echo.Echo, error) {
	e, err := newEcho(logger)
	if err != nil {
		return nil, err
	}

	engine, err := view.NewEngine()
	if err != nil {
		return nil, err
	}
	e.Renderer = engine

	e.Use(middleware.SecureHeaders(cfg.DevMode, logger.WithField("component", "secure")))

	pages := ui.NewCustomerPages(client, logger.WithField("component", "customer-pages"))

	e.GET("/", pages.List)
	e.GET("/customers", pages.List)
	e.POST("/customers", pages.Create)
	e.GET("/customers/:id/edit", pages.Edit)
	e.POST("/customers/:id/edit", pages.Update)
	e.GET("/customers/:id/delete", pages.Delete)
	e.GET("/error", pages.Error)

	return e, nil
}

func newEcho(logger logrus.FieldLogger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	echoValidator, err := validation.NewEchoValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build echo validator - %w", err)
	}
	e.Validator = echoValidator
	e.HTTPErrorHandler = handlers.ErrorHandler(e, logger.WithField("component", "http"))

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger.WithField("component", "http")))

	return e, nil
}
