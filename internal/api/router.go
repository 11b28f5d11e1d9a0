package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kfcybersecurity/msp-portal/docs"
	"github.com/kfcybersecurity/msp-portal/internal/api/handler"
	"github.com/kfcybersecurity/msp-portal/internal/api/metrics"
	"github.com/kfcybersecurity/msp-portal/internal/api/middleware"
	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// Dependencies are the services and health checks the router wires into handlers.
type Dependencies struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Registry      ports.RegistryService
	Deployments   ports.DeploymentService
	Checks        []handler.Check

	// Registerer receives the HTTP and business metrics; Gatherer backs
	// /metrics. Both default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "msp",
		Registerer: deps.Registerer,
	}))

	// --- Health, metrics, docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	m := metrics.New(deps.Registerer)
	authHandler := handler.NewAuthHandler(deps.Auth, m)
	clientHandler := handler.NewClientHandler(deps.Registry, m)
	serviceHandler := handler.NewServiceHandler(deps.Registry, m)
	deploymentHandler := handler.NewDeploymentHandler(deps.Deployments, m)

	authn := middleware.Auth(deps.Authenticator)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout, authn)
	api.GET("/auth/me", authHandler.Me, authn)
	api.POST("/users", authHandler.CreateUser, authn, adminOnly)

	// --- Clients (admin) ---
	clients := api.Group("/clients", authn, adminOnly)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.DELETE("/:id", clientHandler.Delete)

	// --- Services ---
	api.GET("/services", serviceHandler.List, authn)
	api.POST("/services", serviceHandler.Create, authn, adminOnly)

	// --- Deployments (tenant scoped in the service) ---
	deployments := api.Group("/deployments", authn)
	deployments.GET("", deploymentHandler.List)
	deployments.POST("", deploymentHandler.Create)
	deployments.DELETE("", deploymentHandler.Delete)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
