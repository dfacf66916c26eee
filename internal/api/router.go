package api

import (
	"os"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/maraseel/shipping-site/docs"
	"github.com/maraseel/shipping-site/internal/api/handler"
	"github.com/maraseel/shipping-site/internal/api/middleware"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

const (
	authRateLimit    = 50
	authRateWindow   = 15 * time.Minute
	resetRateLimit   = 3
	resetRateWindow  = time.Hour
	metricsNamespace = "maraseel"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth    ports.AuthService
	Admin   ports.AdminService
	Site    ports.SiteService
	Cookies handler.SessionCookies

	// ResetLimiter backs the forgot-password limit. When nil an in-process
	// token bucket is used instead.
	ResetLimiter middleware.WindowLimiter

	// Readiness lists the pings run by GET /health/ready.
	Readiness map[string]handler.PingFunc

	Log zerolog.Logger
}

// Options tune the outer HTTP surface.
type Options struct {
	AllowOrigins []string
	StaticDir    string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// HTTP metrics get their own registry so several routers can coexist in
	// one process; /metrics gathers it together with the domain metrics.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: httpMetrics,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.AllowOrigins,
		AllowCredentials: true,
	}))
	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			e.Use(echomiddleware.Static(opts.StaticDir))
		} else {
			deps.Log.Warn().Str("dir", opts.StaticDir).Msg("static directory not found, site pages are not served")
		}
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookies)
	adminHandler := handler.NewAdminHandler(deps.Admin)
	siteHandler := handler.NewSiteHandler(deps.Site, deps.Log)

	authLimiter := middleware.TokenBucket("auth", authRateLimit, authRateWindow, middleware.MsgTooManyAttempts)
	var resetLimiter echo.MiddlewareFunc
	if deps.ResetLimiter != nil {
		resetLimiter = middleware.FixedWindow("password_reset", deps.ResetLimiter, middleware.MsgTooManyResets, deps.Log)
	} else {
		resetLimiter = middleware.TokenBucket("password_reset", resetRateLimit, resetRateWindow, middleware.MsgTooManyResets)
	}

	// --- Site routes ---
	e.POST("/api/tracking", siteHandler.Track)
	e.POST("/api/quotes", siteHandler.Quote)
	e.POST("/api/contact", siteHandler.Contact)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup, authLimiter)
	auth.POST("/login", authHandler.Login, authLimiter)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.POST("/forgot-password", authHandler.ForgotPassword, resetLimiter)
	auth.POST("/reset-password", authHandler.ResetPassword, authLimiter)

	// --- Admin routes (session + admin role) ---
	admin := e.Group("/api/admin",
		middleware.Session(deps.Cookies, deps.Auth),
		middleware.RequireAdmin(),
	)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.PATCH("/users/:id/role", adminHandler.ChangeRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{httpMetrics, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one zerolog line per request, tagged with the request id.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
