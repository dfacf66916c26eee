package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/maraseel/shipping-site/internal/api/metrics"
)

const (
	MsgTooManyAttempts = "Too many attempts from this IP, please try again after 15 minutes"
	MsgTooManyResets   = "Too many password reset requests from this IP, please try again after an hour"
)

// WindowLimiter is a shared fixed-window counter, such as the Redis one.
type WindowLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenBucket limits each client IP to limit requests per window with an
// in-process token bucket. Denied requests get 429 and msg.
func TokenBucket(name string, limit int, window time.Duration, msg string) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return tooManyRequests(c, name, msg)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return tooManyRequests(c, name, msg)
		},
	})
}

// FixedWindow limits each client IP through limiter. When the limiter itself
// fails the request is let through and the failure logged.
func FixedWindow(name string, limiter WindowLimiter, msg string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("limiter", name).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				return tooManyRequests(c, name, msg)
			}
			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, name, msg string) error {
	metrics.RateLimitedTotal.WithLabelValues(name).Inc()
	return c.JSON(http.StatusTooManyRequests, map[string]string{"message": msg})
}
