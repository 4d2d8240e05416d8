package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter limits event submissions to limit per second per client, with
// a burst of the same size. Clients are identified by dashboard session when
// DashboardSession ran earlier in the chain, otherwise by IP address.
func RateLimiter(limit rate.Limit) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// In-memory store; suitable for a single instance.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      limit,
			Burst:     burstFor(limit),
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id := SessionID(c); id != "" {
				return "session:" + id, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}

func burstFor(limit rate.Limit) int {
	if limit < 1 {
		return 1
	}
	return int(limit)
}
