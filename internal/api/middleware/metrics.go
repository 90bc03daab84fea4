package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/pkg/metrics"
)

// Metrics records request count and latency by route template. Errors are
// rendered through the central handler first so the recorded status is the
// one sent to the client.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}
