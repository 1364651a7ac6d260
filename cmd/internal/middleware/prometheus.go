package middleware

import (
	"net/http"
	"strconv"
	"time"

	"clientdesk/cmd/internal/monitoring"

	"github.com/labstack/echo/v4"
)

func PrometheusMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status

			monitoring.RequestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				strconv.Itoa(status)+" "+http.StatusText(status),
			).Inc()

			monitoring.RequestDuration.WithLabelValues(
				c.Request().Method,
				path,
			).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
