package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// SentryMiddleware opens a transaction per request and attaches the request
// to the scope so captured errors carry it.
func SentryMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			hub := sentry.CurrentHub().Clone()

			transaction := sentry.StartTransaction(
				sentry.SetHubOnContext(req.Context(), hub),
				fmt.Sprintf("%s %s", req.Method, c.Path()),
				sentry.ContinueFromRequest(req),
			)
			defer func() {
				transaction.Status = sentry.HTTPtoSpanStatus(c.Response().Status)
				transaction.Finish()
			}()

			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetContext("Request", map[string]any{
					"Method":  req.Method,
					"URL":     req.URL.String(),
					"Headers": getSafeHeaders(req.Header),
				})
				scope.SetTag("http.method", req.Method)
				scope.SetTag("http.route", c.Path())
			})

			c.SetRequest(req.WithContext(transaction.Context()))
			return next(c)
		}
	}
}

func getSafeHeaders(h http.Header) map[string]any {
	safe := make(map[string]any)
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			safe[k] = "[FILTERED]"
		} else {
			safe[k] = v
		}
	}
	return safe
}
