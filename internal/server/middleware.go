package server

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/metrics"
)

// requestLogger logs one line per request and feeds the HTTP metrics.
func requestLogger(logger *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
				if id == "" {
					id = uuid.NewString()
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			if m != nil {
				m.RecordHTTP(req.Method, route, strconv.Itoa(res.Status), elapsed)
			}
			logger.Info("request",
				zap.String("request_id", id),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("route", route),
				zap.Int("status", res.Status),
				zap.String("remote_ip", c.RealIP()),
				zap.Duration("response_time", elapsed),
				zap.Int64("response_size", res.Size),
			)
			return nil
		}
	}
}
