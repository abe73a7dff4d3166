package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/fake-news-api/internal/metrics"
)

// RequestLogger logs one line per request and feeds the HTTP metrics. Handler
// errors are passed to c.Error first so the logged status is the one the
// client receives.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			latency := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			if m != nil {
				m.Requests.WithLabelValues(req.Method, route, strconv.Itoa(res.Status)).Inc()
				m.Duration.WithLabelValues(req.Method, route).Observe(latency.Seconds())
			}

			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_out", res.Size),
				zap.String("remote_ip", c.RealIP()),
			}
			switch {
			case res.Status >= 500:
				log.Error("request failed", append(fields, zap.Error(err))...)
			case res.Status >= 400:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request served", fields...)
			}
			return nil
		}
	}
}
