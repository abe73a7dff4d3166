// Package router defines how HTTP routes and middleware are registered.
package router

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/fake-news-api/internal/config"
	"github.com/iliyamo/fake-news-api/internal/handler"
	"github.com/iliyamo/fake-news-api/internal/metrics"
	"github.com/iliyamo/fake-news-api/internal/middleware"
)

// Deps carries everything the routes need. Redis and History are optional.
type Deps struct {
	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Predict *handler.PredictHandler
	History *handler.HistoryHandler
	Redis   *redis.Client
}

// New builds an echo instance with the global middleware stack and all
// routes registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ids key the prediction history, so they are always minted here.
	e.Pre(dropClientRequestID)
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log, d.Metrics))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: d.Config.AllowOrigins}))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps the service endpoints onto e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	// Liveness only; see handler.Health.
	e.GET("/health", handler.Health)

	limit := echomw.BodyLimit(bodyLimit(d.Config.MaxBodyBytes))
	e.POST("/predict", d.Predict.Predict, limit, middleware.NewPredictionCache(d.Config.Cache, d.Redis, d.Metrics))

	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	if d.History != nil {
		g := e.Group("/v1/predictions")
		g.GET("", d.History.ListRecent)
		g.GET("/:request_id", d.History.Get)
	}
}

// bodyLimit renders a byte count in the format echo's BodyLimit expects.
func bodyLimit(n int) string {
	if n <= 0 {
		n = 1 << 20
	}
	return strconv.Itoa(n) + "B"
}

func dropClientRequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Request().Header.Del(echo.HeaderXRequestID)
		return next(c)
	}
}
