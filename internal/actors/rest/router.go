package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// RouterArgs are the mandatory args to build the HTTP router.
type RouterArgs struct {
	// Comments serves the /comment routes
	Comments *CommentHandler
	// Metrics instruments every route and backs /metrics
	Metrics *Metrics
	// Validator is installed as the echo validator
	Validator *RequestValidator
}

// NewRouter builds the echo instance serving the comment API, /healthz and /metrics.
func NewRouter(args RouterArgs) *echo.Echo {
	e := NewBaseRouter(args.Metrics)
	e.Validator = args.Validator
	args.Comments.RegisterRoutes(e.Group("/comment"))
	return e
}

// NewBaseRouter builds an echo instance carrying only the shared middleware, /healthz and /metrics.
func NewBaseRouter(metrics *Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request served")
			return nil
		},
	}))
	if metrics != nil {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
	e.GET("/healthz", Healthz)
	return e
}
