package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/rs/zerolog/log"
)

// requestLoggerWithConfig returns a middleware that attaches a request-scoped zerolog
// logger to the context and emits one log line per completed request.
func requestLoggerWithConfig(cfg config.LoggerServer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			evt := l.WithLevel(cfg.RequestLevel).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start))

			if cfg.LogRequestQuery {
				evt = evt.Str("query", req.URL.RawQuery)
			}

			evt.Msg("Request handled")

			return nil
		}
	}
}
