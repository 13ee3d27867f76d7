package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/handlers"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/rs/zerolog/log"
)

// Init initializes the echo instance, its middleware stack and all routes of the given server.
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = httperrors.HTTPErrorHandler

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(middleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(middleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(middleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(requestLoggerWithConfig(s.Config.Logger))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(middleware.CORS())
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	// ---
	// Initialize our general groups and set middleware to use above them
	s.Router = &api.Router{
		Routes: nil, // will be populated by handlers.AttachAllRoutes(s)

		// Unsecured base group
		Root: s.Echo.Group(""),

		// Management endpoints (readiness and liveness)
		Management: s.Echo.Group("/-"),

		APIV1Compliance: s.Echo.Group("/api/v1/compliance"),

		WellKnown: s.Echo.Group("/.well-known"),
	}

	s.Router.Management.GET("/ready", func(c echo.Context) error {
		if !s.Ready() {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	})

	// ---
	// Finally, attach our handlers
	handlers.AttachAllRoutes(s)
}
