package wellknown

import (
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
)

func GetSecurityTxtRoute(s *api.Server) *echo.Route {
	return s.Router.WellKnown.GET("/security.txt", getSecurityTxtHandler(s))
}

func getSecurityTxtHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Config.Paths.SecurityTxtFile == "" {
			return echo.ErrNotFound
		}

		return c.File(s.Config.Paths.SecurityTxtFile)
	}
}
