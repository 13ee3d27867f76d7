package compliance

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func GetStatisticsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.GET("/statistics", getStatisticsHandler(s))
}

func getStatisticsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		stats, err := s.ComplianceEngine.GetComplianceStatistics()
		if err != nil {
			if errors.Is(err, engine.ErrNotConfigured) {
				return httperrors.ErrConflictNotConfigured
			}
			log.Error().Err(err).Msg("Failed to compute compliance statistics")
			return echo.ErrInternalServerError
		}

		response := &types.ComplianceStatisticsResponse{
			TotalReports:    stats.TotalReports,
			ActiveStandards: standardNames(stats.ActiveStandards),
			ComplianceScore: stats.ComplianceScore,
		}
		if stats.LastComplianceCheck != nil {
			last := strfmt.DateTime(*stats.LastComplianceCheck)
			response.LastComplianceCheck = &last
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
