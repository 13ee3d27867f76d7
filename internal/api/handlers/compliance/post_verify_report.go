package compliance

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func PostVerifyReportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.POST("/reports/:reportId/verify", postVerifyReportHandler(s))
}

func postVerifyReportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		reportID := c.Param("reportId")

		record, err := s.TrailStore.GetReport(ctx, reportID)
		if err != nil {
			if errors.Is(err, storage.ErrReportNotFound) {
				return httperrors.ErrNotFoundReport
			}
			log.Error().Err(err).Str("report_id", reportID).Msg("Failed to load compliance report")
			return echo.ErrInternalServerError
		}

		r, err := reportFromRecord(record)
		if err != nil {
			log.Error().Err(err).Str("report_id", reportID).Msg("Failed to reconstruct compliance report")
			return echo.ErrInternalServerError
		}

		valid, err := s.ComplianceEngine.VerifyReport(ctx, r)
		if err != nil {
			if errors.Is(err, engine.ErrNotConfigured) {
				return httperrors.ErrConflictNotConfigured
			}
			log.Error().Err(err).Str("report_id", reportID).Msg("Failed to verify report signature")
			return echo.ErrInternalServerError
		}

		response := &types.PostVerifyReportResponse{
			ReportID: swag.String(reportID),
			Valid:    swag.Bool(valid),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
