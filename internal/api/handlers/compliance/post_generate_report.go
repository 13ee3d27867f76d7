package compliance

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func PostGenerateReportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.POST("/reports", postGenerateReportHandler(s))
}

func postGenerateReportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostGenerateReportPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		// 解析请求的合规标准
		standards := make([]standard.Standard, 0, len(body.Standards))
		for _, name := range body.Standards {
			std, err := standard.Parse(name)
			if err != nil {
				log.Debug().Str("standard", name).Msg("Rejecting unknown compliance standard")
				return httperrors.ErrBadRequestInvalidStandard
			}
			standards = append(standards, std)
		}

		// 解析可选的日期范围
		var dateRange *report.DateRange
		if body.RangeStart != nil && body.RangeEnd != nil {
			dateRange = &report.DateRange{
				Start: time.Time(*body.RangeStart),
				End:   time.Time(*body.RangeEnd),
			}
			if err := dateRange.Validate(); err != nil {
				return httperrors.ErrBadRequestInvalidDateRange
			}
		}

		r, err := s.ComplianceEngine.GenerateReport(ctx, standards, dateRange)
		if err != nil {
			switch {
			case errors.Is(err, engine.ErrNotConfigured):
				return httperrors.ErrConflictNotConfigured
			case errors.Is(err, engine.ErrInvalidStandard):
				return httperrors.ErrBadRequestInvalidStandard
			default:
				log.Error().Err(err).Msg("Failed to generate compliance report")
				return httperrors.ErrInternalReportGeneration
			}
		}

		// 持久化报告，供后续导出与校验
		record := &storage.ReportRecord{
			ReportID:      r.ReportID,
			Standards:     standardNames(r.Standards),
			RangeStart:    r.Range.Start,
			RangeEnd:      r.Range.End,
			Data:          r.Data,
			Signature:     r.Signature,
			SchemaVersion: r.SchemaVersion,
			GeneratedAt:   r.GeneratedAt,
			GeneratedBy:   r.GeneratedBy,
			CreatedAt:     s.Clock.Now(),
		}
		if err := s.TrailStore.SaveReport(ctx, record); err != nil {
			log.Error().Err(err).Str("report_id", r.ReportID).Msg("Failed to persist compliance report")
			return httperrors.ErrInternalReportGeneration
		}

		return c.JSON(http.StatusCreated, r)
	}
}

func standardNames(standards []standard.Standard) []string {
	names := make([]string, 0, len(standards))
	for _, s := range standards {
		names = append(names, s.String())
	}
	return names
}
