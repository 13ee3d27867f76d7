package compliance

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/export"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func PostExportReportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.POST("/reports/:reportId/export", postExportReportHandler(s))
}

func postExportReportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		reportID := c.Param("reportId")

		var body types.PostExportReportPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		format, err := export.ParseFormat(swag.StringValue(body.Format))
		if err != nil {
			return httperrors.ErrBadRequestInvalidFormat
		}

		record, err := s.TrailStore.GetReport(ctx, reportID)
		if err != nil {
			if errors.Is(err, storage.ErrReportNotFound) {
				return httperrors.ErrNotFoundReport
			}
			log.Error().Err(err).Str("report_id", reportID).Msg("Failed to load compliance report")
			return httperrors.ErrInternalExportFailed
		}

		r, err := reportFromRecord(record)
		if err != nil {
			log.Error().Err(err).Str("report_id", reportID).Msg("Failed to reconstruct compliance report")
			return httperrors.ErrInternalExportFailed
		}

		data, err := s.ComplianceEngine.ExportReport(ctx, r, format, body.IncludeSensitiveData)
		if err != nil {
			switch {
			case errors.Is(err, engine.ErrNotConfigured):
				return httperrors.ErrConflictNotConfigured
			case errors.Is(err, policy.ErrPolicyDenied), errors.Is(err, policy.ErrPolicyNotFound):
				return httperrors.ErrForbiddenExportDenied
			default:
				log.Error().Err(err).Str("report_id", reportID).Msg("Failed to export compliance report")
				return httperrors.ErrInternalExportFailed
			}
		}

		return c.Blob(http.StatusOK, contentTypeForFormat(format), data)
	}
}

func reportFromRecord(record *storage.ReportRecord) (*report.Report, error) {
	standards := make([]standard.Standard, 0, len(record.Standards))
	for _, name := range record.Standards {
		std, err := standard.Parse(name)
		if err != nil {
			return nil, err
		}
		standards = append(standards, std)
	}

	return &report.Report{
		ReportID:      record.ReportID,
		Standards:     standards,
		Range:         report.DateRange{Start: record.RangeStart, End: record.RangeEnd},
		Data:          record.Data,
		Signature:     record.Signature,
		SchemaVersion: record.SchemaVersion,
		GeneratedAt:   record.GeneratedAt,
		GeneratedBy:   record.GeneratedBy,
	}, nil
}

func contentTypeForFormat(format export.Format) string {
	switch format {
	case export.FormatCSV:
		return "text/csv"
	case export.FormatXML:
		return echo.MIMEApplicationXMLCharsetUTF8
	case export.FormatPDF:
		return "application/pdf"
	default:
		return echo.MIMEApplicationJSONCharsetUTF8
	}
}
