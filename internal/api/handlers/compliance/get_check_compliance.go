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
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func GetCheckComplianceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.GET("/checks/:standard", getCheckComplianceHandler(s))
}

func getCheckComplianceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		std, err := standard.Parse(c.Param("standard"))
		if err != nil {
			return httperrors.ErrBadRequestInvalidStandard
		}

		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			return httperrors.ErrBadRequestInvalidDateRange
		}

		// 按标准分发到对应检查操作
		var status interface{}
		switch std {
		case standard.GDPR:
			status, err = s.ComplianceEngine.CheckGDPRCompliance(ctx, dateRange)
		case standard.HIPAA:
			status, err = s.ComplianceEngine.CheckHIPAACompliance(ctx, dateRange)
		case standard.SOX:
			status, err = s.ComplianceEngine.CheckSOXCompliance(ctx, dateRange)
		case standard.PCIDSS:
			status, err = s.ComplianceEngine.CheckPCIDSSCompliance(ctx, dateRange)
		case standard.ISO27001:
			status, err = s.ComplianceEngine.CheckISO27001Compliance(ctx, dateRange)
		default:
			return httperrors.ErrBadRequestInvalidStandard
		}

		if err != nil {
			switch {
			case errors.Is(err, engine.ErrNotConfigured):
				return httperrors.ErrConflictNotConfigured
			case errors.Is(err, engine.ErrInvalidStandard):
				return httperrors.ErrBadRequestInvalidStandard
			default:
				log.Error().Err(err).Str("standard", std.String()).Msg("Compliance check failed")
				return echo.ErrInternalServerError
			}
		}

		return c.JSON(http.StatusOK, status)
	}
}

// dateRangeFromQuery 解析可选的 rangeStart/rangeEnd 查询参数（RFC 3339）
func dateRangeFromQuery(c echo.Context) (*report.DateRange, error) {
	startRaw := c.QueryParam("rangeStart")
	endRaw := c.QueryParam("rangeEnd")

	if startRaw == "" && endRaw == "" {
		return nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, errors.New("rangeStart and rangeEnd must be provided together")
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid rangeStart")
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid rangeEnd")
	}

	dateRange := &report.DateRange{Start: start, End: end}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	return dateRange, nil
}
