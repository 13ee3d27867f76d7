package compliance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
)

func GetListReportsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.GET("/reports", getListReportsHandler(s))
}

func getListReportsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		filter := &storage.ReportFilter{
			Standard: c.QueryParam("standard"),
			Limit:    50, //nolint:mnd // default limit for report listings
			Offset:   0,
		}

		if raw := c.QueryParam("since"); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid since")
			}
			filter.Since = &since
		}
		if raw := c.QueryParam("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
			}
			filter.Limit = limit
		}
		if raw := c.QueryParam("offset"); raw != "" {
			offset, err := strconv.Atoi(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
			}
			filter.Offset = offset
		}

		records, err := s.TrailStore.ListReports(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list compliance reports")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to list reports")
		}

		items := make([]*types.GetListReportsResponseReportsItems0, 0, len(records))
		for _, record := range records {
			rangeStart := strfmt.DateTime(record.RangeStart)
			rangeEnd := strfmt.DateTime(record.RangeEnd)
			generatedAt := strfmt.DateTime(record.GeneratedAt)

			items = append(items, &types.GetListReportsResponseReportsItems0{
				ReportID:      swag.String(record.ReportID),
				Standards:     record.Standards,
				RangeStart:    &rangeStart,
				RangeEnd:      &rangeEnd,
				GeneratedAt:   &generatedAt,
				GeneratedBy:   record.GeneratedBy,
				Signed:        len(record.Signature) > 0,
				SchemaVersion: record.SchemaVersion,
			})
		}

		response := &types.GetListReportsResponse{
			Reports: items,
			Total:   int64(len(items)),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
