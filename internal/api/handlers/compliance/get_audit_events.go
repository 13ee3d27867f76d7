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

func GetAuditEventsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.GET("/audit-events", getAuditEventsHandler(s))
}

func getAuditEventsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		// 构建过滤器
		filter := &storage.AuditEventFilter{
			EventType: c.QueryParam("eventType"),
			Actor:     c.QueryParam("actor"),
			Result:    c.QueryParam("result"),
			Limit:     100, //nolint:mnd // default limit for audit events
			Offset:    0,
		}

		// 解析时间参数
		if raw := c.QueryParam("startTime"); raw != "" {
			startTime, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid startTime")
			}
			filter.StartTime = &startTime
		}
		if raw := c.QueryParam("endTime"); raw != "" {
			endTime, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid endTime")
			}
			filter.EndTime = &endTime
		}

		// 解析 limit 和 offset
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

		// 查询审计事件
		events, err := s.TrailStore.QueryAuditEvents(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to query audit events")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to query audit events")
		}

		// 转换响应
		eventResponses := make([]*types.GetAuditEventsResponseEventsItems0, 0, len(events))
		for _, event := range events {
			timestamp := strfmt.DateTime(event.Timestamp)
			eventResponse := &types.GetAuditEventsResponseEventsItems0{
				EventID:   event.EventID,
				Timestamp: &timestamp,
				EventType: swag.String(event.EventType),
				Actor:     event.Actor,
				Standards: event.Standards,
				Operation: swag.String(event.Operation),
				Result:    swag.String(event.Result),
				IPAddress: event.IPAddress,
			}
			if event.Details != nil {
				eventResponse.Details = event.Details
			}
			eventResponses = append(eventResponses, eventResponse)
		}

		response := &types.GetAuditEventsResponse{
			Events: eventResponses,
			Total:  int64(len(eventResponses)),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
