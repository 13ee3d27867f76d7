package compliance

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/pkg/errors"
)

func PutExportPolicyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.PUT("/policies/:policyId", putExportPolicyHandler(s))
}

func putExportPolicyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		policyID := c.Param("policyId")

		var body types.PutExportPolicyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		now := s.Clock.Now()

		// 保留已有策略的创建时间
		createdAt := now
		if existing, err := s.TrailStore.GetExportPolicy(ctx, policyID); err == nil {
			createdAt = existing.CreatedAt
		}

		exportPolicy := &storage.ExportPolicy{
			PolicyID:       policyID,
			Description:    body.Description,
			PolicyDocument: body.PolicyDocument,
			CreatedAt:      createdAt,
			UpdatedAt:      now,
		}

		if err := s.TrailStore.SaveExportPolicy(ctx, exportPolicy); err != nil {
			log.Error().Err(err).Str("policy_id", policyID).Msg("Failed to save export policy")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to save export policy")
		}

		// 保存后通过策略引擎加载，确认策略文档可被解析
		if _, err := s.PolicyEngine.LoadPolicy(ctx, policyID); err != nil {
			log.Error().Err(err).Str("policy_id", policyID).Msg("Saved export policy failed to load")
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid policy document")
		}

		response := exportPolicyResponse(exportPolicy)

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func GetExportPolicyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Compliance.GET("/policies/:policyId", getExportPolicyHandler(s))
}

func getExportPolicyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		policyID := c.Param("policyId")

		exportPolicy, err := s.TrailStore.GetExportPolicy(ctx, policyID)
		if err != nil {
			if errors.Is(err, storage.ErrPolicyNotFound) || errors.Is(err, policy.ErrPolicyNotFound) {
				return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "Export policy not found")
			}
			log.Error().Err(err).Str("policy_id", policyID).Msg("Failed to get export policy")
			return echo.ErrInternalServerError
		}

		response := exportPolicyResponse(exportPolicy)

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func exportPolicyResponse(p *storage.ExportPolicy) *types.GetExportPolicyResponse {
	response := &types.GetExportPolicyResponse{
		PolicyID:       swag.String(p.PolicyID),
		Description:    p.Description,
		PolicyDocument: p.PolicyDocument,
	}
	if !p.CreatedAt.IsZero() {
		response.CreatedAt = strfmt.DateTime(p.CreatedAt)
	}
	if !p.UpdatedAt.IsZero() {
		response.UpdatedAt = strfmt.DateTime(p.UpdatedAt)
	}
	return response
}
