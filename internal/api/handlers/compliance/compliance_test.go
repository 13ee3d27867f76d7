package compliance_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/test"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportResponse struct {
	ReportID      string                     `json:"report_id"`
	Standards     []string                   `json:"standards"`
	Data          map[string]json.RawMessage `json:"data"`
	Signature     []byte                     `json:"signature"`
	SchemaVersion string                     `json:"schema_version"`
	GeneratedBy   string                     `json:"generated_by"`
}

func generateTestReport(t *testing.T, s *api.Server, standards []string) reportResponse {
	t.Helper()

	payload := types.PostGenerateReportPayload{Standards: standards}
	res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports", payload, nil)
	require.Equal(t, http.StatusCreated, res.Result().StatusCode, res.Body.String())

	var r reportResponse
	test.ParseResponseBody(t, res, &r)
	require.NotEmpty(t, r.ReportID)

	return r
}

func TestPostGenerateReport(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		r := generateTestReport(t, s, []string{"GDPR", "PCI-DSS"})

		assert.Equal(t, []string{"GDPR", "PCI-DSS"}, r.Standards)
		assert.Len(t, r.Data, 2)
		assert.Equal(t, "1.0", r.SchemaVersion)
		assert.NotEmpty(t, r.Signature, "digital signature is enabled by default")
	})
}

func TestPostGenerateReport_UnknownStandard(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := types.PostGenerateReportPayload{Standards: []string{"SOC2"}}
		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports", payload, nil)

		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidStandard)
	})
}

func TestPostGenerateReport_EmptyStandards(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := types.PostGenerateReportPayload{}
		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports", payload, nil)

		assert.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestPostExportReport(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		r := generateTestReport(t, s, []string{"GDPR"})

		format := "csv"
		payload := types.PostExportReportPayload{Format: &format}
		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/"+r.ReportID+"/export", payload, nil)

		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, "text/csv", res.Header().Get("Content-Type"))
		assert.Contains(t, res.Body.String(), "report_id,standard,field,value")
		// 默认导出需匿名化评估人
		assert.NotContains(t, res.Body.String(), "compliance-service")
	})
}

func TestPostExportReport_NotFound(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		format := "json"
		payload := types.PostExportReportPayload{Format: &format}
		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/0a0b0c0d-0000-0000-0000-000000000000/export", payload, nil)

		test.RequireHTTPError(t, res, httperrors.ErrNotFoundReport)
	})
}

func TestPostExportReport_UnknownFormat(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		r := generateTestReport(t, s, []string{"GDPR"})

		format := "yaml"
		payload := types.PostExportReportPayload{Format: &format}
		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/"+r.ReportID+"/export", payload, nil)

		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidFormat)
	})
}

func TestPostExportReport_SensitiveDeniedByPolicy(t *testing.T) {
	cfg := test.DefaultTestConfig()
	cfg.Compliance.SensitiveExportPolicyID = "sensitive-export"

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		// 创建仅拒绝敏感导出的策略
		policyPayload := types.PutExportPolicyPayload{
			Description: "deny sensitive exports",
			PolicyDocument: map[string]interface{}{
				"statements": []interface{}{
					map[string]interface{}{
						"effect":  "Deny",
						"actions": []interface{}{"export_sensitive"},
					},
				},
			},
		}
		res := test.PerformRequest(t, s, "PUT", "/api/v1/compliance/policies/sensitive-export", policyPayload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		r := generateTestReport(t, s, []string{"GDPR"})

		format := "json"
		res = test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/"+r.ReportID+"/export", types.PostExportReportPayload{
			Format:               &format,
			IncludeSensitiveData: true,
		}, nil)
		test.RequireHTTPError(t, res, httperrors.ErrForbiddenExportDenied)

		// 匿名化导出不受策略限制
		res = test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/"+r.ReportID+"/export", types.PostExportReportPayload{
			Format: &format,
		}, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)
	})
}

func TestPostVerifyReport(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		r := generateTestReport(t, s, []string{"HIPAA"})

		res := test.PerformRequest(t, s, "POST", "/api/v1/compliance/reports/"+r.ReportID+"/verify", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.PostVerifyReportResponse
		test.ParseResponseBody(t, res, &response)
		require.NotNil(t, response.Valid)
		assert.True(t, *response.Valid)
	})
}

func TestGetListReports(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		generateTestReport(t, s, []string{"GDPR"})
		generateTestReport(t, s, []string{"SOX", "HIPAA"})

		res := test.PerformRequest(t, s, "GET", "/api/v1/compliance/reports", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetListReportsResponse
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, int64(2), response.Total)

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/reports?standard=SOX", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, int64(1), response.Total)
	})
}

func TestGetCheckCompliance(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/compliance/checks/GDPR", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var status map[string]interface{}
		test.ParseResponseBody(t, res, &status)
		assert.Equal(t, true, status["consent_management_enabled"])
		assert.NotEmpty(t, status["assessed_by"])

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/checks/SOC2", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidStandard)
	})
}

func TestGetStatistics(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/compliance/statistics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var stats types.ComplianceStatisticsResponse
		test.ParseResponseBody(t, res, &stats)
		assert.Zero(t, stats.TotalReports)
		assert.Len(t, stats.ActiveStandards, 5)
		assert.Zero(t, stats.ComplianceScore)

		generateTestReport(t, s, []string{"GDPR"})

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/statistics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		test.ParseResponseBody(t, res, &stats)
		assert.Equal(t, int64(1), stats.TotalReports)
		assert.NotNil(t, stats.LastComplianceCheck)
		assert.InDelta(t, 100.0, stats.ComplianceScore, 0.001)
	})
}

func TestGetAuditEvents(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		generateTestReport(t, s, []string{"GDPR"})

		res := test.PerformRequest(t, s, "GET", "/api/v1/compliance/audit-events", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetAuditEventsResponse
		test.ParseResponseBody(t, res, &response)
		require.NotZero(t, response.Total)

		found := false
		for _, event := range response.Events {
			if event.EventType != nil && *event.EventType == "ReportGenerated" {
				found = true
			}
		}
		assert.True(t, found, "report generation must be audited")

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/audit-events?eventType=ReportGenerated", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, int64(1), response.Total)
	})
}

func TestExportPolicyRoundTrip(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := types.PutExportPolicyPayload{
			Description: "allow everything",
			PolicyDocument: map[string]interface{}{
				"statements": []interface{}{
					map[string]interface{}{
						"effect":  "Allow",
						"actions": []interface{}{"*"},
					},
				},
			},
		}

		res := test.PerformRequest(t, s, "PUT", "/api/v1/compliance/policies/allow-all", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/policies/allow-all", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetExportPolicyResponse
		test.ParseResponseBody(t, res, &response)
		require.NotNil(t, response.PolicyID)
		assert.Equal(t, "allow-all", *response.PolicyID)
		assert.Equal(t, "allow everything", response.Description)

		res = test.PerformRequest(t, s, "GET", "/api/v1/compliance/policies/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Result().StatusCode)
	})
}
