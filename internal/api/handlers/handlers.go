package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/handlers/compliance"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/handlers/wellknown"
)

// AttachAllRoutes attaches all routes of the application to the server's router.
func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		compliance.PostGenerateReportRoute(s),
		compliance.GetListReportsRoute(s),
		compliance.PostExportReportRoute(s),
		compliance.PostVerifyReportRoute(s),
		compliance.GetCheckComplianceRoute(s),
		compliance.GetStatisticsRoute(s),
		compliance.GetAuditEventsRoute(s),
		compliance.PutExportPolicyRoute(s),
		compliance.GetExportPolicyRoute(s),
		wellknown.GetSecurityTxtRoute(s),
	}
}
