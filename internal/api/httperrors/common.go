package httperrors

import (
	"net/http"

	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
)

var (
	ErrBadRequestInvalidStandard  = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidStandard, "Unsupported compliance standard.")
	ErrBadRequestInvalidDateRange = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Invalid date range: end precedes start.")
	ErrBadRequestInvalidFormat    = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Unsupported export format.")
	ErrForbiddenExportDenied      = NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeExportDenied, "Export policy denies sensitive data export.")
	ErrNotFoundReport             = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeReportNotFound, "Report not found.")
	ErrConflictNotConfigured      = NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeNotConfigured, "Compliance engine is not configured.")
	ErrInternalReportGeneration   = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Report generation failed.")
	ErrInternalExportFailed       = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Report export failed.")
)
