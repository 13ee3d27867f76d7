package types

// Public HTTP error types used in the error envelope.
const (
	PublicHTTPErrorTypeGeneric         = "generic"
	PublicHTTPErrorTypeNotConfigured   = "COMPLIANCE_ENGINE_NOT_CONFIGURED"
	PublicHTTPErrorTypeInvalidStandard = "INVALID_COMPLIANCE_STANDARD"
	PublicHTTPErrorTypeExportDenied    = "SENSITIVE_EXPORT_DENIED"
	PublicHTTPErrorTypeReportNotFound  = "REPORT_NOT_FOUND"
)

// PublicHTTPError is the public error envelope returned by the API.
type PublicHTTPError struct {
	Code  *int64  `json:"status"`
	Type  *string `json:"type"`
	Title *string `json:"title"`
}

// PublicHTTPValidationError extends the envelope with per-field validation errors.
type PublicHTTPValidationError struct {
	PublicHTTPError

	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

// HTTPValidationErrorDetail describes a single failed validation.
type HTTPValidationErrorDetail struct {
	Key   *string `json:"key"`
	In    *string `json:"in"`
	Error *string `json:"error"`
}
