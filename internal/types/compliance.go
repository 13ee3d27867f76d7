package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
)

// PostGenerateReportPayload is the request body for report generation.
type PostGenerateReportPayload struct {
	// Standards to cover, e.g. ["GDPR", "HIPAA"]. Required, non-empty.
	Standards []string `json:"standards"`

	// Optional query range; defaults to the trailing 30 days when omitted.
	RangeStart *strfmt.DateTime `json:"rangeStart,omitempty"`
	RangeEnd   *strfmt.DateTime `json:"rangeEnd,omitempty"`
}

// Validate validates the payload.
func (p *PostGenerateReportPayload) Validate(_ strfmt.Registry) error {
	if len(p.Standards) == 0 {
		return errors.New("standards is required and must not be empty")
	}
	if (p.RangeStart == nil) != (p.RangeEnd == nil) {
		return errors.New("rangeStart and rangeEnd must be provided together")
	}
	return nil
}

// PostExportReportPayload is the request body for report export.
type PostExportReportPayload struct {
	// Format is one of json, csv, xml, pdf. Required.
	Format *string `json:"format"`

	// IncludeSensitiveData controls whether sensitive values are exported verbatim.
	IncludeSensitiveData bool `json:"includeSensitiveData"`
}

// Validate validates the payload.
func (p *PostExportReportPayload) Validate(_ strfmt.Registry) error {
	if p.Format == nil || swag.StringValue(p.Format) == "" {
		return errors.New("format is required")
	}
	return nil
}

// ComplianceStatisticsResponse is the statistics snapshot response.
type ComplianceStatisticsResponse struct {
	TotalReports        int64            `json:"totalReports"`
	LastComplianceCheck *strfmt.DateTime `json:"lastComplianceCheck,omitempty"`
	ActiveStandards     []string         `json:"activeStandards"`
	ComplianceScore     float64          `json:"complianceScore"`
}

// Validate validates the response.
func (r *ComplianceStatisticsResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// PutExportPolicyPayload is the request body for creating or updating an export policy.
type PutExportPolicyPayload struct {
	Description string `json:"description,omitempty"`

	// PolicyDocument holds Allow/Deny statements gating export actions.
	PolicyDocument map[string]interface{} `json:"policyDocument"`
}

// Validate validates the payload.
func (p *PutExportPolicyPayload) Validate(_ strfmt.Registry) error {
	if len(p.PolicyDocument) == 0 {
		return errors.New("policyDocument is required")
	}
	return nil
}

// GetExportPolicyResponse is a single export policy.
type GetExportPolicyResponse struct {
	PolicyID       *string                `json:"policyId"`
	Description    string                 `json:"description,omitempty"`
	PolicyDocument map[string]interface{} `json:"policyDocument"`
	CreatedAt      strfmt.DateTime        `json:"createdAt,omitempty"`
	UpdatedAt      strfmt.DateTime        `json:"updatedAt,omitempty"`
}

// Validate validates the response.
func (r *GetExportPolicyResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// GetListReportsResponseReportsItems0 is a stored report summary.
type GetListReportsResponseReportsItems0 struct {
	ReportID      *string          `json:"reportId"`
	Standards     []string         `json:"standards"`
	RangeStart    *strfmt.DateTime `json:"rangeStart"`
	RangeEnd      *strfmt.DateTime `json:"rangeEnd"`
	GeneratedAt   *strfmt.DateTime `json:"generatedAt"`
	GeneratedBy   string           `json:"generatedBy,omitempty"`
	Signed        bool             `json:"signed"`
	SchemaVersion string           `json:"schemaVersion"`
}

// GetListReportsResponse is the stored report listing response.
type GetListReportsResponse struct {
	Reports []*GetListReportsResponseReportsItems0 `json:"reports"`
	Total   int64                                  `json:"total"`
}

// Validate validates the response.
func (r *GetListReportsResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// PostVerifyReportResponse is the report signature verification result.
type PostVerifyReportResponse struct {
	ReportID *string `json:"reportId"`
	Valid    *bool   `json:"valid"`
}

// Validate validates the response.
func (r *PostVerifyReportResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// GetAuditEventsResponseEventsItems0 is a single audit trail entry.
type GetAuditEventsResponseEventsItems0 struct {
	EventID   string                 `json:"eventId"`
	Timestamp *strfmt.DateTime       `json:"timestamp"`
	EventType *string                `json:"eventType"`
	Actor     string                 `json:"actor,omitempty"`
	Standards []string               `json:"standards,omitempty"`
	Operation *string                `json:"operation"`
	Result    *string                `json:"result"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IPAddress string                 `json:"ipAddress,omitempty"`
}

// GetAuditEventsResponse is the audit trail query response.
type GetAuditEventsResponse struct {
	Events []*GetAuditEventsResponseEventsItems0 `json:"events"`
	Total  int64                                 `json:"total"`
}

// Validate validates the response.
func (r *GetAuditEventsResponse) Validate(_ strfmt.Registry) error {
	return nil
}
