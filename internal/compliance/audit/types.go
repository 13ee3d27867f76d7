package audit

import "time"

// 审计事件类型
const (
	EventTypeEngineConfigured  = "EngineConfigured"
	EventTypeComplianceChecked = "ComplianceChecked"
	EventTypeReportGenerated   = "ReportGenerated"
	EventTypeReportExported    = "ReportExported"
)

// Event 审计事件
type Event struct {
	EventID   string
	Timestamp time.Time
	EventType string
	Actor     string
	Standards []string
	Operation string
	Result    string
	Details   map[string]interface{}
	IPAddress string
}
