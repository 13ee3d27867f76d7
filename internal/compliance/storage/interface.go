package storage

import (
	"context"
	"time"
)

// TrailStore 定义合规追踪存储接口
// 所有存储后端实现（PostgreSQL、内存）都必须实现此接口
// 报告本身是瞬态对象，持久化是存储协作方的职责
type TrailStore interface {
	// 审计事件操作
	SaveAuditEvent(ctx context.Context, event *AuditEvent) error
	QueryAuditEvents(ctx context.Context, filter *AuditEventFilter) ([]*AuditEvent, error)

	// 报告操作
	SaveReport(ctx context.Context, report *ReportRecord) error
	GetReport(ctx context.Context, reportID string) (*ReportRecord, error)
	ListReports(ctx context.Context, filter *ReportFilter) ([]*ReportRecord, error)

	// 导出策略操作
	SaveExportPolicy(ctx context.Context, policy *ExportPolicy) error
	GetExportPolicy(ctx context.Context, policyID string) (*ExportPolicy, error)
}

// AuditEventFilter 审计事件查询过滤器
type AuditEventFilter struct {
	StartTime *time.Time
	EndTime   *time.Time
	EventType string
	Actor     string
	Result    string
	Limit     int
	Offset    int
}

// ReportFilter 报告查询过滤器
type ReportFilter struct {
	Standard string
	Since    *time.Time
	Limit    int
	Offset   int
}
