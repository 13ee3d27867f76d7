package storage

import (
	"encoding/json"
	"time"
)

// AuditEvent 审计事件
//
//nolint:revive // AuditEvent is the standard naming for audit events
type AuditEvent struct {
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

// ReportRecord 持久化的合规报告
type ReportRecord struct {
	ReportID      string
	Standards     []string
	RangeStart    time.Time
	RangeEnd      time.Time
	Data          map[string]json.RawMessage
	Signature     []byte
	SchemaVersion string
	GeneratedAt   time.Time
	GeneratedBy   string
	CreatedAt     time.Time
}

// ExportPolicy 导出策略定义
// Statements 采用 Allow/Deny 语句列表，控制 export_sensitive 等动作
type ExportPolicy struct {
	PolicyID       string
	Description    string
	PolicyDocument map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
