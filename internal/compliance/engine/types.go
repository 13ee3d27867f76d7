package engine

import (
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
)

// Configuration 合规引擎配置
// 整体替换，单个字段不做并发修改
type Configuration struct {
	// Standards 启用的合规标准集合
	Standards []standard.Standard

	// EnableAuditTrail 为 true 时审计写入失败会使主操作失败
	EnableAuditTrail bool

	// EnableDigitalSignature 为 true 时生成的报告附带签名
	EnableDigitalSignature bool

	// EnableEncryption 为 true 时导出字节经加密协作方加密后返回
	EnableEncryption bool

	// SensitiveExportPolicyID 非空时，包含敏感数据的导出需通过该策略评估
	SensitiveExportPolicyID string

	// DefaultRangeDays 未显式传入时间范围时回溯的天数，0 表示使用默认值
	DefaultRangeDays int

	// Actor 记录在报告与审计事件中的操作方标识
	Actor string
}

// Statistics 合规统计快照
// 按需重新计算，不持久化
type Statistics struct {
	// TotalReports 成功生成的报告总数
	TotalReports int64

	// LastComplianceCheck 最近一次合规检查时间，从未检查过时为 nil
	LastComplianceCheck *time.Time

	// ActiveStandards 当前配置启用的标准
	ActiveStandards []standard.Standard

	// ComplianceScore 合规评分（0-100）
	// 最近一次各标准检查通过的子检查项占比，无检查记录时为 0
	ComplianceScore float64
}

// scoreInput 参与评分的单个标准检查摘要
type scoreInput struct {
	passed int
	total  int
}
