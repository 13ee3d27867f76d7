package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/google/uuid"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/audit"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/export"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/sign"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/pkg/errors"
)

const (
	// 未显式给定时间范围时默认回溯的天数
	defaultRangeDays = 30
)

var (
	ErrNotConfigured          = errors.New("compliance engine is not configured")
	ErrInvalidStandard        = errors.New("invalid compliance standard")
	ErrReportGenerationFailed = errors.New("report generation failed")
	ErrExportFailed           = errors.New("report export failed")
	ErrEncryptionFailed       = errors.New("export encryption failed")
	ErrSignatureFailed        = errors.New("report signature failed")
)

// Engine 合规引擎接口
// 编排各标准检查、组装签名报告并支持只读导出
type Engine interface {
	// Configure 设置当前配置，所有检查与报告操作前必须调用
	Configure(cfg Configuration) error

	// GenerateReport 为给定标准集合生成签名合规报告
	// dateRange 为 nil 时默认为截止当前时刻、回溯 30 天
	GenerateReport(ctx context.Context, standards []standard.Standard, dateRange *report.DateRange) (*report.Report, error)

	// 各标准的独立检查操作
	CheckGDPRCompliance(ctx context.Context, dateRange *report.DateRange) (*check.GDPRStatus, error)
	CheckHIPAACompliance(ctx context.Context, dateRange *report.DateRange) (*check.HIPAAStatus, error)
	CheckSOXCompliance(ctx context.Context, dateRange *report.DateRange) (*check.SOXStatus, error)
	CheckPCIDSSCompliance(ctx context.Context, dateRange *report.DateRange) (*check.PCIDSSStatus, error)
	CheckISO27001Compliance(ctx context.Context, dateRange *report.DateRange) (*check.ISO27001Status, error)

	// ExportReport 将报告序列化为指定格式
	// includeSensitiveData 为 false 时敏感字段在序列化前被匿名化
	ExportReport(ctx context.Context, r *report.Report, format export.Format, includeSensitiveData bool) ([]byte, error)

	// VerifyReport 校验报告签名
	VerifyReport(ctx context.Context, r *report.Report) (bool, error)

	// GetComplianceStatistics 返回当前统计快照
	GetComplianceStatistics() (*Statistics, error)
}

// engine 合规引擎实现
// 所有操作通过单一互斥锁严格串行执行：
// 正确性（一致的快照）优先于吞吐量
type engine struct {
	mu sync.Mutex

	checker        check.Checker
	signer         sign.Signer
	exporter       export.Exporter
	cryptoProvider crypto.Provider
	policyEngine   policy.Engine
	auditLogger    audit.Logger
	clock          time2.Clock

	// 以下状态仅在持有 mu 时修改
	configured  bool
	cfg         Configuration
	reportCount int64
	lastCheck   *time.Time
	scoreInputs map[standard.Standard]scoreInput
}

// NewEngine 创建新的合规引擎
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewEngine(
	checker check.Checker,
	signer sign.Signer,
	exporter export.Exporter,
	cryptoProvider crypto.Provider,
	policyEngine policy.Engine,
	auditLogger audit.Logger,
	clock time2.Clock,
) Engine {
	return &engine{
		checker:        checker,
		signer:         signer,
		exporter:       exporter,
		cryptoProvider: cryptoProvider,
		policyEngine:   policyEngine,
		auditLogger:    auditLogger,
		clock:          clock,
		scoreInputs:    make(map[standard.Standard]scoreInput),
	}
}

// Configure 整体替换当前配置
// 与其余操作共用同一互斥锁，进行中的报告生成只会看到完整的旧配置或新配置
func (e *engine) Configure(cfg Configuration) error {
	for _, s := range cfg.Standards {
		if !s.IsValid() {
			return errors.Wrapf(ErrInvalidStandard, "%q", s)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.configured = true

	// 配置变更记入审计，失败仅在强制审计时上抛
	event := &audit.Event{
		EventType: audit.EventTypeEngineConfigured,
		Actor:     cfg.Actor,
		Standards: standardNames(cfg.Standards),
		Operation: "configure",
		Result:    "Success",
	}
	if err := e.auditLogger.LogEvent(context.Background(), event); err != nil && cfg.EnableAuditTrail {
		return err
	}

	return nil
}

// GenerateReport 生成合规报告
// 失败是原子的：任一标准检查失败时不返回部分报告，计数器不变
func (e *engine) GenerateReport(ctx context.Context, standards []standard.Standard, dateRange *report.DateRange) (*report.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.configured {
		return nil, ErrNotConfigured
	}

	if len(standards) == 0 {
		return nil, errors.Wrap(ErrInvalidStandard, "standards list is empty")
	}
	for _, s := range standards {
		if !s.IsValid() {
			return nil, errors.Wrapf(ErrInvalidStandard, "%q", s)
		}
	}

	resolved, err := e.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	// 逐标准执行检查，结果先累积在本地，成功后才提交状态
	data := make(map[string]json.RawMessage, len(standards))
	pendingScores := make(map[standard.Standard]scoreInput, len(standards))

	for _, s := range standards {
		status, err := e.checker.Check(ctx, s)
		if err != nil {
			return nil, errors.Wrapf(ErrReportGenerationFailed, "standard %s: %v", s, err)
		}

		serialized, err := json.Marshal(status)
		if err != nil {
			return nil, errors.Wrapf(ErrReportGenerationFailed, "standard %s: %v", s, err)
		}

		data[s.String()] = serialized
		pendingScores[s] = summarize(status)
	}

	now := e.clock.Now()
	r := &report.Report{
		ReportID:      uuid.New().String(),
		Standards:     standards,
		Range:         resolved,
		Data:          data,
		SchemaVersion: report.SchemaVersion,
		GeneratedAt:   now,
		GeneratedBy:   e.cfg.Actor,
	}

	if e.cfg.EnableDigitalSignature {
		signature, err := e.signer.SignReport(ctx, signPayload(r))
		if err != nil {
			return nil, errors.Wrap(ErrSignatureFailed, err.Error())
		}
		r.Signature = signature
	}

	// 审计先于状态提交：强制审计失败时计数器与评分输入保持不变
	if err := e.logAudit(ctx, audit.EventTypeReportGenerated, "generate_report", standardNames(standards), map[string]interface{}{
		"report_id": r.ReportID,
	}); err != nil {
		return nil, err
	}

	// 提交副作用：报告计数、最近检查时间与评分输入
	e.reportCount++
	e.lastCheck = &now
	for s, input := range pendingScores {
		e.scoreInputs[s] = input
	}

	return r, nil
}

// CheckGDPRCompliance 执行 GDPR 合规检查
func (e *engine) CheckGDPRCompliance(ctx context.Context, dateRange *report.DateRange) (*check.GDPRStatus, error) {
	var status *check.GDPRStatus
	err := e.runCheck(ctx, standard.GDPR, dateRange, func() (check.Status, error) {
		var err error
		status, err = e.checker.CheckGDPR(ctx)
		return status, err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CheckHIPAACompliance 执行 HIPAA 合规检查
func (e *engine) CheckHIPAACompliance(ctx context.Context, dateRange *report.DateRange) (*check.HIPAAStatus, error) {
	var status *check.HIPAAStatus
	err := e.runCheck(ctx, standard.HIPAA, dateRange, func() (check.Status, error) {
		var err error
		status, err = e.checker.CheckHIPAA(ctx)
		return status, err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CheckSOXCompliance 执行 SOX 合规检查
func (e *engine) CheckSOXCompliance(ctx context.Context, dateRange *report.DateRange) (*check.SOXStatus, error) {
	var status *check.SOXStatus
	err := e.runCheck(ctx, standard.SOX, dateRange, func() (check.Status, error) {
		var err error
		status, err = e.checker.CheckSOX(ctx)
		return status, err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CheckPCIDSSCompliance 执行 PCI DSS 合规检查
func (e *engine) CheckPCIDSSCompliance(ctx context.Context, dateRange *report.DateRange) (*check.PCIDSSStatus, error) {
	var status *check.PCIDSSStatus
	err := e.runCheck(ctx, standard.PCIDSS, dateRange, func() (check.Status, error) {
		var err error
		status, err = e.checker.CheckPCIDSS(ctx)
		return status, err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CheckISO27001Compliance 执行 ISO 27001 合规检查
func (e *engine) CheckISO27001Compliance(ctx context.Context, dateRange *report.DateRange) (*check.ISO27001Status, error) {
	var status *check.ISO27001Status
	err := e.runCheck(ctx, standard.ISO27001, dateRange, func() (check.Status, error) {
		var err error
		status, err = e.checker.CheckISO27001(ctx)
		return status, err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// runCheck 单标准检查的公共路径
// dateRange 仅作为查询范围校验，事实本身是即时信号
func (e *engine) runCheck(ctx context.Context, s standard.Standard, dateRange *report.DateRange, run func() (check.Status, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.configured {
		return ErrNotConfigured
	}

	if _, err := e.resolveRange(dateRange); err != nil {
		return err
	}

	status, err := run()
	if err != nil {
		return err
	}

	if err := e.logAudit(ctx, audit.EventTypeComplianceChecked, "check_compliance", []string{s.String()}, nil); err != nil {
		return err
	}

	now := e.clock.Now()
	e.lastCheck = &now
	e.scoreInputs[s] = summarize(status)

	return nil
}

// ExportReport 导出报告
// 匿名化（需要时）→ 序列化 → 加密（需要时），顺序不可变
func (e *engine) ExportReport(ctx context.Context, r *report.Report, format export.Format, includeSensitiveData bool) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.configured {
		return nil, ErrNotConfigured
	}

	action := policy.ActionExportReport
	if includeSensitiveData {
		action = policy.ActionExportSensitive
	}

	if includeSensitiveData && e.cfg.SensitiveExportPolicyID != "" {
		if err := e.policyEngine.EvaluatePolicy(ctx, e.cfg.SensitiveExportPolicyID, action); err != nil {
			return nil, errors.Wrap(err, "sensitive data export denied")
		}
	}

	data, err := e.exporter.Export(ctx, r, format, includeSensitiveData)
	if err != nil {
		return nil, errors.Wrap(ErrExportFailed, err.Error())
	}

	if e.cfg.EnableEncryption {
		encrypted, err := e.cryptoProvider.Encrypt(ctx, data)
		if err != nil {
			return nil, errors.Wrap(ErrEncryptionFailed, err.Error())
		}
		data = encrypted
	}

	if err := e.logAudit(ctx, audit.EventTypeReportExported, "export_report", standardNames(r.Standards), map[string]interface{}{
		"report_id":      r.ReportID,
		"format":         string(format),
		"action":         action,
		"sensitive_data": includeSensitiveData,
	}); err != nil {
		return nil, err
	}

	return data, nil
}

// VerifyReport 校验报告签名
func (e *engine) VerifyReport(ctx context.Context, r *report.Report) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.configured {
		return false, ErrNotConfigured
	}

	if len(r.Signature) == 0 {
		return false, nil
	}

	return e.signer.VerifyReport(ctx, signPayload(r), r.Signature)
}

// GetComplianceStatistics 返回统计快照
// 无中间操作时连续两次调用返回相同的值
func (e *engine) GetComplianceStatistics() (*Statistics, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.configured {
		return nil, ErrNotConfigured
	}

	active := make([]standard.Standard, len(e.cfg.Standards))
	copy(active, e.cfg.Standards)

	var last *time.Time
	if e.lastCheck != nil {
		copied := *e.lastCheck
		last = &copied
	}

	return &Statistics{
		TotalReports:        e.reportCount,
		LastComplianceCheck: last,
		ActiveStandards:     active,
		ComplianceScore:     computeScore(e.scoreInputs),
	}, nil
}

// resolveRange 解析时间范围参数
// 默认值在调用时计算：当前时刻回溯配置的天数，绝不依赖隐式全局周期
func (e *engine) resolveRange(dateRange *report.DateRange) (report.DateRange, error) {
	if dateRange == nil {
		days := e.cfg.DefaultRangeDays
		if days <= 0 {
			days = defaultRangeDays
		}
		return report.TrailingDays(e.clock.Now(), days), nil
	}
	if err := dateRange.Validate(); err != nil {
		return report.DateRange{}, err
	}
	return *dateRange, nil
}

// logAudit 写入审计事件
// 审计失败默认忽略，仅在配置强制审计时使主操作失败
func (e *engine) logAudit(ctx context.Context, eventType string, operation string, standards []string, details map[string]interface{}) error {
	event := &audit.Event{
		EventType: eventType,
		Actor:     e.cfg.Actor,
		Standards: standards,
		Operation: operation,
		Result:    "Success",
	}
	if details != nil {
		event.Details = details
	}

	if err := e.auditLogger.LogEvent(ctx, event); err != nil {
		if e.cfg.EnableAuditTrail {
			return err
		}
	}

	return nil
}

func signPayload(r *report.Report) *sign.ReportPayload {
	return &sign.ReportPayload{
		ReportID:    r.ReportID,
		Standards:   standardNames(r.Standards),
		RangeStart:  r.Range.Start,
		RangeEnd:    r.Range.End,
		Data:        r.Data,
		GeneratedAt: r.GeneratedAt,
	}
}

func standardNames(standards []standard.Standard) []string {
	names := make([]string, len(standards))
	for i, s := range standards {
		names[i] = s.String()
	}
	return names
}
