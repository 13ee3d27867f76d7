package engine_test

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/audit"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto/software"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/export"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/sign"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTrailStore 用于测试的 mock 存储
type mockTrailStore struct {
	events       []*storage.AuditEvent
	policies     map[string]*storage.ExportPolicy
	saveEventErr error
}

func (m *mockTrailStore) SaveAuditEvent(_ context.Context, event *storage.AuditEvent) error {
	if m.saveEventErr != nil {
		return m.saveEventErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockTrailStore) QueryAuditEvents(_ context.Context, _ *storage.AuditEventFilter) ([]*storage.AuditEvent, error) {
	return m.events, nil
}

func (m *mockTrailStore) SaveReport(_ context.Context, _ *storage.ReportRecord) error {
	return nil
}

func (m *mockTrailStore) GetReport(_ context.Context, _ string) (*storage.ReportRecord, error) {
	return nil, storage.ErrReportNotFound
}

func (m *mockTrailStore) ListReports(_ context.Context, _ *storage.ReportFilter) ([]*storage.ReportRecord, error) {
	return nil, nil
}

func (m *mockTrailStore) SaveExportPolicy(_ context.Context, p *storage.ExportPolicy) error {
	if m.policies == nil {
		m.policies = make(map[string]*storage.ExportPolicy)
	}
	m.policies[p.PolicyID] = p
	return nil
}

func (m *mockTrailStore) GetExportPolicy(_ context.Context, policyID string) (*storage.ExportPolicy, error) {
	if p, ok := m.policies[policyID]; ok {
		return p, nil
	}
	return nil, storage.ErrPolicyNotFound
}

// testFactProvider 可注入错误的事实提供方
type testFactProvider struct {
	values map[string]bool
	errs   map[string]error
}

func (p *testFactProvider) CheckFact(_ context.Context, name string) (bool, error) {
	if err, ok := p.errs[name]; ok {
		return false, err
	}
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	return true, nil
}

func (p *testFactProvider) SetError(name string, err error) {
	if p.errs == nil {
		p.errs = make(map[string]error)
	}
	p.errs[name] = err
}

type testEnv struct {
	engine   engine.Engine
	store    *mockTrailStore
	facts    *testFactProvider
	provider crypto.Provider
	clock    *time2.MockClock
}

var testTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, facts map[string]bool) *testEnv {
	t.Helper()

	key := sha256.Sum256([]byte("test-encryption-key"))
	provider, err := software.NewProvider(key[:], []byte("test-signing-seed"))
	require.NoError(t, err)

	store := &mockTrailStore{}
	factProvider := &testFactProvider{values: facts}
	clock := time2.NewMockClock(testTime)

	e := engine.NewEngine(
		check.NewChecker(factProvider, clock, "test-assessor"),
		sign.NewSigner(provider),
		export.NewExporter(),
		provider,
		policy.NewEngine(store),
		audit.NewLogger(store),
		clock,
	)

	return &testEnv{
		engine:   e,
		store:    store,
		facts:    factProvider,
		provider: provider,
		clock:    clock,
	}
}

func defaultConfiguration() engine.Configuration {
	return engine.Configuration{
		Standards:              standard.All(),
		EnableAuditTrail:       false,
		EnableDigitalSignature: true,
		Actor:                  "compliance-service",
	}
}

func TestEngine_NotConfigured(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.engine.GenerateReport(ctx, standard.All(), nil)
	assert.ErrorIs(t, err, engine.ErrNotConfigured)

	_, err = env.engine.CheckGDPRCompliance(ctx, nil)
	assert.ErrorIs(t, err, engine.ErrNotConfigured)

	_, err = env.engine.ExportReport(ctx, &report.Report{}, export.FormatJSON, false)
	assert.ErrorIs(t, err, engine.ErrNotConfigured)

	_, err = env.engine.GetComplianceStatistics()
	assert.ErrorIs(t, err, engine.ErrNotConfigured)
}

func TestEngine_GenerateReport(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	r, err := env.engine.GenerateReport(ctx, standard.All(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ReportID)
	assert.Equal(t, report.SchemaVersion, r.SchemaVersion)
	assert.Equal(t, "compliance-service", r.GeneratedBy)
	assert.Equal(t, testTime, r.GeneratedAt)
	assert.Len(t, r.Data, 5, "one data section per requested standard")
	assert.NotEmpty(t, r.Signature)

	// 默认范围为截止当前时刻、回溯 30 天
	assert.Equal(t, testTime, r.Range.End)
	assert.Equal(t, testTime.AddDate(0, 0, -30), r.Range.Start)

	valid, err := env.engine.VerifyReport(ctx, r)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestEngine_GenerateReport_SubsetOfStandards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR, standard.SOX}, nil)
	require.NoError(t, err)

	assert.Len(t, r.Data, 2)
	assert.Contains(t, r.Data, "GDPR")
	assert.Contains(t, r.Data, "SOX")
}

func TestEngine_GenerateReport_InvalidStandards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	_, err := env.engine.GenerateReport(ctx, nil, nil)
	assert.ErrorIs(t, err, engine.ErrInvalidStandard)

	_, err = env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR, "SOC2"}, nil)
	assert.ErrorIs(t, err, engine.ErrInvalidStandard)

	// 失败的调用不得推进计数器
	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	assert.Nil(t, stats.LastComplianceCheck)
}

func TestEngine_GenerateReport_InvalidDateRange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	_, err := env.engine.GenerateReport(ctx, standard.All(), &report.DateRange{
		Start: testTime,
		End:   testTime.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)
}

func TestEngine_GenerateReport_AtomicFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	// HIPAA 检查因事实源错误而失败
	env.facts.SetError(check.FactHIPAAPhysicalSafeguards, errors.New("fact source unavailable"))

	_, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR, standard.HIPAA}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrReportGenerationFailed)

	// 部分成功不得产生任何可见副作用
	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	assert.Nil(t, stats.LastComplianceCheck)
	assert.Zero(t, stats.ComplianceScore)
}

func TestEngine_MonotonicReportCount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	for i := int64(1); i <= 3; i++ {
		_, err := env.engine.GenerateReport(ctx, standard.All(), nil)
		require.NoError(t, err)

		stats, err := env.engine.GetComplianceStatistics()
		require.NoError(t, err)
		assert.Equal(t, i, stats.TotalReports)
	}
}

func TestEngine_Statistics(t *testing.T) {
	ctx := context.Background()
	// GDPR 25 项子检查中 2 项失败，其余标准全部通过：
	// (67-2)/67 * 100 = 97.01
	env := newTestEnv(t, map[string]bool{
		check.FactGDPRConsentManagement: false,
		check.FactGDPRRightToErasure:    false,
	})
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	_, err := env.engine.GenerateReport(ctx, standard.All(), nil)
	require.NoError(t, err)

	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalReports)
	require.NotNil(t, stats.LastComplianceCheck)
	assert.Equal(t, testTime, *stats.LastComplianceCheck)
	assert.Equal(t, standard.All(), stats.ActiveStandards)
	assert.InDelta(t, 97.01, stats.ComplianceScore, 0.001)

	// 无中间操作时统计必须保持不变
	again, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestEngine_SingleCheckUpdatesStatistics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, map[string]bool{
		check.FactGDPRConsentManagement: false,
	})
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	status, err := env.engine.CheckGDPRCompliance(ctx, nil)
	require.NoError(t, err)
	assert.False(t, status.ConsentManagementEnabled)
	assert.Equal(t, "test-assessor", status.AssessedBy)

	// 单项检查更新最近检查时间与评分，但不产生报告
	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	require.NotNil(t, stats.LastComplianceCheck)
	assert.InDelta(t, 96.0, stats.ComplianceScore, 0.001, "24 of 25 GDPR sub-checks pass")
}

func TestEngine_ExportReport_Anonymized(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR}, nil)
	require.NoError(t, err)

	data, err := env.engine.ExportReport(ctx, r, export.FormatJSON, false)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "test-assessor")
	assert.NotContains(t, string(data), "compliance-service")

	// 相同输入的导出字节保持一致
	again, err := env.engine.ExportReport(ctx, r, export.FormatJSON, false)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEngine_ExportReport_SensitivePolicyDenied(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.SensitiveExportPolicyID = "sensitive-export"
	require.NoError(t, env.engine.Configure(cfg))

	require.NoError(t, env.store.SaveExportPolicy(ctx, &storage.ExportPolicy{
		PolicyID: "sensitive-export",
		PolicyDocument: map[string]interface{}{
			"statements": []interface{}{
				map[string]interface{}{
					"effect":  "Deny",
					"actions": []interface{}{policy.ActionExportSensitive},
				},
			},
		},
	}))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR}, nil)
	require.NoError(t, err)

	_, err = env.engine.ExportReport(ctx, r, export.FormatJSON, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, policy.ErrPolicyDenied)

	// 匿名化导出不经过策略评估
	_, err = env.engine.ExportReport(ctx, r, export.FormatJSON, false)
	require.NoError(t, err)
}

func TestEngine_ExportReport_Encrypted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.EnableEncryption = true
	require.NoError(t, env.engine.Configure(cfg))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.SOX}, nil)
	require.NoError(t, err)

	data, err := env.engine.ExportReport(ctx, r, export.FormatJSON, false)
	require.NoError(t, err)

	// 密文应可被同一加密协作方还原为 JSON
	var decoded report.Report
	assert.Error(t, json.Unmarshal(data, &decoded), "exported bytes must not be plaintext JSON")

	plaintext, err := env.provider.Decrypt(ctx, data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(plaintext, &decoded))
	assert.Equal(t, r.ReportID, decoded.ReportID)
}

func TestEngine_AuditTrailMandatory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.EnableAuditTrail = true
	require.NoError(t, env.engine.Configure(cfg))

	env.store.saveEventErr = errors.New("connection refused")

	_, err := env.engine.GenerateReport(ctx, standard.All(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, audit.ErrAuditTrailFailed)

	// 报告未交付给调用方，计数器与最近检查时间不得提交
	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	assert.Nil(t, stats.LastComplianceCheck)
	assert.Zero(t, stats.ComplianceScore)
}

func TestEngine_AuditTrailMandatorySingleCheck(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.EnableAuditTrail = true
	require.NoError(t, env.engine.Configure(cfg))

	env.store.saveEventErr = errors.New("connection refused")

	_, err := env.engine.CheckGDPRCompliance(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, audit.ErrAuditTrailFailed)

	stats, err := env.engine.GetComplianceStatistics()
	require.NoError(t, err)
	assert.Nil(t, stats.LastComplianceCheck)
	assert.Zero(t, stats.ComplianceScore)
}

func TestEngine_AuditTrailOptionalFailureIgnored(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Configure(defaultConfiguration()))

	env.store.saveEventErr = errors.New("connection refused")

	_, err := env.engine.GenerateReport(ctx, standard.All(), nil)
	require.NoError(t, err, "audit failures are swallowed when the trail is optional")
}

func TestEngine_AuditEventsRecorded(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.EnableAuditTrail = true
	require.NoError(t, env.engine.Configure(cfg))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR}, nil)
	require.NoError(t, err)

	_, err = env.engine.ExportReport(ctx, r, export.FormatCSV, false)
	require.NoError(t, err)

	eventTypes := make([]string, 0, len(env.store.events))
	for _, event := range env.store.events {
		eventTypes = append(eventTypes, event.EventType)
	}

	assert.Equal(t, []string{
		audit.EventTypeEngineConfigured,
		audit.EventTypeReportGenerated,
		audit.EventTypeReportExported,
	}, eventTypes)

	exported := env.store.events[2]
	assert.Equal(t, policy.ActionExportReport, exported.Details["action"], "non-sensitive exports are recorded under the plain export action")
}

func TestEngine_UnsignedReportVerification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	cfg := defaultConfiguration()
	cfg.EnableDigitalSignature = false
	require.NoError(t, env.engine.Configure(cfg))

	r, err := env.engine.GenerateReport(ctx, []standard.Standard{standard.GDPR}, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Signature)

	valid, err := env.engine.VerifyReport(ctx, r)
	require.NoError(t, err)
	assert.False(t, valid, "reports without a signature never verify")
}
