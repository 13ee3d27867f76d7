package policy_test

import (
	"context"
	"testing"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTrailStore 用于测试的 mock 存储（仅实现策略相关方法）
type mockTrailStore struct {
	policies map[string]*storage.ExportPolicy
}

func (m *mockTrailStore) SaveAuditEvent(_ context.Context, _ *storage.AuditEvent) error {
	return nil
}

func (m *mockTrailStore) QueryAuditEvents(_ context.Context, _ *storage.AuditEventFilter) ([]*storage.AuditEvent, error) {
	return nil, nil
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

func TestPolicyEngine_EvaluatePolicy(t *testing.T) {
	ctx := context.Background()
	mockStore := &mockTrailStore{
		policies: make(map[string]*storage.ExportPolicy),
	}
	engine := policy.NewEngine(mockStore)

	// 创建允许策略
	policyDoc := map[string]interface{}{
		"statements": []interface{}{
			map[string]interface{}{
				"effect":  "Allow",
				"actions": []interface{}{policy.ActionExportReport, policy.ActionExportSensitive},
			},
		},
	}

	err := mockStore.SaveExportPolicy(ctx, &storage.ExportPolicy{
		PolicyID:       "test-policy-1",
		PolicyDocument: policyDoc,
	})
	require.NoError(t, err)

	// 测试允许的操作
	err = engine.EvaluatePolicy(ctx, "test-policy-1", policy.ActionExportSensitive)
	require.NoError(t, err, "export_sensitive should be allowed")

	// 测试未授权的操作（策略中没有明确允许，应该被拒绝）
	err = engine.EvaluatePolicy(ctx, "test-policy-1", "delete_report")
	require.Error(t, err, "delete_report should be denied (not in allowed actions)")
	assert.ErrorIs(t, err, policy.ErrPolicyDenied)
}

func TestPolicyEngine_DenyPolicy(t *testing.T) {
	ctx := context.Background()
	mockStore := &mockTrailStore{
		policies: make(map[string]*storage.ExportPolicy),
	}
	engine := policy.NewEngine(mockStore)

	// 拒绝语句优先于允许语句
	policyDoc := map[string]interface{}{
		"statements": []interface{}{
			map[string]interface{}{
				"effect":  "Allow",
				"actions": []interface{}{"*"},
			},
			map[string]interface{}{
				"effect":  "Deny",
				"actions": []interface{}{policy.ActionExportSensitive},
			},
		},
	}

	err := mockStore.SaveExportPolicy(ctx, &storage.ExportPolicy{
		PolicyID:       "test-policy-deny",
		PolicyDocument: policyDoc,
	})
	require.NoError(t, err)

	err = engine.EvaluatePolicy(ctx, "test-policy-deny", policy.ActionExportSensitive)
	require.Error(t, err)
	assert.ErrorIs(t, err, policy.ErrPolicyDenied)

	// 其他操作仍被通配允许
	err = engine.EvaluatePolicy(ctx, "test-policy-deny", policy.ActionExportReport)
	require.NoError(t, err)
}

func TestPolicyEngine_MissingPolicy(t *testing.T) {
	ctx := context.Background()
	engine := policy.NewEngine(&mockTrailStore{})

	err := engine.EvaluatePolicy(ctx, "does-not-exist", policy.ActionExportSensitive)
	require.Error(t, err)
	assert.ErrorIs(t, err, policy.ErrPolicyNotFound)
}

func TestPolicyEngine_EmptyDocumentDeniesByDefault(t *testing.T) {
	ctx := context.Background()
	mockStore := &mockTrailStore{
		policies: make(map[string]*storage.ExportPolicy),
	}
	engine := policy.NewEngine(mockStore)

	err := mockStore.SaveExportPolicy(ctx, &storage.ExportPolicy{
		PolicyID:       "empty-policy",
		PolicyDocument: map[string]interface{}{},
	})
	require.NoError(t, err)

	err = engine.EvaluatePolicy(ctx, "empty-policy", policy.ActionExportSensitive)
	assert.ErrorIs(t, err, policy.ErrPolicyDenied)
}
