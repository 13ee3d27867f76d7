package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AuditEvents(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.SaveAuditEvent(ctx, &storage.AuditEvent{
			EventID:   string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			EventType: "ReportGenerated",
			Actor:     "compliance-service",
			Operation: "generate_report",
			Result:    "Success",
		})
		require.NoError(t, err)
	}

	events, err := store.QueryAuditEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// 按时间倒序
	assert.Equal(t, "c", events[0].EventID)
	assert.Equal(t, "a", events[2].EventID)
}

func TestMemoryStore_AuditEventFilters(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveAuditEvent(ctx, &storage.AuditEvent{
		EventID: "1", Timestamp: base, EventType: "ReportGenerated", Result: "Success",
	}))
	require.NoError(t, store.SaveAuditEvent(ctx, &storage.AuditEvent{
		EventID: "2", Timestamp: base.Add(time.Hour), EventType: "ReportExported", Result: "Failure",
	}))

	events, err := store.QueryAuditEvents(ctx, &storage.AuditEventFilter{EventType: "ReportExported"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].EventID)

	since := base.Add(time.Minute)
	events, err = store.QueryAuditEvents(ctx, &storage.AuditEventFilter{StartTime: &since})
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = store.QueryAuditEvents(ctx, &storage.AuditEventFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].EventID)
}

func TestMemoryStore_Reports(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	_, err := store.GetReport(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrReportNotFound)

	record := &storage.ReportRecord{
		ReportID:      "report-1",
		Standards:     []string{"GDPR"},
		GeneratedAt:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		SchemaVersion: "1.0",
	}
	require.NoError(t, store.SaveReport(ctx, record))

	got, err := store.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Equal(t, record.Standards, got.Standards)

	// 读取返回副本，修改不应影响存储内容
	got.SchemaVersion = "mutated"
	again, err := store.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", again.SchemaVersion)
}

func TestMemoryStore_ListReportsFilter(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveReport(ctx, &storage.ReportRecord{
		ReportID: "r1", Standards: []string{"GDPR"}, GeneratedAt: base,
	}))
	require.NoError(t, store.SaveReport(ctx, &storage.ReportRecord{
		ReportID: "r2", Standards: []string{"SOX", "HIPAA"}, GeneratedAt: base.Add(time.Hour),
	}))

	reports, err := store.ListReports(ctx, &storage.ReportFilter{Standard: "HIPAA"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "r2", reports[0].ReportID)

	reports, err = store.ListReports(ctx, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r2", reports[0].ReportID, "newest first")

	since := base.Add(time.Minute)
	reports, err = store.ListReports(ctx, &storage.ReportFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, reports, 1)
}

func TestMemoryStore_ExportPolicies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	_, err := store.GetExportPolicy(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrPolicyNotFound)

	require.NoError(t, store.SaveExportPolicy(ctx, &storage.ExportPolicy{
		PolicyID:       "export-policy",
		PolicyDocument: map[string]interface{}{"statements": []interface{}{}},
	}))

	policy, err := store.GetExportPolicy(ctx, "export-policy")
	require.NoError(t, err)
	assert.Equal(t, "export-policy", policy.PolicyID)
}
