package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/pkg/errors"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrPolicyNotFound = errors.New("export policy not found")
)

// postgresqlStore 实现 PostgreSQL 存储后端
type postgresqlStore struct {
	db *sql.DB
}

// NewPostgreSQLStore 创建新的 PostgreSQL 存储后端
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewPostgreSQLStore(db *sql.DB) TrailStore {
	return &postgresqlStore{db: db}
}

// SaveAuditEvent 保存审计事件
func (s *postgresqlStore) SaveAuditEvent(ctx context.Context, event *AuditEvent) error {
	standardsJSON, err := json.Marshal(event.Standards)
	if err != nil {
		return errors.Wrap(err, "failed to marshal standards")
	}

	var detailsJSON []byte
	if event.Details != nil {
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			return errors.Wrap(err, "failed to marshal details")
		}
	}

	ipAddress := null.NewString(event.IPAddress, event.IPAddress != "")

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_audit_events
			(event_id, occurred_at, event_type, actor, standards, operation, result, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.EventID,
		event.Timestamp,
		event.EventType,
		event.Actor,
		standardsJSON,
		event.Operation,
		event.Result,
		detailsJSON,
		ipAddress,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert audit event")
	}

	return nil
}

// QueryAuditEvents 查询审计事件
//
//nolint:gocognit // filter assembly requires sequential conditionals
func (s *postgresqlStore) QueryAuditEvents(ctx context.Context, filter *AuditEventFilter) ([]*AuditEvent, error) {
	query := `
		SELECT event_id, occurred_at, event_type, actor, standards, operation, result, details, ip_address
		FROM compliance_audit_events
		WHERE 1=1`
	args := make([]interface{}, 0, 8)

	appendArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += clause + argPlaceholder(len(args))
	}

	if filter != nil {
		if filter.StartTime != nil {
			appendArg(" AND occurred_at >= ", *filter.StartTime)
		}
		if filter.EndTime != nil {
			appendArg(" AND occurred_at <= ", *filter.EndTime)
		}
		if filter.EventType != "" {
			appendArg(" AND event_type = ", filter.EventType)
		}
		if filter.Actor != "" {
			appendArg(" AND actor = ", filter.Actor)
		}
		if filter.Result != "" {
			appendArg(" AND result = ", filter.Result)
		}
	}

	query += " ORDER BY occurred_at DESC"

	limit := 100
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	appendArg(" LIMIT ", limit)

	if filter != nil && filter.Offset > 0 {
		appendArg(" OFFSET ", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query audit events")
	}
	defer func() { _ = rows.Close() }()

	events := make([]*AuditEvent, 0)
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate audit events")
	}

	return events, nil
}

func scanAuditEvent(rows *sql.Rows) (*AuditEvent, error) {
	var (
		event         AuditEvent
		standardsJSON []byte
		detailsJSON   []byte
		ipAddress     null.String
	)

	if err := rows.Scan(
		&event.EventID,
		&event.Timestamp,
		&event.EventType,
		&event.Actor,
		&standardsJSON,
		&event.Operation,
		&event.Result,
		&detailsJSON,
		&ipAddress,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan audit event")
	}

	if len(standardsJSON) > 0 {
		if err := json.Unmarshal(standardsJSON, &event.Standards); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal standards")
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &event.Details); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal details")
		}
	}
	event.IPAddress = ipAddress.String

	return &event, nil
}

// SaveReport 保存合规报告
func (s *postgresqlStore) SaveReport(ctx context.Context, report *ReportRecord) error {
	standardsJSON, err := json.Marshal(report.Standards)
	if err != nil {
		return errors.Wrap(err, "failed to marshal standards")
	}

	dataJSON, err := json.Marshal(report.Data)
	if err != nil {
		return errors.Wrap(err, "failed to marshal report data")
	}

	generatedBy := null.NewString(report.GeneratedBy, report.GeneratedBy != "")

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_reports
			(report_id, standards, range_start, range_end, data, signature, schema_version, generated_at, generated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		report.ReportID,
		standardsJSON,
		report.RangeStart,
		report.RangeEnd,
		dataJSON,
		report.Signature,
		report.SchemaVersion,
		report.GeneratedAt,
		generatedBy,
		report.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert report")
	}

	return nil
}

// GetReport 获取合规报告
func (s *postgresqlStore) GetReport(ctx context.Context, reportID string) (*ReportRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report_id, standards, range_start, range_end, data, signature, schema_version, generated_at, generated_by, created_at
		FROM compliance_reports
		WHERE report_id = $1`,
		reportID,
	)

	var (
		report        ReportRecord
		standardsJSON []byte
		dataJSON      []byte
		generatedBy   null.String
	)

	err := row.Scan(
		&report.ReportID,
		&standardsJSON,
		&report.RangeStart,
		&report.RangeEnd,
		&dataJSON,
		&report.Signature,
		&report.SchemaVersion,
		&report.GeneratedAt,
		&generatedBy,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, errors.Wrap(err, "failed to get report")
	}

	if err := json.Unmarshal(standardsJSON, &report.Standards); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal standards")
	}
	if err := json.Unmarshal(dataJSON, &report.Data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal report data")
	}
	report.GeneratedBy = generatedBy.String

	return &report, nil
}

// ListReports 列出合规报告
func (s *postgresqlStore) ListReports(ctx context.Context, filter *ReportFilter) ([]*ReportRecord, error) {
	query := `
		SELECT report_id, standards, range_start, range_end, data, signature, schema_version, generated_at, generated_by, created_at
		FROM compliance_reports
		WHERE 1=1`
	args := make([]interface{}, 0, 4)

	appendArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += clause + argPlaceholder(len(args))
	}

	if filter != nil {
		if filter.Standard != "" {
			// standards 为 JSONB 数组，按元素包含匹配
			appendArg(" AND standards @> ", mustMarshalJSONArray(filter.Standard))
		}
		if filter.Since != nil {
			appendArg(" AND generated_at >= ", *filter.Since)
		}
	}

	query += " ORDER BY generated_at DESC"

	limit := 50
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	appendArg(" LIMIT ", limit)

	if filter != nil && filter.Offset > 0 {
		appendArg(" OFFSET ", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}
	defer func() { _ = rows.Close() }()

	reports := make([]*ReportRecord, 0)
	for rows.Next() {
		var (
			report        ReportRecord
			standardsJSON []byte
			dataJSON      []byte
			generatedBy   null.String
		)

		if err := rows.Scan(
			&report.ReportID,
			&standardsJSON,
			&report.RangeStart,
			&report.RangeEnd,
			&dataJSON,
			&report.Signature,
			&report.SchemaVersion,
			&report.GeneratedAt,
			&generatedBy,
			&report.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan report")
		}

		if err := json.Unmarshal(standardsJSON, &report.Standards); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal standards")
		}
		if err := json.Unmarshal(dataJSON, &report.Data); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal report data")
		}
		report.GeneratedBy = generatedBy.String

		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate reports")
	}

	return reports, nil
}

// SaveExportPolicy 保存导出策略
func (s *postgresqlStore) SaveExportPolicy(ctx context.Context, policy *ExportPolicy) error {
	documentJSON, err := json.Marshal(policy.PolicyDocument)
	if err != nil {
		return errors.Wrap(err, "failed to marshal policy document")
	}

	description := null.NewString(policy.Description, policy.Description != "")

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_export_policies (policy_id, description, policy_document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (policy_id) DO UPDATE
		SET description = EXCLUDED.description,
		    policy_document = EXCLUDED.policy_document,
		    updated_at = EXCLUDED.updated_at`,
		policy.PolicyID,
		description,
		documentJSON,
		policy.CreatedAt,
		policy.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert export policy")
	}

	return nil
}

// GetExportPolicy 获取导出策略
func (s *postgresqlStore) GetExportPolicy(ctx context.Context, policyID string) (*ExportPolicy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT policy_id, description, policy_document, created_at, updated_at
		FROM compliance_export_policies
		WHERE policy_id = $1`,
		policyID,
	)

	var (
		policy       ExportPolicy
		description  null.String
		documentJSON []byte
	)

	err := row.Scan(&policy.PolicyID, &description, &documentJSON, &policy.CreatedAt, &policy.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, errors.Wrap(err, "failed to get export policy")
	}

	policy.Description = description.String
	if len(documentJSON) > 0 {
		if err := json.Unmarshal(documentJSON, &policy.PolicyDocument); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal policy document")
		}
	}

	return &policy, nil
}

func argPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func mustMarshalJSONArray(value string) []byte {
	data, err := json.Marshal([]string{value})
	if err != nil {
		// []string 不会 marshal 失败
		return []byte("[]")
	}
	return data
}
