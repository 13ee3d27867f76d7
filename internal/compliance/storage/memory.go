package storage

import (
	"context"
	"sort"
	"sync"
)

// memoryStore 内存存储后端
// 用于开发环境和测试，进程退出即丢失
type memoryStore struct {
	mu       sync.RWMutex
	events   []*AuditEvent
	reports  map[string]*ReportRecord
	policies map[string]*ExportPolicy
}

// NewMemoryStore 创建新的内存存储后端
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewMemoryStore() TrailStore {
	return &memoryStore{
		events:   make([]*AuditEvent, 0),
		reports:  make(map[string]*ReportRecord),
		policies: make(map[string]*ExportPolicy),
	}
}

// SaveAuditEvent 保存审计事件
func (s *memoryStore) SaveAuditEvent(_ context.Context, event *AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *event
	s.events = append(s.events, &copied)
	return nil
}

// QueryAuditEvents 查询审计事件
func (s *memoryStore) QueryAuditEvents(_ context.Context, filter *AuditEventFilter) ([]*AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*AuditEvent, 0)
	for _, event := range s.events {
		if !matchAuditEvent(event, filter) {
			continue
		}
		copied := *event
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	return applyWindow(matched, filter), nil
}

func matchAuditEvent(event *AuditEvent, filter *AuditEventFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StartTime != nil && event.Timestamp.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && event.Timestamp.After(*filter.EndTime) {
		return false
	}
	if filter.EventType != "" && event.EventType != filter.EventType {
		return false
	}
	if filter.Actor != "" && event.Actor != filter.Actor {
		return false
	}
	if filter.Result != "" && event.Result != filter.Result {
		return false
	}
	return true
}

func applyWindow(events []*AuditEvent, filter *AuditEventFilter) []*AuditEvent {
	offset := 0
	limit := 100
	if filter != nil {
		if filter.Offset > 0 {
			offset = filter.Offset
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	if offset >= len(events) {
		return []*AuditEvent{}
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end]
}

// SaveReport 保存合规报告
func (s *memoryStore) SaveReport(_ context.Context, report *ReportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *report
	s.reports[report.ReportID] = &copied
	return nil
}

// GetReport 获取合规报告
func (s *memoryStore) GetReport(_ context.Context, reportID string) (*ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[reportID]
	if !ok {
		return nil, ErrReportNotFound
	}

	copied := *report
	return &copied, nil
}

// ListReports 列出合规报告
func (s *memoryStore) ListReports(_ context.Context, filter *ReportFilter) ([]*ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*ReportRecord, 0, len(s.reports))
	for _, report := range s.reports {
		if filter != nil {
			if filter.Standard != "" && !containsString(report.Standards, filter.Standard) {
				continue
			}
			if filter.Since != nil && report.GeneratedAt.Before(*filter.Since) {
				continue
			}
		}
		copied := *report
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].GeneratedAt.After(matched[j].GeneratedAt)
	})

	limit := 50
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := 0
	if filter != nil && filter.Offset > 0 {
		offset = filter.Offset
	}

	if offset >= len(matched) {
		return []*ReportRecord{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// SaveExportPolicy 保存导出策略
func (s *memoryStore) SaveExportPolicy(_ context.Context, policy *ExportPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *policy
	s.policies[policy.PolicyID] = &copied
	return nil
}

// GetExportPolicy 获取导出策略
func (s *memoryStore) GetExportPolicy(_ context.Context, policyID string) (*ExportPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[policyID]
	if !ok {
		return nil, ErrPolicyNotFound
	}

	copied := *policy
	return &copied, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
