package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/pkg/errors"
)

var (
	ErrAuditTrailFailed = errors.New("audit trail write failed")
)

// Logger 审计日志接口
type Logger interface {
	LogEvent(ctx context.Context, event *Event) error
}

// logger 审计日志实现
type logger struct {
	trailStore storage.TrailStore
}

// NewLogger 创建新的审计日志
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewLogger(trailStore storage.TrailStore) Logger {
	return &logger{
		trailStore: trailStore,
	}
}

// LogEvent 记录审计事件
func (l *logger) LogEvent(ctx context.Context, event *Event) error {
	// 设置时间戳与事件 ID（如果未设置）
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	storageEvent := &storage.AuditEvent{
		EventID:   event.EventID,
		Timestamp: event.Timestamp,
		EventType: event.EventType,
		Actor:     event.Actor,
		Standards: event.Standards,
		Operation: event.Operation,
		Result:    event.Result,
		Details:   event.Details,
		IPAddress: event.IPAddress,
	}

	if err := l.trailStore.SaveAuditEvent(ctx, storageEvent); err != nil {
		return errors.Wrap(ErrAuditTrailFailed, err.Error())
	}

	return nil
}
