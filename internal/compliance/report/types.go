package report

import (
	"encoding/json"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/pkg/errors"
)

// SchemaVersion 报告结构版本号
const SchemaVersion = "1.0"

var (
	ErrInvalidDateRange = errors.New("invalid date range")
)

// DateRange 报告查询时间范围
// 属于查询范围而非测量时间，与报告时间戳之间不存在顺序约束
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate 校验时间范围（时长非负）
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return errors.Wrapf(ErrInvalidDateRange, "end %s before start %s", r.End, r.Start)
	}
	return nil
}

// TrailingDays 构造以 now 结尾、向前回溯 days 天的时间范围
func TrailingDays(now time.Time, days int) DateRange {
	return DateRange{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}
}

// Report 合规报告
// 构建后不可变：生成 → 只读导出 → 丢弃，不存在更新路径
type Report struct {
	ReportID      string                     `json:"report_id"`
	Standards     []standard.Standard        `json:"standards"`
	Range         DateRange                  `json:"date_range"`
	Data          map[string]json.RawMessage `json:"data"`
	Signature     []byte                     `json:"signature,omitempty"`
	SchemaVersion string                     `json:"schema_version"`
	GeneratedAt   time.Time                  `json:"generated_at"`
	GeneratedBy   string                     `json:"generated_by,omitempty"`
}
