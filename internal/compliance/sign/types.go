package sign

import (
	"encoding/json"
	"time"
)

// ReportPayload 参与签名的报告内容
// 字段顺序与 JSON 编码共同构成规范化形式，签名与验证两侧必须一致
type ReportPayload struct {
	ReportID    string                     `json:"report_id"`
	Standards   []string                   `json:"standards"`
	RangeStart  time.Time                  `json:"range_start"`
	RangeEnd    time.Time                  `json:"range_end"`
	Data        map[string]json.RawMessage `json:"data"`
	GeneratedAt time.Time                  `json:"generated_at"`
}
