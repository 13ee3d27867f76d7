package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/pkg/errors"
)

// 匿名化掩蔽的敏感字段名
var sensitiveFields = map[string]bool{
	"assessed_by": true,
}

// anonymizeReport 返回敏感字段被掩蔽后的报告副本
// 掩蔽在序列化之前发生，原报告不被修改
func anonymizeReport(r *report.Report) (*report.Report, error) {
	anonymized := *r
	anonymized.GeneratedBy = maskValue(r.GeneratedBy)
	anonymized.Data = make(map[string]json.RawMessage, len(r.Data))

	for name, raw := range r.Data {
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal %s data", name)
		}

		for key, value := range fields {
			if !sensitiveFields[key] {
				continue
			}
			if s, ok := value.(string); ok {
				fields[key] = maskValue(s)
			}
		}

		masked, err := json.Marshal(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %s data", name)
		}
		anonymized.Data[name] = masked
	}

	return &anonymized, nil
}

// maskValue 对敏感值计算 SHA-256 摘要
// 摘要而非定值掩码，保持跨报告的可关联性
func maskValue(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value))
	return "sha256:" + hex.EncodeToString(sum[:])
}
