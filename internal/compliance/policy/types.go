package policy

// 导出策略动作
const (
	ActionExportSensitive = "export_sensitive"
	ActionExportReport    = "export_report"
)

// Policy 导出策略
type Policy struct {
	PolicyID    string
	Description string
	Statements  []*Statement
}

// Statement 策略语句
// Effect 为 Allow 或 Deny，Deny 优先
type Statement struct {
	Effect     string
	Actions    []string
	Formats    []string
	Conditions map[string]interface{}
}
