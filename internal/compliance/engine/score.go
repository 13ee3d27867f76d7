package engine

import (
	"math"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
)

// computeScore 计算合规评分
// 各标准最近一次检查通过的子检查项数除以子检查项总数，乘 100，
// 保留两位小数。纯函数：相同输入必然得到相同评分
func computeScore(inputs map[standard.Standard]scoreInput) float64 {
	passed := 0
	total := 0
	for _, input := range inputs {
		passed += input.passed
		total += input.total
	}

	if total == 0 {
		return 0
	}

	score := float64(passed) / float64(total) * 100
	return math.Round(score*100) / 100
}

// summarize 统计状态记录中通过的子检查项
func summarize(status check.Status) scoreInput {
	subChecks := status.SubChecks()
	input := scoreInput{total: len(subChecks)}
	for _, ok := range subChecks {
		if ok {
			input.passed++
		}
	}
	return input
}
