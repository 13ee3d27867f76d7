package standard

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownStandard = errors.New("unknown compliance standard")
)

// Standard 合规标准（封闭枚举）
// 支持的监管框架：GDPR、HIPAA、SOX、PCI-DSS、ISO-27001
type Standard string

const (
	GDPR     Standard = "GDPR"
	HIPAA    Standard = "HIPAA"
	SOX      Standard = "SOX"
	PCIDSS   Standard = "PCI-DSS"
	ISO27001 Standard = "ISO-27001"
)

// All 返回全部已知标准（固定顺序）
func All() []Standard {
	return []Standard{GDPR, HIPAA, SOX, PCIDSS, ISO27001}
}

// IsValid 判断是否为已知标准
func (s Standard) IsValid() bool {
	switch s {
	case GDPR, HIPAA, SOX, PCIDSS, ISO27001:
		return true
	}
	return false
}

func (s Standard) String() string {
	return string(s)
}

// Parse 解析标准名称，未知值返回 ErrUnknownStandard
func Parse(value string) (Standard, error) {
	s := Standard(value)
	if !s.IsValid() {
		return "", errors.Wrapf(ErrUnknownStandard, "%q", value)
	}
	return s, nil
}
