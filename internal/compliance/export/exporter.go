package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/pkg/errors"
)

var (
	ErrExportFailed  = errors.New("report export failed")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format 导出格式选择器
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatPDF  Format = "pdf"
)

// ParseFormat 解析导出格式，未知值返回 ErrUnknownFormat
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatCSV, FormatXML, FormatPDF:
		return Format(value), nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", value)
}

// Exporter 报告导出服务接口
// 序列化前按需匿名化；同一不可变报告与参数的输出字节保持一致
type Exporter interface {
	Export(ctx context.Context, r *report.Report, format Format, includeSensitiveData bool) ([]byte, error)
}

// exporter 报告导出服务实现
type exporter struct{}

// NewExporter 创建新的报告导出服务
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewExporter() Exporter {
	return &exporter{}
}

// Export 序列化报告
func (e *exporter) Export(_ context.Context, r *report.Report, format Format, includeSensitiveData bool) ([]byte, error) {
	// 匿名化必须先于序列化
	source := r
	if !includeSensitiveData {
		anonymized, err := anonymizeReport(r)
		if err != nil {
			return nil, errors.Wrap(ErrExportFailed, err.Error())
		}
		source = anonymized
	}

	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = exportJSON(source)
	case FormatCSV:
		data, err = exportCSV(source)
	case FormatXML:
		data, err = exportXML(source)
	case FormatPDF:
		data, err = exportPDF(source)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	if err != nil {
		return nil, errors.Wrap(ErrExportFailed, err.Error())
	}

	return data, nil
}

func exportJSON(r *report.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// flatEntry 展平后的单行记录
type flatEntry struct {
	Standard string
	Field    string
	Value    string
}

// flattenData 将报告数据展平为排序后的行，保证输出确定性
func flattenData(r *report.Report) ([]flatEntry, error) {
	standards := make([]string, 0, len(r.Data))
	for name := range r.Data {
		standards = append(standards, name)
	}
	sort.Strings(standards)

	entries := make([]flatEntry, 0)
	for _, name := range standards {
		var fields map[string]interface{}
		if err := json.Unmarshal(r.Data[name], &fields); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal %s data", name)
		}

		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			entries = append(entries, flatEntry{
				Standard: name,
				Field:    key,
				Value:    fmt.Sprintf("%v", fields[key]),
			})
		}
	}

	return entries, nil
}

func exportCSV(r *report.Report) ([]byte, error) {
	entries, err := flattenData(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"report_id", "standard", "field", "value"}
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "failed to write CSV header")
	}

	for _, entry := range entries {
		row := []string{r.ReportID, entry.Standard, entry.Field, entry.Value}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV")
	}

	return buf.Bytes(), nil
}

// XML 输出结构
type xmlReport struct {
	XMLName       xml.Name      `xml:"complianceReport"`
	ReportID      string        `xml:"reportId"`
	SchemaVersion string        `xml:"schemaVersion"`
	GeneratedAt   string        `xml:"generatedAt"`
	GeneratedBy   string        `xml:"generatedBy,omitempty"`
	RangeStart    string        `xml:"dateRange>start"`
	RangeEnd      string        `xml:"dateRange>end"`
	Standards     []xmlStandard `xml:"standards>standard"`
}

type xmlStandard struct {
	Name    string     `xml:"name,attr"`
	Entries []xmlEntry `xml:"check"`
}

type xmlEntry struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func exportXML(r *report.Report) ([]byte, error) {
	entries, err := flattenData(r)
	if err != nil {
		return nil, err
	}

	out := xmlReport{
		ReportID:      r.ReportID,
		SchemaVersion: r.SchemaVersion,
		GeneratedAt:   r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		GeneratedBy:   r.GeneratedBy,
		RangeStart:    r.Range.Start.UTC().Format("2006-01-02T15:04:05Z"),
		RangeEnd:      r.Range.End.UTC().Format("2006-01-02T15:04:05Z"),
	}

	var current *xmlStandard
	for _, entry := range entries {
		if current == nil || current.Name != entry.Standard {
			out.Standards = append(out.Standards, xmlStandard{Name: entry.Standard})
			current = &out.Standards[len(out.Standards)-1]
		}
		current.Entries = append(current.Entries, xmlEntry{Name: entry.Field, Value: entry.Value})
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal XML")
	}

	return append([]byte(xml.Header), data...), nil
}
