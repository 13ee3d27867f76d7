package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/report"
	"github.com/pkg/errors"
)

func exportPDF(r *report.Report) ([]byte, error) {
	entries, err := flattenData(r)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// 创建与修改时间均固定为报告时间戳，否则 /ModDate 取墙钟导致同一报告的导出字节不一致
	pdf.SetCreationDate(r.GeneratedAt.UTC())
	pdf.SetModificationDate(r.GeneratedAt.UTC())
	pdf.SetTitle("Compliance Report "+r.ReportID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Compliance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Report ID: "+r.ReportID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Schema version: "+r.SchemaVersion)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated at: "+r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	pdf.Ln(6)
	if r.GeneratedBy != "" {
		pdf.Cell(0, 6, "Generated by: "+r.GeneratedBy)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Date range: "+
		r.Range.Start.UTC().Format("2006-01-02")+" to "+
		r.Range.End.UTC().Format("2006-01-02"))
	pdf.Ln(10)

	currentStandard := ""
	for _, entry := range entries {
		if entry.Standard != currentStandard {
			currentStandard = entry.Standard

			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 8, entry.Standard)
			pdf.Ln(8)
			pdf.SetFont("Helvetica", "", 9)
		}

		pdf.CellFormat(120, 5, entry.Field, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, entry.Value, "", 0, "L", false, 0, "")
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render PDF")
	}

	return buf.Bytes(), nil
}
