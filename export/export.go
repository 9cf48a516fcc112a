// Package export renders a subject attendance report as CSV, Excel or PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/reports"
)

// Formats
const (
	CSV  = "csv"
	XLSX = "xlsx"
	PDF  = "pdf"
)

var ErrUnknownFormat = errors.New("format must be one of csv, xlsx, pdf")

// Headers are the column titles of every export.
var Headers = []string{"Student ID", "Name", "Present Days", "Absent Days", "Attendance Rate"}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case CSV:
		return "text/csv; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// FileName returns attendance_report_<class>_<subject>.<format>, path separators replaced.
func FileName(rep reports.SubjectReport, format string) string {
	name := fmt.Sprintf("attendance_report_%s_%s.%s", rep.Class, rep.Subject, format)
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}

// Rate formats an attendance rate with one decimal, e.g. 66.7%.
func Rate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}

func record(row reports.SubjectRow) []string {
	return []string{
		row.StudentID,
		row.Name,
		strconv.Itoa(row.PresentDays),
		strconv.Itoa(row.AbsentDays),
		Rate(row.AttendanceRate),
	}
}

// Write renders rep in the given format to w.
func Write(w io.Writer, rep reports.SubjectReport, format string) error {
	switch format {
	case CSV:
		return WriteCSV(w, rep)
	case XLSX:
		return WriteXLSX(w, rep)
	case PDF:
		return WritePDF(w, rep)
	}
	return ErrUnknownFormat
}

// WriteCSV writes a header line and one line per student.
func WriteCSV(w io.Writer, rep reports.SubjectReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		if err := writer.Write(record(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook with a single sheet named after the subject.
func WriteXLSX(w io.Writer, rep reports.SubjectReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(rep.Subject)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrapf(err, "writing header %s", h)
		}
	}
	for r, row := range rep.Rows {
		values := []interface{}{row.StudentID, row.Name, row.PresentDays, row.AbsentDays, Rate(row.AttendanceRate)}
		for i, val := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return errors.Wrapf(err, "writing cell %s", cell)
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "writing workbook")
}

// sheetName fits a subject into what Excel allows for sheet names.
func sheetName(subject string) string {
	subject = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]'`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(subject))
	if subject == "" {
		return "Report"
	}
	r := []rune(subject)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

// WritePDF writes a one-table A4 document with the report title and period.
func WritePDF(w io.Writer, rep reports.SubjectReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Attendance Report"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Class: "+rep.Class), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Subject: "+rep.Subject), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Period: %s to %s", rep.StartDate, rep.EndDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{30, 60, 30, 30, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range Headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rep.Rows {
		for i, val := range record(row) {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, tr(val), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
