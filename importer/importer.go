// Package importer reads student rows (roll number, name, class name) from
// uploaded CSV or Excel files. The first row is a header and is skipped.
package importer

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx
var ErrUnsupportedFormat = errors.New("please upload a CSV or Excel (.xlsx) file")

// Row is one data row of an import file.
type Row struct {
	Line    int      // 1-based line (or sheet row) number in the file
	Fields  []string // trimmed cell values
	Problem string   // set when the line could not be read, Fields is then empty
}

// Issue explains why a row was not imported.
type Issue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Parse reads the rows of file, choosing the format by the extension of filename.
func Parse(file io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(file)
	case ".xlsx":
		return ParseXLSX(file)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCSV reads comma separated rows, one per line. Rows may have any number of
// fields. A line that cannot be read is returned with Problem set, the other lines
// are unaffected by it.
func ParseCSV(file io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []Row
	header := true
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		record, err := parseLine(text)
		if err != nil {
			rows = append(rows, Row{Line: line, Problem: "malformed row: " + err.Error()})
			continue
		}
		if row, ok := newRow(line, record); ok {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error processing CSV file, please check the format")
	}
	return rows, nil
}

// parseLine splits a single CSV line. Stray quotes are kept as part of the field.
func parseLine(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	record, err := r.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.Err
		}
		return nil, err
	}
	return record, nil
}

// ParseXLSX reads the rows of the first sheet of an Excel workbook.
func ParseXLSX(file io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open excel file")
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rows from sheet %s", sheetName)
	}

	var rows []Row
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if row, ok := newRow(i+1, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// newRow trims the cells of a record. Blank records are skipped.
func newRow(line int, record []string) (Row, bool) {
	fields := make([]string, len(record))
	blank := true
	for i, v := range record {
		fields[i] = strings.TrimSpace(v)
		if fields[i] != "" {
			blank = false
		}
	}
	return Row{Line: line, Fields: fields}, !blank
}
