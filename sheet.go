package txingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PreviewSize is the number of data rows used for column detection.
const PreviewSize = 10

// RawRow is one data row of the input file: header → raw cell text.
// Num is the line number in the file, the header being line 1.
type RawRow struct {
	Num     int
	Headers []string
	Values  map[string]string
}

// Get returns the cell under header, and whether the row has such a cell.
func (r RawRow) Get(header string) (string, bool) {
	v, ok := r.Values[header]
	return v, ok
}

// Sheet is a fully loaded input file.
type Sheet struct {
	Headers []string
	Rows    []RawRow
}

// Preview returns the first PreviewSize rows.
func (s *Sheet) Preview() []RawRow {
	if len(s.Rows) > PreviewSize {
		return s.Rows[:PreviewSize]
	}
	return s.Rows
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a whole CSV document. A leading UTF-8 byte order mark is
// ignored and rows may be shorter or longer than the header.
func LoadCSV(r io.Reader) (*Sheet, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &StructuralError{Msg: "Error reading CSV file", Err: err}
	}
	return newSheet(records)
}

// OpenSheet loads a CSV file, or the first worksheet of an .xlsx workbook.
func OpenSheet(path string) (*Sheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return openWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &StructuralError{Msg: "File not found: " + path, Err: err}
		}
		return nil, &StructuralError{Msg: "Error opening " + path, Err: err}
	}
	defer f.Close()
	return LoadCSV(f)
}

func openWorkbook(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &StructuralError{Msg: "File not found: " + path, Err: err}
		}
		return nil, &StructuralError{Msg: "Error reading workbook " + path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &StructuralError{Msg: "Workbook has no sheet: " + path}
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &StructuralError{Msg: "Error reading sheet " + sheets[0], Err: err}
	}
	return newSheet(records)
}

// newSheet turns records into rows keyed by the first record.
func newSheet(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, &StructuralError{Msg: "File is empty"}
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	s := &Sheet{Headers: headers}
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				values[h] = rec[j]
			} else {
				values[h] = ""
			}
		}
		s.Rows = append(s.Rows, RawRow{Num: i + 2, Headers: headers, Values: values})
	}
	return s, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
