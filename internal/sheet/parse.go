package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// Parse decodes data as XLSX or CSV and returns the named tab. CSV has a
// single implicit tab and ignores sheetName.
func Parse(data []byte, hint, sheetName string) (*Table, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	switch {
	case bytes.HasPrefix(data, zipMagic) || hint == ".xlsx":
		return parseXLSX(data, sheetName)
	case hint == ".csv" || looksLikeText(data):
		return parseCSV(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseXLSX(data []byte, sheetName string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %w", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	tabs := f.GetSheetList()
	if !slices.Contains(tabs, sheetName) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheetName, strings.Join(tabs, ", "))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	return newTable(sheetName, rows)
}

func parseCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return newTable("csv", rows)
}

// looksLikeText reports whether data is free of NUL bytes in its first KiB.
func looksLikeText(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return len(head) > 0 && bytes.IndexByte(head, 0) < 0
}
