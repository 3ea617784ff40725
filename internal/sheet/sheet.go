// Package sheet loads the desired-state workbook and exposes its rows.
//
// A workbook is fetched from an http(s) URL or read from a local file, then
// parsed as XLSX (by ZIP signature or .xlsx extension) or as CSV. The first
// row of the selected tab is the header.
package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSheetName is the tab read when none is configured.
const DefaultSheetName = "Sheet1"

var (
	// ErrUnreachable means the workbook could not be retrieved.
	ErrUnreachable = errors.New("sheet unreachable")

	// ErrSheetNotFound means the selected tab does not exist in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrMissingColumns means a required header is absent.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrUnsupportedFormat means the body is neither XLSX nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// Row is one data row keyed by header. Missing cells are "".
type Row struct {
	// Line is the 1-based row number in the tab; the header is line 1.
	Line   int
	Values map[string]string
}

// Get returns the value of the first alias present in the row.
func (r Row) Get(aliases ...string) string {
	for _, a := range aliases {
		if v, ok := r.Values[a]; ok {
			return v
		}
	}
	return ""
}

// Table is a parsed tab.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// HasColumn reports whether any alias appears in the header.
func (t *Table) HasColumn(aliases ...string) bool {
	for _, h := range t.Header {
		for _, a := range aliases {
			if h == a {
				return true
			}
		}
	}
	return false
}

// newTable builds a Table from raw cell rows. Header cells and values are
// trimmed; fully blank rows are dropped. The first occurrence of a duplicated
// header wins.
func newTable(name string, raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", name)
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Name: name, Header: header}
	for i, cells := range raw[1:] {
		row := Row{Line: i + 2, Values: make(map[string]string, len(header))}
		blank := true
		for col, h := range header {
			if h == "" {
				continue
			}
			if _, seen := row.Values[h]; seen {
				continue
			}
			v := ""
			if col < len(cells) {
				v = strings.TrimSpace(cells[col])
			}
			if v != "" {
				blank = false
			}
			row.Values[h] = v
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
