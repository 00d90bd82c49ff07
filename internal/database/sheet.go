package database

import (
	"fmt"
	"strings"
)

// Sheet is the raw tabular form of the provider list: a header row followed
// by data rows, exactly as a spreadsheet or CSV export holds them.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// NewSheet creates an empty sheet with the standard header.
func NewSheet() *Sheet {
	header := make([]string, len(standardColumns))
	for i, f := range standardColumns {
		header[i] = string(f)
	}
	return &Sheet{Header: header}
}

// NewSheetFromRecords creates a standard-layout sheet holding the records.
func NewSheetFromRecords(records []*Provider) *Sheet {
	s := NewSheet()
	for _, p := range records {
		s.Append(p)
	}
	return s
}

// Column returns the 0-based index of the column holding f, or -1.
func (s *Sheet) Column(f Field) int {
	for i, h := range s.Header {
		if parsed, _ := ParseField(h); parsed == f {
			return i
		}
	}
	return -1
}

// Validate checks that the sheet can be keyed by provider name.
func (s *Sheet) Validate() error {
	if s.Column(FieldProvider) < 0 {
		return fmt.Errorf("missing required column: %s", FieldProvider)
	}
	return nil
}

// Records parses every data row into a Provider. Rows with a blank provider
// name are skipped; they cannot be addressed by name.
func (s *Sheet) Records() ([]*Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	fields := make([]Field, len(s.Header))
	for i, h := range s.Header {
		fields[i], _ = ParseField(h)
	}

	records := make([]*Provider, 0, len(s.Rows))
	for _, row := range s.Rows {
		p := NewProvider("")
		for i, f := range fields {
			if i >= len(row) || f == "" {
				continue
			}
			value := strings.TrimSpace(row[i])
			if _, standard := fieldIndex(f); !standard && value == "" {
				continue
			}
			p.SetValue(f, value)
		}
		if p.Name == "" {
			continue
		}
		records = append(records, p)
	}
	return records, nil
}

// FindRow returns the 0-based data row index of the first row whose
// provider cell equals name, or -1. The comparison is case-sensitive but
// ignores leading and trailing whitespace in the cell, the same trimming
// Records applies on read. An empty name never matches.
func (s *Sheet) FindRow(name string) int {
	col := s.Column(FieldProvider)
	if col < 0 || name == "" {
		return -1
	}
	for i, row := range s.Rows {
		if col < len(row) && strings.TrimSpace(row[col]) == name {
			return i
		}
	}
	return -1
}

// SetCell overwrites one cell. row is a 0-based data row index and col a
// 1-based column position, matching spreadsheet addressing. Short rows are
// padded.
func (s *Sheet) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(s.Rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	if col < 1 {
		return fmt.Errorf("column %d out of range", col)
	}
	for len(s.Rows[row]) < col {
		s.Rows[row] = append(s.Rows[row], "")
	}
	s.Rows[row][col-1] = value
	return nil
}

// Append adds a provider as a new row, in header order.
func (s *Sheet) Append(p *Provider) {
	row := make([]string, len(s.Header))
	for i, h := range s.Header {
		f, _ := ParseField(h)
		row[i] = p.Value(f)
	}
	s.Rows = append(s.Rows, row)
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	c := &Sheet{Header: append([]string(nil), s.Header...)}
	c.Rows = make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

// ColumnLetter converts a 1-based column position to A1 notation ("I" for 9).
func ColumnLetter(col int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

func fieldIndex(f Field) (int, bool) {
	for i, std := range standardColumns {
		if std == f {
			return i, true
		}
	}
	return -1, false
}
