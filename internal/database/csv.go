package database

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultSheetFile is the name of the exported provider sheet.
const DefaultSheetFile = "dv_intercepts_cleaned.csv"

// LoadSheet reads a sheet from a CSV file.
func LoadSheet(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// LoadRecords reads the provider records of a CSV file.
func LoadRecords(path string) ([]*Provider, error) {
	sheet, err := LoadSheet(path)
	if err != nil {
		return nil, err
	}
	records, err := sheet.Records()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// Save writes the sheet to a CSV file. The sheet is written to a temp file
// in the same directory and renamed over path, so readers see either the
// old or the new contents.
func (s *Sheet) Save(path string) (err error) {
	if path == "" {
		return fmt.Errorf("no path specified for saving sheet")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create sheet directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create sheet file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = s.WriteCSV(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set sheet permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write sheet file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace sheet file: %w", err)
	}
	return nil
}

// ReadCSV reads a sheet from a CSV reader. The first record is the header.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	sheet := &Sheet{Header: header}
	if err := sheet.Validate(); err != nil {
		return nil, err
	}

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum+1, err)
		}
		lineNum++
		sheet.Rows = append(sheet.Rows, record)
	}

	return sheet, nil
}

// WriteCSV writes the sheet, header first, to a CSV writer.
func (s *Sheet) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(s.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range s.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+2, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
