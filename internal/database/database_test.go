package database

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Provider(s),Primary Contact Person,Description of Services,Recipients,Criteria,Research/Best Practice,Legally Mandated,Notes,Intercept,Gaps
Acme,Jane Doe,Shelter,Adults,Referral,Yes,No,,"1,3",
Beta,,Hotline,,,,,Call first,,Funding
zeta house,Sam,Counseling,Families,,,,,123,
`

func TestReadCSV(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 3)
	assert.Equal(t, 8, sheet.Column(FieldIntercept))
	assert.Equal(t, 0, sheet.Column(FieldProvider))

	records, err := sheet.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)

	acme := records[0]
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, "Jane Doe", acme.Contact)
	assert.Equal(t, "1,3", acme.Intercept)
	assert.Equal(t, "1,3", acme.Stages().String())

	assert.Equal(t, "Funding", records[1].Gaps)
	assert.Equal(t, "1,2,3", records[2].Stages().String())
}

func TestReadCSVMissingProviderColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,Intercept\nAcme,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider(s)")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRecordsHeaderAliasesAndExtras(t *testing.T) {
	csvData := "provider,INTERCEPTS,County\nAcme,2,PWC\n ,4,PWC\n"
	sheet, err := ReadCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	records, err := sheet.Records()
	require.NoError(t, err)
	require.Len(t, records, 1, "blank provider rows are skipped")
	assert.Equal(t, "2", records[0].Intercept)
	assert.Equal(t, "PWC", records[0].Extra["County"])
}

func TestSheetWriteCSVRoundTrip(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sheet.WriteCSV(&buf))
	assert.Equal(t, sampleCSV, buf.String())
}

func TestSheetSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "providers.csv")
	sheet := NewSheetFromRecords([]*Provider{
		{Name: "Acme", Intercept: "1,3", Notes: "note"},
		{Name: "Beta"},
	})
	require.NoError(t, sheet.Save(path))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "note", Find("Acme", records).Notes)
}

func TestSheetSaveReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.csv")
	require.NoError(t, NewSheetFromRecords([]*Provider{{Name: "Acme", Intercept: "1"}}).Save(path))
	require.NoError(t, NewSheetFromRecords([]*Provider{{Name: "Acme", Intercept: "2,4"}}).Save(path))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2,4", records[0].Intercept)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "providers.csv", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestFindRow(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 0, sheet.FindRow("Acme"))
	assert.Equal(t, 2, sheet.FindRow("zeta house"))
	assert.Equal(t, -1, sheet.FindRow("acme"), "match is case-sensitive")
	assert.Equal(t, -1, sheet.FindRow("Acm"))
	assert.Equal(t, -1, sheet.FindRow(""))
}

func TestFindRowTrimsCellEdges(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"Provider(s)"},
		Rows:   [][]string{{"   "}, {" Acme "}, {"Acme"}},
	}

	assert.Equal(t, 1, sheet.FindRow("Acme"), "cell edges are trimmed, first match wins")
	assert.Equal(t, -1, sheet.FindRow(" Acme "), "the name itself is not trimmed")
	assert.Equal(t, -1, sheet.FindRow(""), "blank cells never match")
}

func TestSetCell(t *testing.T) {
	sheet := &Sheet{Header: []string{"Provider(s)"}, Rows: [][]string{{"Acme"}}}

	require.NoError(t, sheet.SetCell(0, 9, "2,4"))
	assert.Len(t, sheet.Rows[0], 9)
	assert.Equal(t, "2,4", sheet.Rows[0][8])

	assert.Error(t, sheet.SetCell(1, 9, "x"))
	assert.Error(t, sheet.SetCell(0, 0, "x"))
}

func TestSheetClone(t *testing.T) {
	sheet := NewSheetFromRecords([]*Provider{{Name: "Acme"}})
	clone := sheet.Clone()
	require.NoError(t, clone.SetCell(0, 9, "5"))
	assert.Equal(t, "", sheet.Rows[0][8])
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{9, "I"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := ColumnLetter(tt.col); got != tt.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestStandardColumnsInterceptPosition(t *testing.T) {
	cols := StandardColumns()
	require.Len(t, cols, 10)
	assert.Equal(t, FieldIntercept, cols[8], "Intercept must stay the ninth column")
}

func TestFindFirstRowWins(t *testing.T) {
	records := []*Provider{
		{Name: "Acme", Intercept: "1"},
		{Name: "Acme", Intercept: "2"},
	}
	assert.Equal(t, "1", Find("Acme", records).Intercept)
	assert.Nil(t, Find("acme", records))
	assert.Nil(t, Find("Acme", nil))
}

func TestSortNames(t *testing.T) {
	names := []string{"b", "B", "a", "C"}
	SortNames(names)
	assert.Equal(t, []string{"a", "B", "b", "C"}, names)
}

func TestProviderClone(t *testing.T) {
	p := NewProvider("Acme")
	p.Extra["County"] = "PWC"
	clone := p.Clone()
	clone.Extra["County"] = "Other"
	assert.Equal(t, "PWC", p.Extra["County"])
}
