package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/store/testutil"
)

func newSheetsFixture(t *testing.T, sheetName string) (*testutil.SheetsAPI, *SheetsStore) {
	t.Helper()
	sheet := fixtureSheet()
	api := testutil.NewSheetsAPI("sheet-id", sheetName, append([][]string{sheet.Header}, sheet.Rows...))
	t.Cleanup(api.Close)

	s, err := NewSheetsStore(SheetsConfig{
		BaseURL:     api.URL,
		Spreadsheet: "sheet-id",
		Sheet:       sheetName,
		TokenEnv:    "TEST_TOKEN",
	}, WithEnvGetter(testEnv))
	require.NoError(t, err)
	return api, s
}

func TestSheetsStoreRequiresToken(t *testing.T) {
	_, err := NewSheetsStore(SheetsConfig{Spreadsheet: "id", TokenEnv: "MISSING"},
		WithEnvGetter(func(string) string { return "" }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")

	_, err = NewSheetsStore(SheetsConfig{}, WithEnvGetter(testEnv))
	assert.Error(t, err, "spreadsheet ID is required")
}

func TestSheetsStoreUpdateRequest(t *testing.T) {
	api, s := newSheetsFixture(t, "Sheet1")

	err := s.Update(context.Background(), NewAssignCommand("Beta", intercept.NewSet("4", "2")))
	require.NoError(t, err)

	puts := api.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)
	put := puts[0]
	assert.Equal(t, "/spreadsheets/sheet-id/values/Sheet1!I3", put.Path)
	assert.Equal(t, "valueInputOption=RAW", put.Query)
	assert.Equal(t, "Bearer test-token", put.Headers.Get("Authorization"))

	var body valueRange
	require.NoError(t, json.Unmarshal(put.Body, &body))
	assert.Equal(t, [][]string{{"2,4"}}, body.Values)
	assert.Equal(t, "Sheet1!I3", body.Range)

	assert.Equal(t, "2,4", api.Cell(3, InterceptColumn))
}

func TestSheetsStoreNotFoundWritesNothing(t *testing.T) {
	api, s := newSheetsFixture(t, "Sheet1")

	err := s.Update(context.Background(), NewAssignCommand("Nobody", intercept.NewSet("1")))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, api.RequestsFor(http.MethodPut))
}

func TestSheetsStoreQuotedSheetName(t *testing.T) {
	api, s := newSheetsFixture(t, "Provider List")

	records, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	require.NoError(t, s.Update(context.Background(), NewAssignCommand("Acme", intercept.NewSet("6"))))
	assert.Equal(t, "6", api.Cell(2, InterceptColumn))
}

func TestSheetsStoreFetchErrors(t *testing.T) {
	api := testutil.NewSheetsAPI("sheet-id", "Sheet1", [][]string{{"Provider(s)", "Intercept"}, {"Acme", "1"}})
	defer api.Close()

	tests := []struct {
		name        string
		spreadsheet string
		sheet       string
	}{
		{"unknown spreadsheet", "other-id", "Sheet1"},
		{"unknown sheet", "sheet-id", "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSheetsStore(SheetsConfig{
				BaseURL:     api.URL,
				Spreadsheet: tt.spreadsheet,
				Sheet:       tt.sheet,
				TokenEnv:    "TEST_TOKEN",
			}, WithEnvGetter(testEnv))
			require.NoError(t, err)

			_, err = s.FetchAll(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetch), "%v", err)

			err = s.Update(context.Background(), NewAssignCommand("Acme", intercept.NewSet("2")))
			assert.True(t, errors.Is(err, ErrFetch), "%v", err)
		})
	}
}

func TestSheetsStoreEmptySheet(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.ExpectGET("/spreadsheets/id/values/Sheet1", testutil.MockResponse{
		Body: `{"range":"Sheet1!A1:Z1000","majorDimension":"ROWS"}`,
	})

	s, err := NewSheetsStore(SheetsConfig{BaseURL: server.URL, Spreadsheet: "id", TokenEnv: "TEST_TOKEN"},
		WithEnvGetter(testEnv))
	require.NoError(t, err)

	_, err = s.FetchAll(context.Background())
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestA1Range(t *testing.T) {
	tests := []struct {
		sheet, cell, want string
	}{
		{"Sheet1", "I2", "Sheet1!I2"},
		{"Sheet1", "", "Sheet1"},
		{"Provider List", "I9", "'Provider List'!I9"},
		{"Bob's", "A1", "'Bob''s'!A1"},
	}
	for _, tt := range tests {
		if got := a1Range(tt.sheet, tt.cell); got != tt.want {
			t.Errorf("a1Range(%q, %q) = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}
