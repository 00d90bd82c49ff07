package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// SheetsAPI fakes the values endpoints of the Google Sheets v4 API for one
// sheet: a full-sheet GET and single-cell PUT writes.
type SheetsAPI struct {
	*MockServer
	Spreadsheet string
	Sheet       string

	mu     sync.Mutex
	values [][]string
}

// NewSheetsAPI starts a fake holding values (header row first).
func NewSheetsAPI(spreadsheet, sheet string, values [][]string) *SheetsAPI {
	s := &SheetsAPI{
		MockServer:  NewMockServer(),
		Spreadsheet: spreadsheet,
		Sheet:       sheet,
		values:      copyValues(values),
	}

	prefix := "/spreadsheets/" + spreadsheet + "/values/"
	s.HandlePrefix(http.MethodGet, prefix, s.get)
	s.HandlePrefix(http.MethodPut, prefix, s.put)
	return s
}

// Values returns a copy of the current sheet contents.
func (s *SheetsAPI) Values() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValues(s.values)
}

// Cell returns the value at a 1-based row and column, or "".
func (s *SheetsAPI) Cell(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 1 || row > len(s.values) || col < 1 || col > len(s.values[row-1]) {
		return ""
	}
	return s.values[row-1][col-1]
}

func (s *SheetsAPI) get(req RecordedRequest) MockResponse {
	sheet, cell := s.parseRange(req.Path)
	if sheet != s.Sheet || cell != "" {
		return rangeError(sheet + cell)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return MockResponse{Body: map[string]interface{}{
		"range":          fmt.Sprintf("%s!A1:Z%d", s.Sheet, len(s.values)),
		"majorDimension": "ROWS",
		"values":         copyValues(s.values),
	}}
}

func (s *SheetsAPI) put(req RecordedRequest) MockResponse {
	sheet, cell := s.parseRange(req.Path)
	row, col, ok := parseCell(cell)
	if sheet != s.Sheet || !ok {
		return rangeError(sheet + "!" + cell)
	}
	if !strings.Contains(req.Query, "valueInputOption=RAW") {
		return MockResponse{StatusCode: http.StatusBadRequest, Body: `{"error":{"code":400,"message":"valueInputOption is required"}}`}
	}

	var body struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil || len(body.Values) != 1 || len(body.Values[0]) != 1 {
		return MockResponse{StatusCode: http.StatusBadRequest, Body: `{"error":{"code":400,"message":"Invalid values"}}`}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.values) < row {
		s.values = append(s.values, nil)
	}
	for len(s.values[row-1]) < col {
		s.values[row-1] = append(s.values[row-1], "")
	}
	s.values[row-1][col-1] = body.Values[0][0]

	return MockResponse{Body: map[string]interface{}{
		"spreadsheetId":  s.Spreadsheet,
		"updatedRange":   s.Sheet + "!" + cell,
		"updatedRows":    1,
		"updatedColumns": 1,
		"updatedCells":   1,
	}}
}

// parseRange splits the decoded path tail into sheet name and cell.
func (s *SheetsAPI) parseRange(path string) (sheet, cell string) {
	rng := strings.TrimPrefix(path, "/spreadsheets/"+s.Spreadsheet+"/values/")
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		sheet, cell = rng[:i], rng[i+1:]
	} else {
		sheet = rng
	}
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, cell
}

// parseCell parses an A1 cell reference such as "I12".
func parseCell(cell string) (row, col int, ok bool) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(cell) {
		return 0, 0, false
	}
	row, err := strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return 0, 0, false
	}
	return row, col, true
}

func rangeError(rng string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       fmt.Sprintf(`{"error":{"code":400,"message":"Unable to parse range: %s","status":"INVALID_ARGUMENT"}}`, rng),
	}
}

func copyValues(values [][]string) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = append([]string{}, row...)
	}
	return out
}
