package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/database"
)

// DefaultSheetsURL is the Google Sheets v4 REST endpoint.
const DefaultSheetsURL = "https://sheets.googleapis.com/v4"

// SheetsConfig addresses one sheet of a Google spreadsheet.
type SheetsConfig struct {
	BaseURL     string
	Spreadsheet string
	Sheet       string
	TokenEnv    string
	Timeout     time.Duration
	RetryMax    int
}

// SheetsStore reads and writes the provider sheet through the Sheets
// values API.
type SheetsStore struct {
	config SheetsConfig
	client HTTPClient
	token  string
	column int
	logger *zap.Logger
}

// NewSheetsStore creates a Sheets-backed store. The bearer token is read
// from the environment variable named by cfg.TokenEnv.
func NewSheetsStore(cfg SheetsConfig, opts ...Option) (*SheetsStore, error) {
	options := applyOptions(opts)

	if cfg.Spreadsheet == "" {
		return nil, fmt.Errorf("sheets store: spreadsheet ID is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSheetsURL
	}
	if cfg.Sheet == "" {
		cfg.Sheet = "Sheet1"
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = "DVMAP_SHEETS_TOKEN"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	token := options.getEnv(cfg.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("sheets token not found. Set %s environment variable", cfg.TokenEnv)
	}

	client := options.httpClient
	if client == nil {
		client = DefaultHTTPClient(cfg.Timeout, cfg.RetryMax, options.logger)
	}

	return &SheetsStore{
		config: cfg,
		client: client,
		token:  token,
		column: options.column,
		logger: options.logger,
	}, nil
}

// Name returns the backend name.
func (s *SheetsStore) Name() string {
	return "sheets"
}

// FetchAll reads every provider record from the sheet.
func (s *SheetsStore) FetchAll(ctx context.Context) ([]*database.Provider, error) {
	sheet, err := s.fetchSheet(ctx)
	if err != nil {
		return nil, err
	}
	records, err := sheet.Records()
	if err != nil {
		return nil, s.fetchError(err)
	}
	s.logger.Debug("fetched providers",
		zap.String("backend", s.Name()),
		zap.String("spreadsheet", s.config.Spreadsheet),
		zap.String("sheet", s.config.Sheet),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// Update locates the provider's row and overwrites its Intercept cell.
func (s *SheetsStore) Update(ctx context.Context, cmd AssignCommand) error {
	sheet, err := s.fetchSheet(ctx)
	if err != nil {
		return err
	}

	row := sheet.FindRow(cmd.Provider)
	if cmd.Provider == "" || row < 0 {
		return &NotFoundError{Provider: cmd.Provider}
	}

	// Data row 0 sits under the header on sheet row 2.
	cell := fmt.Sprintf("%s%d", database.ColumnLetter(s.column), row+2)
	rng := a1Range(s.config.Sheet, cell)

	payload, err := json.Marshal(valueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         [][]string{{cmd.Value()}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	body, err := s.do(ctx, http.MethodPut, s.valuesURL(rng)+"?valueInputOption=RAW", payload)
	if err != nil {
		return err
	}
	if updated := gjson.GetBytes(body, "updatedCells"); updated.Exists() && updated.Int() != 1 {
		s.logger.Warn("unexpected update size",
			zap.String("range", rng),
			zap.Int64("updated_cells", updated.Int()),
		)
	}

	logUpdate(s.logger, s.Name(), cmd)
	return nil
}

// valueRange is the Sheets API request body for a values write.
type valueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// fetchSheet reads the whole sheet; the first row is the header.
func (s *SheetsStore) fetchSheet(ctx context.Context) (*database.Sheet, error) {
	body, err := s.do(ctx, http.MethodGet, s.valuesURL(a1Range(s.config.Sheet, "")), nil)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for _, r := range gjson.GetBytes(body, "values").Array() {
		var row []string
		for _, cell := range r.Array() {
			row = append(row, cell.String())
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, s.fetchError(fmt.Errorf("sheet is empty"))
	}

	sheet := &database.Sheet{Header: rows[0], Rows: rows[1:]}
	if err := sheet.Validate(); err != nil {
		return nil, s.fetchError(err)
	}
	return sheet, nil
}

func (s *SheetsStore) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fetchError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.fetchError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, s.fetchError(fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg))
	}
	return body, nil
}

func (s *SheetsStore) valuesURL(rng string) string {
	return fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		strings.TrimRight(s.config.BaseURL, "/"),
		url.PathEscape(s.config.Spreadsheet),
		url.PathEscape(rng))
}

func (s *SheetsStore) fetchError(err error) error {
	return &FetchError{
		Backend:  s.Name(),
		Resource: s.config.Spreadsheet + "/" + s.config.Sheet,
		Err:      err,
	}
}

// a1Range builds an A1 range such as "Sheet1!I5". Sheet names other than
// plain identifiers are quoted.
func a1Range(sheet, cell string) string {
	name := sheet
	for _, r := range sheet {
		if !(r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			name = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
			break
		}
	}
	if cell == "" {
		return name
	}
	return name + "!" + cell
}
