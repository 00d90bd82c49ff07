package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
	"github.com/pwc-dv/dvmap/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// brokenStore fails every call the way an unreachable backend does.
type brokenStore struct{}

func (brokenStore) Name() string { return "broken" }

func (brokenStore) FetchAll(context.Context) ([]*database.Provider, error) {
	return nil, &store.FetchError{Backend: "broken", Resource: "sheet", Err: errors.New("connection refused")}
}

func (brokenStore) Update(context.Context, store.AssignCommand) error {
	return &store.FetchError{Backend: "broken", Resource: "sheet", Err: errors.New("connection refused")}
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStoreFromRecords(testutil.SampleProviders())
	srv, err := New(Config{Store: mem})
	require.NoError(t, err)
	return srv, mem
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChartPage(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Acme Shelter")
	assert.Contains(t, rec.Body.String(), "Reentry")
}

func TestGrid(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/grid", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc output.GridDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Len(t, doc.Rows, 5)
	assert.Len(t, doc.Cells, 30)
	assert.Equal(t, "Acme Shelter", doc.Rows[0].Provider)
	assert.Equal(t, []intercept.Code{"1", "3"}, doc.Rows[0].Stages)
	assert.NotEmpty(t, doc.Dropped)
}

func TestStages(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stages []intercept.Stage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	assert.Equal(t, intercept.Stages(), stages)
}

func TestDetail(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/providers/Beta%20Hotline", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp detailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Beta Hotline", resp.Provider)
	assert.Equal(t, "Call first", resp.Fields.Get(database.FieldNotes))
	assert.Equal(t, database.NotAvailable, resp.Fields.Get(database.FieldCriteria))

	rec = do(t, srv, http.MethodGet, "/api/providers/Nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nobody")
}

func TestAssign(t *testing.T) {
	srv, mem := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/providers/Acme%20Shelter/intercepts", `{"stages":["4","2"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp assignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2,4", resp.Value)
	assert.Equal(t, []intercept.Code{"2", "4"}, resp.Row.Stages)
	assert.NotEmpty(t, resp.CommandID)
	assert.Equal(t, 1, mem.Writes)

	records, err := mem.FetchAll(context.Background())
	require.NoError(t, err)
	for _, p := range records {
		if p.Name == "Acme Shelter" {
			assert.Equal(t, "2,4", p.Intercept)
		}
	}
}

func TestAssignClear(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/providers/Acme%20Shelter/intercepts", `{"stages":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp assignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.Value)
	assert.Empty(t, resp.Row.Stages)
}

func TestAssignErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown code", "/api/providers/Acme%20Shelter/intercepts", `{"stages":["7"]}`, http.StatusBadRequest},
		{"bad body", "/api/providers/Acme%20Shelter/intercepts", `{"stages":`, http.StatusBadRequest},
		{"unknown provider", "/api/providers/Nobody/intercepts", `{"stages":["1"]}`, http.StatusNotFound},
		{"missing stages", "/api/providers/Acme%20Shelter/intercepts", `{}`, http.StatusBadRequest},
		{"misspelled key", "/api/providers/Acme%20Shelter/intercepts", `{"stage":["2"]}`, http.StatusBadRequest},
		{"null stages", "/api/providers/Acme%20Shelter/intercepts", `{"stages":null}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, mem := newTestServer(t)
			rec := do(t, srv, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Equal(t, 0, mem.Writes)
		})
	}
}

func TestConcurrentRequestsOnCSVStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), database.DefaultSheetFile)
	require.NoError(t, database.NewSheetFromRecords(testutil.SampleProviders()).Save(path))
	srv, err := New(Config{Store: store.NewCSVStore(path)})
	require.NoError(t, err)

	bodies := []string{`{"stages":["1"]}`, `{"stages":["2","5"]}`, `{"stages":[]}`}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		body := bodies[i%len(bodies)]
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec := do(t, srv, http.MethodPut, "/api/providers/Acme%20Shelter/intercepts", body)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}()
		go func() {
			defer wg.Done()
			rec := do(t, srv, http.MethodGet, "/api/grid", "")
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}()
	}
	wg.Wait()

	records, err := database.LoadRecords(path)
	require.NoError(t, err)
	assert.Len(t, records, len(testutil.SampleProviders()))
	assert.Contains(t, []string{"1", "2,5", ""}, database.Find("Acme Shelter", records).Intercept)
}

func TestStoreUnavailable(t *testing.T) {
	srv, err := New(Config{Store: brokenStore{}})
	require.NoError(t, err)

	for _, path := range []string{"/", "/api/grid", "/api/providers/Acme"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
	}

	rec := do(t, srv, http.MethodPut, "/api/providers/Acme/intercepts", `{"stages":["1"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestStartShutsDownOnCancel(t *testing.T) {
	mem := store.NewMemoryStoreFromRecords(nil)
	srv, err := New(Config{Addr: "127.0.0.1:0", Store: mem})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Start(ctx))
}
