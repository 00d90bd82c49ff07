// Package testutil provides HTTP test doubles for remote store testing.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockResponse defines a response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       interface{} // Will be JSON encoded if not a string
	Headers    map[string]string
}

// RecordedRequest captures details about a request made to the mock server.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
}

// HandlerFunc computes a response from a recorded request.
type HandlerFunc func(req RecordedRequest) MockResponse

type prefixHandler struct {
	method string
	prefix string
	fn     HandlerFunc
}

// MockServer provides a configurable HTTP test server for store testing.
// It records all requests for verification and returns configured responses.
type MockServer struct {
	*httptest.Server
	mu        sync.Mutex
	responses map[string]map[string]MockResponse // method -> path -> response
	handlers  []prefixHandler
	Requests  []RecordedRequest
}

// NewMockServer creates a new mock HTTP server.
func NewMockServer() *MockServer {
	m := &MockServer{
		responses: make(map[string]map[string]MockResponse),
		Requests:  make([]RecordedRequest, 0),
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.handleRequest(w, r)
	}))

	return m
}

// ExpectRequest configures a response for a specific method and path.
func (m *MockServer) ExpectRequest(method, path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.responses[method] == nil {
		m.responses[method] = make(map[string]MockResponse)
	}
	m.responses[method][path] = resp
}

// ExpectGET is a convenience method for GET requests.
func (m *MockServer) ExpectGET(path string, resp MockResponse) {
	m.ExpectRequest(http.MethodGet, path, resp)
}

// ExpectPUT is a convenience method for PUT requests.
func (m *MockServer) ExpectPUT(path string, resp MockResponse) {
	m.ExpectRequest(http.MethodPut, path, resp)
}

// HandlePrefix routes every request whose path starts with prefix to fn,
// when no exact response is configured.
func (m *MockServer) HandlePrefix(method, prefix string, fn HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, prefixHandler{method: method, prefix: prefix, fn: fn})
}

// handleRequest processes an incoming request.
func (m *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Read body for recording
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}

	rec := RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
		Body:    body,
	}
	m.Requests = append(m.Requests, rec)

	// Find matching response
	if methodResponses, ok := m.responses[r.Method]; ok {
		if resp, ok := methodResponses[r.URL.Path]; ok {
			writeResponse(w, resp)
			return
		}
	}
	for _, h := range m.handlers {
		if h.method == r.Method && strings.HasPrefix(r.URL.Path, h.prefix) {
			writeResponse(w, h.fn(rec))
			return
		}
	}

	// Default 404 response
	writeResponse(w, MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`,
	})
}

// writeResponse writes the configured response.
func writeResponse(w http.ResponseWriter, resp MockResponse) {
	// Set headers
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	// Set default content type if not specified
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	// Set status code
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	w.WriteHeader(resp.StatusCode)

	// Write body
	if resp.Body != nil {
		switch body := resp.Body.(type) {
		case string:
			_, _ = w.Write([]byte(body))
		case []byte:
			_, _ = w.Write(body)
		default:
			// JSON encode
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

// RequestCount returns the number of requests received.
func (m *MockServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockServer) LastRequest() *RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}

// RequestsFor returns all requests with the given method.
func (m *MockServer) RequestsFor(method string) []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []RecordedRequest
	for _, req := range m.Requests {
		if req.Method == method {
			result = append(result, req)
		}
	}
	return result
}

// Reset clears all recorded requests and configured responses.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = make([]RecordedRequest, 0)
	m.responses = make(map[string]map[string]MockResponse)
	m.handlers = nil
}
