package store

import (
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// HTTPClient abstracts HTTP operations for testing.
// This interface is satisfied by *http.Client and can be mocked in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient returns a retrying HTTP client for production use.
// retryMax 0 sends each request once.
func DefaultHTTPClient(timeout time.Duration, retryMax int, logger *zap.Logger) HTTPClient {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = timeout
	client.Logger = retryLogger{logger.Sugar()}
	return client.StandardClient()
}

// retryLogger adapts zap to retryablehttp.LeveledLogger.
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }

// storeOptions holds optional dependencies for stores.
type storeOptions struct {
	httpClient HTTPClient
	getEnv     func(string) string
	logger     *zap.Logger
	column     int
}

// Option configures optional store dependencies.
type Option func(*storeOptions)

// WithHTTPClient sets a custom HTTP client for remote stores.
// Use this in tests to inject a mock HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *storeOptions) {
		o.httpClient = client
	}
}

// WithEnvGetter sets a custom environment variable getter.
// Use this in tests to avoid depending on actual environment variables.
func WithEnvGetter(fn func(string) string) Option {
	return func(o *storeOptions) {
		o.getEnv = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInterceptColumn overrides the 1-based Intercept column position.
func WithInterceptColumn(col int) Option {
	return func(o *storeOptions) {
		if col > 0 {
			o.column = col
		}
	}
}

// defaultOptions returns store options with production defaults.
func defaultOptions() *storeOptions {
	return &storeOptions{
		getEnv: os.Getenv,
		logger: zap.NewNop(),
		column: InterceptColumn,
	}
}

// applyOptions applies option functions to the options struct.
func applyOptions(opts []Option) *storeOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
