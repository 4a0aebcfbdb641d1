package email

import (
	"log/slog"
	"net/http"
	"time"
)

// discardLogger is used when no logger is configured.
var discardLogger = slog.New(slog.DiscardHandler)

// AttemptResult describes one HTTP attempt made by the Brevo client.
type AttemptResult struct {
	Flow       Flow
	Attempt    int // 1-based
	StatusCode int // 0 when no response was received
	Duration   time.Duration
	Err        error
}

// AttemptHook is called after each delivery attempt.
type AttemptHook func(result AttemptResult)

// Default transport settings.
const (
	DefaultEndpoint       = "https://api.brevo.com/v3/smtp/email"
	DefaultMaxRetries     = 3
	DefaultAttemptTimeout = 10 * time.Second
)

type clientOptions struct {
	httpClient     *http.Client
	endpoint       string
	maxRetries     int
	backoff        BackoffStrategy
	attemptTimeout time.Duration
	onAttempt      []AttemptHook
	logger         *slog.Logger
}

func defaultClientOptions() *clientOptions {
	return &clientOptions{
		endpoint:       DefaultEndpoint,
		maxRetries:     DefaultMaxRetries,
		backoff:        DefaultBackoffStrategy(),
		attemptTimeout: DefaultAttemptTimeout,
		logger:         discardLogger,
	}
}

// ClientOption configures a BrevoClient.
type ClientOption func(*clientOptions)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithEndpoint overrides the Brevo send endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
// Set to 0 to disable retries.
func WithMaxRetries(n int) ClientOption {
	return func(o *clientOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithBackoff sets the delay strategy between retries.
func WithBackoff(strategy BackoffStrategy) ClientOption {
	return func(o *clientOptions) {
		if strategy != nil {
			o.backoff = strategy
		}
	}
}

// WithAttemptTimeout bounds each HTTP attempt.
func WithAttemptTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.attemptTimeout = d
		}
	}
}

// WithOnAttempt registers a callback invoked after every attempt.
func WithOnAttempt(hook AttemptHook) ClientOption {
	return func(o *clientOptions) {
		if hook != nil {
			o.onAttempt = append(o.onAttempt, hook)
		}
	}
}

// WithClientLogger sets the logger used for retry diagnostics.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
