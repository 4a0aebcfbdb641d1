package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// SandboxHeader asks Brevo to accept and process a request without delivering it.
const SandboxHeader = "X-Sib-Sandbox"

// maxResponseBody caps how much of a response is read.
const maxResponseBody = 64 * 1024

type brevoPayload struct {
	Sender          Sender                `json:"sender"`
	ReplyTo         *ReplyTo              `json:"replyTo,omitempty"`
	TemplateID      int64                 `json:"templateId"`
	Params          map[string]string     `json:"params,omitempty"`
	Tags            []string              `json:"tags,omitempty"`
	MessageVersions []brevoMessageVersion `json:"messageVersions"`
}

type brevoMessageVersion struct {
	To     []Recipient       `json:"to"`
	Params map[string]string `json:"params,omitempty"`
}

// newBrevoPayload builds the wire payload. Only one recipient is ever sent
// per call, in a single message version.
func newBrevoPayload(cfg Config, msg TemplateMessage) brevoPayload {
	return brevoPayload{
		Sender:     cfg.Sender,
		ReplyTo:    cfg.ReplyTo,
		TemplateID: msg.TemplateID,
		Params:     msg.Params,
		Tags:       msg.Tags,
		MessageVersions: []brevoMessageVersion{
			{To: []Recipient{msg.To}, Params: msg.Params},
		},
	}
}

// BrevoClient sends template emails through the Brevo transactional API
// with bounded exponential-backoff retry.
type BrevoClient struct {
	client *http.Client
	config ConfigFunc
	opts   *clientOptions
}

// NewBrevoClient creates a Brevo-backed transport. cfg is called on every
// send; pass Resolver.Config for late binding or StaticConfig for a fixed value.
func NewBrevoClient(cfg ConfigFunc, opts ...ClientOption) (*BrevoClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config func is required", ErrInvalidConfig)
	}

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := options.httpClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &BrevoClient{client: client, config: cfg, opts: options}, nil
}

// MustNewBrevoClient is like NewBrevoClient but panics on invalid arguments.
func MustNewBrevoClient(cfg ConfigFunc, opts ...ClientOption) *BrevoClient {
	c, err := NewBrevoClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// SendTemplate implements Transport.
//
// Configuration is resolved first; a configuration error returns before any
// network call. Network failures and 5xx responses are retried; any response
// in [200,500) ends the loop. Every failure is returned as a *SendError.
func (c *BrevoClient) SendTemplate(ctx context.Context, msg TemplateMessage) (Result, error) {
	cfg, err := c.config()
	if err != nil {
		return Result{}, withFlow(err, msg.Flow)
	}

	payload, err := json.Marshal(newBrevoPayload(cfg, msg))
	if err != nil {
		return Result{}, c.requestFailed(msg, 0, "invalid_payload", err)
	}

	out := c.deliver(ctx, cfg.APIKey, payload, msg)
	if out.err != nil {
		return Result{}, c.requestFailed(msg, 0, ReasonNetworkError, out.err)
	}

	body := decodeResponse(out.body)
	if out.status >= 200 && out.status < 300 {
		ids := body.MessageIDs
		if ids == nil {
			ids = []string{}
		}
		return Result{MessageIDs: ids}, nil
	}

	reason := out.statusText
	if body.Message != nil {
		reason = *body.Message
	}
	return Result{}, c.requestFailed(msg, out.status, reason, nil)
}

type attemptOutcome struct {
	status     int
	statusText string
	body       []byte
	err        error
}

// deliver runs the retry loop and returns the last outcome.
func (c *BrevoClient) deliver(ctx context.Context, apiKey string, payload []byte, msg TemplateMessage) attemptOutcome {
	var last attemptOutcome
	for attempt := 0; attempt <= c.opts.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.opts.backoff.NextInterval(attempt)
			c.opts.logger.DebugContext(ctx, "retrying brevo request",
				logger.Flow(string(msg.Flow)),
				logger.Attempt(attempt+1),
				logger.Status(last.status),
				logger.Duration(delay),
			)
			// Cancelled while waiting: surface the last failure.
			if err := sleep(ctx, delay); err != nil {
				return last
			}
		}

		start := time.Now()
		last = c.attempt(ctx, apiKey, payload, msg.Sandbox)

		for _, hook := range c.opts.onAttempt {
			hook(AttemptResult{
				Flow:       msg.Flow,
				Attempt:    attempt + 1,
				StatusCode: last.status,
				Duration:   time.Since(start),
				Err:        last.err,
			})
		}

		if last.err == nil && last.status < 500 {
			return last
		}
		if ctx.Err() != nil {
			return last
		}
	}
	return last
}

// attempt makes a single POST bounded by the per-attempt timeout.
func (c *BrevoClient) attempt(ctx context.Context, apiKey string, payload []byte, sandbox bool) attemptOutcome {
	reqCtx, cancel := context.WithTimeout(ctx, c.opts.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.opts.endpoint, bytes.NewReader(payload))
	if err != nil {
		return attemptOutcome{err: err}
	}
	req.Header.Set("api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if sandbox {
		req.Header.Set(SandboxHeader, "drop")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return attemptOutcome{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	return attemptOutcome{
		status:     resp.StatusCode,
		statusText: statusText(resp),
		body:       body,
	}
}

func (c *BrevoClient) requestFailed(msg TemplateMessage, status int, reason string, cause error) *SendError {
	return &SendError{
		Code:       CodeRequestFailed,
		Flow:       msg.Flow,
		Status:     status,
		Reason:     reason,
		TemplateID: msg.TemplateID,
		Err:        cause,
	}
}

type brevoResponse struct {
	MessageIDs []string `json:"messageIds"`
	Message    *string  `json:"message"`
}

// decodeResponse parses a response body, treating anything that is not a
// JSON object of the expected shape as empty.
func decodeResponse(body []byte) brevoResponse {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return brevoResponse{}
	}

	var out brevoResponse
	if v, ok := raw["messageIds"]; ok {
		if err := json.Unmarshal(v, &out.MessageIDs); err != nil {
			out.MessageIDs = nil
		}
	}
	if v, ok := raw["message"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out.Message = &s
		} else if string(v) != "null" {
			s = string(v)
			out.Message = &s
		}
	}
	return out
}

// statusText returns the reason phrase of resp, e.g. "Bad Request".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

var _ Transport = (*BrevoClient)(nil)
