package email

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Sentinel errors matched by SendError through errors.Is.
var (
	ErrMissingEnv        = errors.New("email.errors.missing_env")
	ErrInvalidTemplateID = errors.New("email.errors.invalid_template_id")
	ErrRequestFailed     = errors.New("email.errors.brevo_request_failed")
	ErrInvalidConfig     = errors.New("email.errors.invalid_config")

	errTemplateIDNotPositive = errors.New("template id must be positive")
)

// Code classifies a SendError.
type Code string

const (
	// CodeMissingEnv means a required setting is absent or empty.
	CodeMissingEnv Code = "missing_env"
	// CodeInvalidTemplateID means a template setting is present but not a positive integer.
	CodeInvalidTemplateID Code = "invalid_template_id"
	// CodeRequestFailed means Brevo rejected the request or stayed unreachable.
	CodeRequestFailed Code = "brevo_request_failed"
)

// Reason reported when no HTTP response was received.
const ReasonNetworkError = "network_error"

// SendError is the complete failure taxonomy of a dispatch.
// Field and Value are set for configuration codes; Status, Reason and
// TemplateID for CodeRequestFailed. Status is zero when no response arrived.
type SendError struct {
	Code       Code
	Flow       Flow
	Field      string
	Value      string
	Status     int
	Reason     string
	TemplateID int64
	Err        error
}

func (e *SendError) Error() string {
	var b strings.Builder
	b.WriteString("email: ")
	b.WriteString(string(e.Code))
	if e.Flow != "" {
		fmt.Fprintf(&b, " flow=%s", e.Flow)
	}
	switch e.Code {
	case CodeMissingEnv:
		fmt.Fprintf(&b, " field=%s", e.Field)
	case CodeInvalidTemplateID:
		fmt.Fprintf(&b, " field=%s value=%q", e.Field, e.Value)
	default:
		if e.Status != 0 {
			fmt.Fprintf(&b, " status=%d", e.Status)
		}
		if e.TemplateID != 0 {
			fmt.Fprintf(&b, " template_id=%d", e.TemplateID)
		}
		if e.Reason != "" {
			fmt.Fprintf(&b, " reason=%q", e.Reason)
		}
	}
	return b.String()
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's code.
func (e *SendError) Is(target error) bool {
	switch target {
	case ErrMissingEnv:
		return e.Code == CodeMissingEnv
	case ErrInvalidTemplateID:
		return e.Code == CodeInvalidTemplateID
	case ErrRequestFailed:
		return e.Code == CodeRequestFailed
	}
	return false
}

// LogValue renders the error as a structured group.
func (e *SendError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("flow", string(e.Flow)),
	}
	if e.Field != "" {
		attrs = append(attrs, slog.String("field", e.Field))
	}
	if e.Code == CodeInvalidTemplateID {
		attrs = append(attrs, slog.String("value", e.Value))
	}
	if e.Status != 0 {
		attrs = append(attrs, slog.Int("status", e.Status))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	if e.TemplateID != 0 {
		attrs = append(attrs, slog.Int64("template_id", e.TemplateID))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

func missingEnv(field string) *SendError {
	return &SendError{Code: CodeMissingEnv, Field: field}
}

func invalidTemplateID(field, value string) *SendError {
	return &SendError{Code: CodeInvalidTemplateID, Field: field, Value: value}
}

// withFlow tags a SendError with the originating flow. Errors of any other
// type are wrapped as a request failure so callers always get a *SendError.
func withFlow(err error, flow Flow) error {
	var se *SendError
	if errors.As(err, &se) {
		tagged := *se
		tagged.Flow = flow
		return &tagged
	}
	return &SendError{Code: CodeRequestFailed, Flow: flow, Reason: err.Error(), Err: err}
}

// AsSendError extracts the *SendError carried by err.
func AsSendError(err error) (*SendError, bool) {
	var se *SendError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
