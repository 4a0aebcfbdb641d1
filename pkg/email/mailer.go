package email

import "context"

// Recipient is a single message recipient.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Request is a provider-agnostic dispatch request built by the flow adapters.
// Params values are always strings; absent optional values are "".
type Request struct {
	Flow    Flow
	To      Recipient
	Params  map[string]string
	Tags    []string
	Sandbox bool // accept and process without delivering
}

// TemplateMessage is a Request with its template id resolved.
type TemplateMessage struct {
	Flow       Flow
	To         Recipient
	TemplateID int64
	Params     map[string]string
	Tags       []string
	Sandbox    bool
}

// Result is the outcome of a successful send.
type Result struct {
	MessageIDs []string `json:"messageIds"`
}

// Transport delivers a template message. Every failure is returned as a
// *SendError.
type Transport interface {
	SendTemplate(ctx context.Context, msg TemplateMessage) (Result, error)
}

// Mailer is the single entry point used by the rest of the system.
type Mailer interface {
	SendEmail(ctx context.Context, req Request) (Result, error)
}
