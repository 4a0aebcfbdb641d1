package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileTransport implements Transport for local development.
// Instead of calling Brevo it writes the request payload as JSON to a
// directory and reports a synthetic message id.
type FileTransport struct {
	dir    string
	config ConfigFunc
	now    func() time.Time
}

// NewFileTransport creates a development transport writing to dir.
// The directory is created on first send. cfg is validated like the Brevo
// client so configuration errors surface during development too.
func NewFileTransport(dir string, cfg ConfigFunc) *FileTransport {
	return &FileTransport{dir: dir, config: cfg, now: time.Now}
}

// fileRecord is the JSON document saved for each message.
type fileRecord struct {
	Timestamp string       `json:"timestamp"`
	Flow      Flow         `json:"flow"`
	MessageID string       `json:"message_id"`
	Sandbox   bool         `json:"sandbox,omitempty"`
	Payload   brevoPayload `json:"payload"`
}

// SendTemplate saves the message to disk.
func (f *FileTransport) SendTemplate(ctx context.Context, msg TemplateMessage) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, f.failed(msg, err)
	}

	cfg, err := f.config()
	if err != nil {
		return Result{}, withFlow(err, msg.Flow)
	}
	// The API key never leaves the process, not even to disk.
	cfg.APIKey = ""

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return Result{}, f.failed(msg, fmt.Errorf("failed to create directory: %w", err))
	}

	now := f.now()
	id := uuid.New().String()
	record := fileRecord{
		Timestamp: now.Format(time.RFC3339),
		Flow:      msg.Flow,
		MessageID: "<" + id + "@dev.local>",
		Sandbox:   msg.Sandbox,
		Payload:   newBrevoPayload(cfg, msg),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Result{}, f.failed(msg, fmt.Errorf("failed to marshal message: %w", err))
	}

	name := fmt.Sprintf("%s_%s_%s.json", now.Format("2006_01_02_150405"), msg.Flow, id[:8])
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
		return Result{}, f.failed(msg, fmt.Errorf("failed to write message file: %w", err))
	}

	return Result{MessageIDs: []string{record.MessageID}}, nil
}

func (f *FileTransport) failed(msg TemplateMessage, cause error) *SendError {
	return &SendError{
		Code:       CodeRequestFailed,
		Flow:       msg.Flow,
		Reason:     cause.Error(),
		TemplateID: msg.TemplateID,
		Err:        cause,
	}
}

var _ Transport = (*FileTransport)(nil)
