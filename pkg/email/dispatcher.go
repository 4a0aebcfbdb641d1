package email

import (
	"context"
	"log/slog"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// Dispatcher resolves the template for a flow and hands the message to a
// Transport. It adds no business logic of its own.
type Dispatcher struct {
	transport Transport
	templates TemplateResolver
	metrics   *Metrics
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMetrics records the outcome of every dispatch.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithDispatcherLogger sets the logger used for dispatch diagnostics.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates the dispatch entry point.
func NewDispatcher(transport Transport, templates TemplateResolver, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		templates: templates,
		logger:    discardLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendEmail implements Mailer. A template resolution failure is returned
// without invoking the transport.
func (d *Dispatcher) SendEmail(ctx context.Context, req Request) (Result, error) {
	res, err := d.send(ctx, req)
	if d.metrics != nil {
		d.metrics.ObserveSend(req.Flow, err)
	}
	return res, err
}

func (d *Dispatcher) send(ctx context.Context, req Request) (Result, error) {
	templateID, err := d.templates.TemplateID(req.Flow)
	if err != nil {
		return Result{}, withFlow(err, req.Flow)
	}

	res, err := d.transport.SendTemplate(ctx, TemplateMessage{
		Flow:       req.Flow,
		To:         req.To,
		TemplateID: templateID,
		Params:     req.Params,
		Tags:       req.Tags,
		Sandbox:    req.Sandbox,
	})
	if err != nil {
		return Result{}, withFlow(err, req.Flow)
	}

	d.logger.DebugContext(ctx, "email sent",
		logger.Flow(string(req.Flow)),
		logger.TemplateID(templateID),
		logger.MessageIDs(res.MessageIDs),
	)
	return res, nil
}

var _ Mailer = (*Dispatcher)(nil)
