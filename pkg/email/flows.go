package email

import (
	"context"
	"log/slog"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// DefaultAppName is the product name passed to the welcome template.
const DefaultAppName = "FastShip"

// Tags attached to every message, by flow.
const (
	TagBetterAuth        = "better-auth"
	TagEmailVerification = "email-verification"
	TagPasswordReset     = "password-reset"
	TagMagicLink         = "magic-link"
	TagInvitation        = "invitation"
	TagWelcome           = "welcome"
)

// EventEmailFailed is the log message emitted when a flow email fails.
const EventEmailFailed = "brevo_email_failed"

// VerificationEmail carries the data for an email verification message.
type VerificationEmail struct {
	Email string
	Name  string
	URL   string
}

// PasswordResetEmail carries the data for a password reset message.
type PasswordResetEmail struct {
	Email string
	Name  string
	URL   string
}

// MagicLinkEmail carries the data for a magic link sign-in message.
type MagicLinkEmail struct {
	Email string
	URL   string
}

// InvitationEmail carries the data for an organization invitation.
type InvitationEmail struct {
	Email            string
	InviteLink       string
	InvitedByEmail   string
	InvitedByName    string
	OrganizationName string
}

// WelcomeEmail carries the data for the post sign-up welcome message.
type WelcomeEmail struct {
	Email string
	Name  string
}

// Notifier maps product events to dispatch requests.
//
// Email is a best-effort side channel: every method logs a failure and
// returns normally so the triggering operation is never blocked by the
// provider.
type Notifier struct {
	mailer  Mailer
	logger  *slog.Logger
	appName string
	sandbox bool
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithNotifierLogger sets the logger failures are reported to.
func WithNotifierLogger(l *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithAppName overrides the product name sent with the welcome flow.
func WithAppName(name string) NotifierOption {
	return func(n *Notifier) {
		if name != "" {
			n.appName = name
		}
	}
}

// WithSandbox marks every request as sandboxed so Brevo accepts it without
// delivering. Intended for integration environments.
func WithSandbox(enabled bool) NotifierOption {
	return func(n *Notifier) {
		n.sandbox = enabled
	}
}

// NewNotifier creates the flow adapters over m.
func NewNotifier(m Mailer, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		mailer:  m,
		logger:  discardLogger,
		appName: DefaultAppName,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SendVerificationEmail sends the email_verification template with url, email
// and name, tagged better-auth and email-verification.
func (n *Notifier) SendVerificationEmail(ctx context.Context, p VerificationEmail) {
	n.send(ctx, Request{
		Flow: FlowEmailVerification,
		To:   Recipient{Email: p.Email, Name: p.Name},
		Params: map[string]string{
			"url":   p.URL,
			"email": p.Email,
			"name":  p.Name,
		},
		Tags: []string{TagBetterAuth, TagEmailVerification},
	})
}

// SendPasswordResetEmail sends the password_reset template with url, email
// and name, tagged better-auth and password-reset.
func (n *Notifier) SendPasswordResetEmail(ctx context.Context, p PasswordResetEmail) {
	n.send(ctx, Request{
		Flow: FlowPasswordReset,
		To:   Recipient{Email: p.Email, Name: p.Name},
		Params: map[string]string{
			"url":   p.URL,
			"email": p.Email,
			"name":  p.Name,
		},
		Tags: []string{TagBetterAuth, TagPasswordReset},
	})
}

// SendMagicLinkEmail sends the magic_link template, tagged better-auth and magic-link.
func (n *Notifier) SendMagicLinkEmail(ctx context.Context, p MagicLinkEmail) {
	n.send(ctx, Request{
		Flow: FlowMagicLink,
		To:   Recipient{Email: p.Email},
		Params: map[string]string{
			"url":   p.URL,
			"email": p.Email,
		},
		Tags: []string{TagBetterAuth, TagMagicLink},
	})
}

// SendInvitationEmail sends the invitation template with the invite link and
// inviter details, tagged better-auth and invitation.
func (n *Notifier) SendInvitationEmail(ctx context.Context, p InvitationEmail) {
	n.send(ctx, Request{
		Flow: FlowInvitation,
		To:   Recipient{Email: p.Email},
		Params: map[string]string{
			"inviteLink":       p.InviteLink,
			"email":            p.Email,
			"invitedByEmail":   p.InvitedByEmail,
			"invitedByName":    p.InvitedByName,
			"organizationName": p.OrganizationName,
		},
		Tags: []string{TagBetterAuth, TagInvitation},
	})
}

// SendWelcomeEmail sends the welcome template with appName and userName,
// tagged better-auth and welcome.
func (n *Notifier) SendWelcomeEmail(ctx context.Context, p WelcomeEmail) {
	n.send(ctx, Request{
		Flow: FlowWelcome,
		To:   Recipient{Email: p.Email, Name: p.Name},
		Params: map[string]string{
			"appName":  n.appName,
			"userName": p.Name,
		},
		Tags: []string{TagBetterAuth, TagWelcome},
	})
}

func (n *Notifier) send(ctx context.Context, req Request) {
	req.Sandbox = n.sandbox
	if _, err := n.mailer.SendEmail(ctx, req); err != nil {
		n.logger.WarnContext(ctx, EventEmailFailed,
			logger.Flow(string(req.Flow)),
			logger.Error(err),
		)
	}
}
