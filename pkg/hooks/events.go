package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Abdssamie/convex-shipfast/pkg/email"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
	"github.com/Abdssamie/convex-shipfast/pkg/validator"
)

// Event names, also used as log values.
const (
	EventUserCreated            = "user.created"
	EventVerificationRequested  = "verification.requested"
	EventPasswordResetRequested = "password_reset.requested"
	EventMagicLinkRequested     = "magic_link.requested"
	EventInvitationCreated      = "invitation.created"
)

// UserCreatedEvent is sent after a user signs up.
type UserCreatedEvent struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerificationRequestedEvent asks for an email verification link to be sent.
type VerificationRequestedEvent struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// PasswordResetRequestedEvent asks for a password reset link to be sent.
type PasswordResetRequestedEvent struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// MagicLinkRequestedEvent asks for a sign-in link to be sent.
type MagicLinkRequestedEvent struct {
	Email string `json:"email"`
	URL   string `json:"url"`
}

// InvitationCreatedEvent is sent after an organization invitation is stored.
type InvitationCreatedEvent struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	InviterEmail     string `json:"inviterEmail"`
	InviterName      string `json:"inviterName"`
	OrganizationName string `json:"organizationName"`
}

// linkSchemes are the schemes accepted for links placed in emails.
var linkSchemes = []string{"http", "https"}

func recipientRules(addr string) []validator.Rule {
	return []validator.Rule{
		validator.Required("email", addr),
		validator.ValidEmail("email", addr),
	}
}

func linkRules(link string) []validator.Rule {
	return []validator.Rule{
		validator.Required("url", link),
		validator.ValidURL("url", link, linkSchemes...),
	}
}

func (e UserCreatedEvent) validate() error {
	return validator.Apply(recipientRules(e.Email)...)
}

func (e VerificationRequestedEvent) validate() error {
	return validator.Apply(append(recipientRules(e.Email), linkRules(e.URL)...)...)
}

func (e PasswordResetRequestedEvent) validate() error {
	return validator.Apply(append(recipientRules(e.Email), linkRules(e.URL)...)...)
}

func (e MagicLinkRequestedEvent) validate() error {
	return validator.Apply(append(recipientRules(e.Email), linkRules(e.URL)...)...)
}

// validate requires the invitation id and recipient; the inviter email is
// optional but must be well formed when given.
func (e InvitationCreatedEvent) validate() error {
	rules := append([]validator.Rule{validator.Required("id", e.ID)}, recipientRules(e.Email)...)
	rules = append(rules, validator.When(e.InviterEmail != "", validator.ValidEmail("inviterEmail", e.InviterEmail))...)
	return validator.Apply(rules...)
}

// decode reads a JSON event and validates it, writing the error response
// itself when it returns false.
func decode[T interface{ validate() error }](h *Handler, w http.ResponseWriter, r *http.Request, event string) (T, bool) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		h.logger.WarnContext(r.Context(), "hook rejected", logger.Event(event), logger.Error(err))
		writeError(w, http.StatusBadRequest, codeInvalidBody, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return v, false
	}
	if err := v.validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrValidation, err)
		h.logger.WarnContext(r.Context(), "hook rejected", logger.Event(event), logger.Error(err))
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err, validator.Extract(err).Fields()...)
		return v, false
	}
	return v, true
}

// UserCreated handles POST /hooks/user-created and sends the welcome email.
func (h *Handler) UserCreated(w http.ResponseWriter, r *http.Request) {
	ev, ok := decode[UserCreatedEvent](h, w, r, EventUserCreated)
	if !ok {
		return
	}
	h.dispatch(w, r, EventUserCreated, func(ctx context.Context) {
		h.notifier.SendWelcomeEmail(ctx, email.WelcomeEmail{Email: ev.Email, Name: ev.Name})
	})
}

// VerificationRequested handles POST /hooks/verification-requested.
func (h *Handler) VerificationRequested(w http.ResponseWriter, r *http.Request) {
	ev, ok := decode[VerificationRequestedEvent](h, w, r, EventVerificationRequested)
	if !ok {
		return
	}
	h.dispatch(w, r, EventVerificationRequested, func(ctx context.Context) {
		h.notifier.SendVerificationEmail(ctx, email.VerificationEmail{Email: ev.Email, Name: ev.Name, URL: ev.URL})
	})
}

// PasswordResetRequested handles POST /hooks/password-reset-requested.
func (h *Handler) PasswordResetRequested(w http.ResponseWriter, r *http.Request) {
	ev, ok := decode[PasswordResetRequestedEvent](h, w, r, EventPasswordResetRequested)
	if !ok {
		return
	}
	h.dispatch(w, r, EventPasswordResetRequested, func(ctx context.Context) {
		h.notifier.SendPasswordResetEmail(ctx, email.PasswordResetEmail{Email: ev.Email, Name: ev.Name, URL: ev.URL})
	})
}

// MagicLinkRequested handles POST /hooks/magic-link-requested.
func (h *Handler) MagicLinkRequested(w http.ResponseWriter, r *http.Request) {
	ev, ok := decode[MagicLinkRequestedEvent](h, w, r, EventMagicLinkRequested)
	if !ok {
		return
	}
	h.dispatch(w, r, EventMagicLinkRequested, func(ctx context.Context) {
		h.notifier.SendMagicLinkEmail(ctx, email.MagicLinkEmail{Email: ev.Email, URL: ev.URL})
	})
}

// InvitationCreated handles POST /hooks/invitation-created. The invite link
// is built from the site URL and the invitation id.
func (h *Handler) InvitationCreated(w http.ResponseWriter, r *http.Request) {
	ev, ok := decode[InvitationCreatedEvent](h, w, r, EventInvitationCreated)
	if !ok {
		return
	}
	link := InviteLink(h.siteURL, ev.ID)
	h.dispatch(w, r, EventInvitationCreated, func(ctx context.Context) {
		h.notifier.SendInvitationEmail(ctx, email.InvitationEmail{
			Email:            ev.Email,
			InviteLink:       link,
			InvitedByEmail:   ev.InviterEmail,
			InvitedByName:    ev.InviterName,
			OrganizationName: ev.OrganizationName,
		})
	})
}

// InviteLink returns <siteURL>/invite/<id>.
func InviteLink(siteURL, id string) string {
	return strings.TrimRight(siteURL, "/") + "/invite/" + url.PathEscape(id)
}
