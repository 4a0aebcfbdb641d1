package email_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abdssamie/convex-shipfast/pkg/config"
	"github.com/Abdssamie/convex-shipfast/pkg/email"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(ctx context.Context, req email.Request) (email.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(email.Result), args.Error(1)
}

func TestNotifier_Requests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(n *email.Notifier)
		want email.Request
	}{
		{
			name: "email verification",
			call: func(n *email.Notifier) {
				n.SendVerificationEmail(context.Background(), email.VerificationEmail{
					Email: "ada@example.com", Name: "Ada", URL: "https://app/verify?token=t",
				})
			},
			want: email.Request{
				Flow:   email.FlowEmailVerification,
				To:     email.Recipient{Email: "ada@example.com", Name: "Ada"},
				Params: map[string]string{"url": "https://app/verify?token=t", "email": "ada@example.com", "name": "Ada"},
				Tags:   []string{"better-auth", "email-verification"},
			},
		},
		{
			name: "password reset",
			call: func(n *email.Notifier) {
				n.SendPasswordResetEmail(context.Background(), email.PasswordResetEmail{
					Email: "ada@example.com", Name: "Ada", URL: "https://app/reset?token=t",
				})
			},
			want: email.Request{
				Flow:   email.FlowPasswordReset,
				To:     email.Recipient{Email: "ada@example.com", Name: "Ada"},
				Params: map[string]string{"url": "https://app/reset?token=t", "email": "ada@example.com", "name": "Ada"},
				Tags:   []string{"better-auth", "password-reset"},
			},
		},
		{
			name: "magic link",
			call: func(n *email.Notifier) {
				n.SendMagicLinkEmail(context.Background(), email.MagicLinkEmail{
					Email: "ada@example.com", URL: "https://app/magic?token=t",
				})
			},
			want: email.Request{
				Flow:   email.FlowMagicLink,
				To:     email.Recipient{Email: "ada@example.com"},
				Params: map[string]string{"url": "https://app/magic?token=t", "email": "ada@example.com"},
				Tags:   []string{"better-auth", "magic-link"},
			},
		},
		{
			name: "invitation",
			call: func(n *email.Notifier) {
				n.SendInvitationEmail(context.Background(), email.InvitationEmail{
					Email:            "grace@example.com",
					InviteLink:       "http://localhost:3000/invite/inv_1",
					InvitedByEmail:   "ada@example.com",
					InvitedByName:    "Ada",
					OrganizationName: "Analytical Engines",
				})
			},
			want: email.Request{
				Flow: email.FlowInvitation,
				To:   email.Recipient{Email: "grace@example.com"},
				Params: map[string]string{
					"inviteLink":       "http://localhost:3000/invite/inv_1",
					"email":            "grace@example.com",
					"invitedByEmail":   "ada@example.com",
					"invitedByName":    "Ada",
					"organizationName": "Analytical Engines",
				},
				Tags: []string{"better-auth", "invitation"},
			},
		},
		{
			name: "welcome",
			call: func(n *email.Notifier) {
				n.SendWelcomeEmail(context.Background(), email.WelcomeEmail{Email: "ada@example.com", Name: "Ada"})
			},
			want: email.Request{
				Flow:   email.FlowWelcome,
				To:     email.Recipient{Email: "ada@example.com", Name: "Ada"},
				Params: map[string]string{"appName": "FastShip", "userName": "Ada"},
				Tags:   []string{"better-auth", "welcome"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mailer := new(MockMailer)
			mailer.On("SendEmail", mock.Anything, tt.want).Return(email.Result{MessageIDs: []string{"<x@brevo>"}}, nil).Once()

			tt.call(email.NewNotifier(mailer))
			mailer.AssertExpectations(t)
		})
	}
}

func TestNotifier_AbsentNamesAreEmptyStrings(t *testing.T) {
	t.Parallel()

	var got []email.Request
	mailer := new(MockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = append(got, args.Get(1).(email.Request)) }).
		Return(email.Result{}, nil)

	n := email.NewNotifier(mailer)
	ctx := context.Background()
	n.SendVerificationEmail(ctx, email.VerificationEmail{Email: "ada@example.com", URL: "u"})
	n.SendPasswordResetEmail(ctx, email.PasswordResetEmail{Email: "ada@example.com", URL: "u"})
	n.SendWelcomeEmail(ctx, email.WelcomeEmail{Email: "ada@example.com"})
	n.SendInvitationEmail(ctx, email.InvitationEmail{Email: "g@example.com", InviteLink: "l", InvitedByEmail: "ada@example.com", OrganizationName: "Org"})

	require.Len(t, got, 4)
	for _, key := range []string{"name", "name", "userName", "invitedByName"} {
		req := got[0]
		got = got[1:]
		v, ok := req.Params[key]
		assert.True(t, ok, "%s: %s must be present", req.Flow, key)
		assert.Empty(t, v)
	}
}

func TestNotifier_Options(t *testing.T) {
	t.Parallel()

	mailer := new(MockMailer)
	mailer.On("SendEmail", mock.Anything, mock.MatchedBy(func(req email.Request) bool {
		return req.Sandbox && req.Params["appName"] == "Acme"
	})).Return(email.Result{}, nil).Once()

	n := email.NewNotifier(mailer, email.WithAppName("Acme"), email.WithSandbox(true))
	n.SendWelcomeEmail(context.Background(), email.WelcomeEmail{Email: "ada@example.com", Name: "Ada"})
	mailer.AssertExpectations(t)
}

func TestNotifier_FailureIsLoggedNotReturned(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	mailer := new(MockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything).Return(email.Result{}, &email.SendError{
		Code:       email.CodeRequestFailed,
		Flow:       email.FlowPasswordReset,
		Status:     400,
		Reason:     "Invalid email",
		TemplateID: 2,
	}).Once()

	n := email.NewNotifier(mailer, email.WithNotifierLogger(log))
	assert.NotPanics(t, func() {
		n.SendPasswordResetEmail(context.Background(), email.PasswordResetEmail{Email: "bad", URL: "u"})
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, email.EventEmailFailed, entry["msg"])
	assert.Equal(t, "password_reset", entry["flow"])

	errGroup, ok := entry["error"].(map[string]any)
	require.True(t, ok, "error should be logged as a structured group")
	assert.Equal(t, "brevo_request_failed", errGroup["code"])
	assert.Equal(t, float64(400), errGroup["status"])
	assert.Equal(t, "Invalid email", errGroup["reason"])
	mailer.AssertExpectations(t)
}

func TestNotifier_SuccessLogsNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mailer := new(MockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything).Return(email.Result{MessageIDs: []string{"<x@brevo>"}}, nil)

	n := email.NewNotifier(mailer, email.WithNotifierLogger(logger.New(logger.WithOutput(&buf))))
	n.SendMagicLinkEmail(context.Background(), email.MagicLinkEmail{Email: "ada@example.com", URL: "u"})
	assert.Empty(t, buf.String())
}

func TestNotifier_WelcomeEndToEnd(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBrevo(t, fakeResponse{status: http.StatusCreated, body: `{"messageIds":["<welcome@brevo>"]}`})

	resolver := email.NewResolver(config.Static(fullSettings()))
	client, err := email.NewBrevoClient(resolver.Config, email.WithEndpoint(srv.URL))
	require.NoError(t, err)

	n := email.NewNotifier(email.NewDispatcher(client, resolver))
	n.SendWelcomeEmail(context.Background(), email.WelcomeEmail{Email: "test@example.com", Name: "Test User"})

	calls := fake.calls()
	require.Len(t, calls, 1)
	payload := calls[0].Payload
	assert.Equal(t, float64(5), payload["templateId"])
	assert.Equal(t, map[string]any{"appName": "FastShip", "userName": "Test User"}, payload["params"])
	assert.Equal(t, []any{"better-auth", "welcome"}, payload["tags"])
	assert.Equal(t, "xkeysib-test", calls[0].Header.Get("api-key"))
}

func TestNotifier_MisconfiguredFlowDoesNotAffectOthers(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBrevo(t, fakeResponse{status: http.StatusCreated, body: `{"messageIds":["<ok@brevo>"]}`})

	resolver := email.NewResolver(config.Static(with(fullSettings(), email.SettingTemplateInvitation, "not_a_number")))
	client := email.MustNewBrevoClient(resolver.Config, email.WithEndpoint(srv.URL))

	var buf bytes.Buffer
	n := email.NewNotifier(email.NewDispatcher(client, resolver),
		email.WithNotifierLogger(logger.New(logger.WithOutput(&buf))))

	n.SendInvitationEmail(context.Background(), email.InvitationEmail{Email: "g@example.com"})
	n.SendWelcomeEmail(context.Background(), email.WelcomeEmail{Email: "ada@example.com", Name: "Ada"})

	assert.Len(t, fake.calls(), 1)
	assert.Contains(t, buf.String(), `"code":"invalid_template_id"`)
	assert.Contains(t, buf.String(), `"value":"not_a_number"`)
}
