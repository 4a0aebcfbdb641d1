package email_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abdssamie/convex-shipfast/pkg/config"
	"github.com/Abdssamie/convex-shipfast/pkg/email"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SendTemplate(ctx context.Context, msg email.TemplateMessage) (email.Result, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(email.Result), args.Error(1)
}

func TestDispatcher_SendEmail(t *testing.T) {
	t.Parallel()

	req := email.Request{
		Flow:    email.FlowPasswordReset,
		To:      email.Recipient{Email: "ada@example.com", Name: "Ada"},
		Params:  map[string]string{"url": "https://app/reset", "email": "ada@example.com", "name": "Ada"},
		Tags:    []string{email.TagBetterAuth, email.TagPasswordReset},
		Sandbox: true,
	}

	transport := new(MockTransport)
	transport.On("SendTemplate", mock.Anything, email.TemplateMessage{
		Flow:       req.Flow,
		To:         req.To,
		TemplateID: 2,
		Params:     req.Params,
		Tags:       req.Tags,
		Sandbox:    true,
	}).Return(email.Result{MessageIDs: []string{"<r@brevo>"}}, nil).Once()

	d := email.NewDispatcher(transport, email.NewResolver(config.Static(fullSettings())))
	res, err := d.SendEmail(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"<r@brevo>"}, res.MessageIDs)
	transport.AssertExpectations(t)
}

func TestDispatcher_SendEmail_TemplateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		settings  map[string]string
		wantCode  email.Code
		wantField string
	}{
		{
			name:      "missing template",
			settings:  without(fullSettings(), email.SettingTemplateWelcome),
			wantCode:  email.CodeMissingEnv,
			wantField: email.SettingTemplateWelcome,
		},
		{
			name:      "invalid template",
			settings:  with(fullSettings(), email.SettingTemplateWelcome, "welcome-v2"),
			wantCode:  email.CodeInvalidTemplateID,
			wantField: email.SettingTemplateWelcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := new(MockTransport)
			d := email.NewDispatcher(transport, email.NewResolver(config.Static(tt.settings)))

			_, err := d.SendEmail(context.Background(), email.Request{
				Flow: email.FlowWelcome,
				To:   email.Recipient{Email: "ada@example.com"},
			})
			se := requireSendError(t, err)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.wantField, se.Field)
			assert.Equal(t, email.FlowWelcome, se.Flow)
			transport.AssertNotCalled(t, "SendTemplate", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatcher_SendEmail_TransportError(t *testing.T) {
	t.Parallel()

	transport := new(MockTransport)
	transport.On("SendTemplate", mock.Anything, mock.Anything).
		Return(email.Result{}, &email.SendError{Code: email.CodeRequestFailed, Status: 400, Reason: "Invalid email"}).Once()

	d := email.NewDispatcher(transport, email.NewResolver(config.Static(fullSettings())))
	_, err := d.SendEmail(context.Background(), email.Request{Flow: email.FlowMagicLink})

	se := requireSendError(t, err)
	assert.Equal(t, email.CodeRequestFailed, se.Code)
	assert.Equal(t, email.FlowMagicLink, se.Flow)
	assert.Equal(t, 400, se.Status)
	assert.Equal(t, "Invalid email", se.Reason)
	transport.AssertExpectations(t)
}

func TestDispatcher_SendEmail_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := email.NewMetrics(reg, "test")
	require.NoError(t, err)

	transport := new(MockTransport)
	transport.On("SendTemplate", mock.Anything, mock.Anything).
		Return(email.Result{MessageIDs: []string{"<m@brevo>"}}, nil)

	settings := without(fullSettings(), email.SettingTemplateInvitation)
	d := email.NewDispatcher(transport, email.NewResolver(config.Static(settings)), email.WithMetrics(metrics))

	_, err = d.SendEmail(context.Background(), email.Request{Flow: email.FlowWelcome})
	require.NoError(t, err)
	_, err = d.SendEmail(context.Background(), email.Request{Flow: email.FlowWelcome})
	require.NoError(t, err)
	_, err = d.SendEmail(context.Background(), email.Request{Flow: email.FlowInvitation})
	require.Error(t, err)

	expected := `
# HELP test_email_sends_total Total number of email dispatches by result
# TYPE test_email_sends_total counter
test_email_sends_total{flow="invitation",result="missing_env"} 1
test_email_sends_total{flow="welcome",result="ok"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_email_sends_total"))
}
