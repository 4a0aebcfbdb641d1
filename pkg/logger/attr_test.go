package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("brevo", slog.String("flow", "welcome"), slog.Int("attempt", 2))
	require.Equal(t, "brevo", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "flow", g[0].Key)
	assert.Equal(t, "attempt", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{name: "flow", attr: logger.Flow("welcome"), key: "flow", want: "welcome"},
		{name: "template id", attr: logger.TemplateID(42), key: "template_id", want: int64(42)},
		{name: "recipient", attr: logger.Recipient("a@b.co"), key: "recipient", want: "a@b.co"},
		{name: "attempt", attr: logger.Attempt(3), key: "attempt", want: int64(3)},
		{name: "status", attr: logger.Status(503), key: "status", want: int64(503)},
		{name: "dispatch id", attr: logger.DispatchID("d-1"), key: "dispatch_id", want: "d-1"},
		{name: "request id", attr: logger.RequestID("r-1"), key: "request_id", want: "r-1"},
		{name: "component", attr: logger.Component("brevo"), key: "component", want: "brevo"},
		{name: "event", attr: logger.Event("sent"), key: "event", want: "sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestEmptyDomainAttrs(t *testing.T) {
	assert.True(t, logger.TemplateID(0).Equal(slog.Attr{}))
	assert.True(t, logger.Status(0).Equal(slog.Attr{}))
	assert.True(t, logger.DispatchID("").Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestMessageIDs(t *testing.T) {
	attr := logger.MessageIDs([]string{"<m1@smtp>", "<m2@smtp>"})
	require.Equal(t, "message_ids", attr.Key)
	assert.Equal(t, []string{"<m1@smtp>", "<m2@smtp>"}, attr.Value.Any())
}
