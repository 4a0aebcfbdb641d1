package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abdssamie/convex-shipfast/pkg/email"
	"github.com/Abdssamie/convex-shipfast/pkg/httpserver"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// Transport names accepted in MAILER_TRANSPORT.
const (
	TransportBrevo = "brevo"
	TransportFile  = "file"
)

// AppConfig is the process configuration of the mailer daemon. Brevo account
// settings and template ids are not part of it: they are resolved per send.
type AppConfig struct {
	Log logger.Config

	Transport      string        `env:"MAILER_TRANSPORT" envDefault:"brevo"`
	DevDir         string        `env:"MAILER_DEV_DIR" envDefault:"./tmp/emails"`
	Endpoint       string        `env:"BREVO_ENDPOINT" envDefault:"https://api.brevo.com/v3/smtp/email"`
	MaxRetries     int           `env:"BREVO_MAX_RETRIES" envDefault:"3"`
	AttemptTimeout time.Duration `env:"BREVO_ATTEMPT_TIMEOUT" envDefault:"10s"`
	Sandbox        bool          `env:"BREVO_SANDBOX" envDefault:"false"`

	AppName          string        `env:"APP_NAME" envDefault:"FastShip"`
	SiteURL          string        `env:"SITE_URL" envDefault:"http://localhost:3000"`
	HookSecret       string        `env:"HOOK_SECRET"`
	DispatchTimeout  time.Duration `env:"HOOK_DISPATCH_TIMEOUT" envDefault:"1m"`
	MaxInFlight      int           `env:"HOOK_MAX_IN_FLIGHT" envDefault:"256"`
	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"mailer"`

	HTTP httpserver.Config
}

var (
	ErrUnknownTransport  = errors.New("mailer: unknown transport")
	ErrHookSecretMissing = errors.New("mailer: HOOK_SECRET is required in production")
)

// validate rejects configurations the daemon cannot run with.
func (c AppConfig) validate() error {
	switch c.Transport {
	case TransportBrevo, TransportFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, c.Transport)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("mailer: BREVO_MAX_RETRIES must be >= 0, got %d", c.MaxRetries)
	}
	if c.Log.Production() && c.HookSecret == "" {
		return ErrHookSecretMissing
	}
	return nil
}

// clientOptions maps the transport settings onto Brevo client options.
func (c AppConfig) clientOptions() []email.ClientOption {
	return []email.ClientOption{
		email.WithEndpoint(c.Endpoint),
		email.WithMaxRetries(c.MaxRetries),
		email.WithAttemptTimeout(c.AttemptTimeout),
	}
}
