package email

import (
	"errors"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/Abdssamie/convex-shipfast/pkg/config"
)

// Settings read by the resolver.
const (
	SettingAPIKey       = "BREVO_API_KEY"
	SettingSenderName   = "BREVO_SENDER_NAME"
	SettingSenderEmail  = "BREVO_SENDER_EMAIL"
	SettingReplyToName  = "BREVO_REPLY_TO_NAME"
	SettingReplyToEmail = "BREVO_REPLY_TO_EMAIL"
)

// Sender is the identity messages are sent from.
type Sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReplyTo is the optional reply address.
type ReplyTo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Config holds the Brevo account settings used for one send.
// ReplyTo is nil when no reply-to email is configured.
type Config struct {
	APIKey  string
	Sender  Sender
	ReplyTo *ReplyTo
}

// ConfigFunc returns the configuration for a single send.
// It is called on every send so configuration changes apply immediately.
type ConfigFunc func() (Config, error)

// TemplateResolver maps a flow to its provider template id.
type TemplateResolver interface {
	TemplateID(flow Flow) (int64, error)
}

// brevoSettings mirrors the settings table. Field order is lookup order: the
// first missing required field is the one reported.
type brevoSettings struct {
	APIKey       string `env:"BREVO_API_KEY,required,notEmpty"`
	SenderName   string `env:"BREVO_SENDER_NAME,required,notEmpty"`
	SenderEmail  string `env:"BREVO_SENDER_EMAIL,required,notEmpty"`
	ReplyToName  string `env:"BREVO_REPLY_TO_NAME"`
	ReplyToEmail string `env:"BREVO_REPLY_TO_EMAIL"`
}

// Resolver reads Brevo settings from a config.Source at the point of use.
// Nothing is cached: every call re-reads and re-validates the source, so a
// misconfigured template only fails the flows that use it.
type Resolver struct {
	src config.Source
}

// NewResolver creates a resolver over src.
// A nil source falls back to the process environment.
func NewResolver(src config.Source) *Resolver {
	if src == nil {
		src = config.OSEnv()
	}
	return &Resolver{src: src}
}

// Setting returns a required setting, failing with CodeMissingEnv when it is
// absent or empty.
func (r *Resolver) Setting(field string) (string, error) {
	v, ok := r.src.Lookup(field)
	if !ok || v == "" {
		return "", missingEnv(field)
	}
	return v, nil
}

// Config resolves the account settings. Reply-to is omitted entirely when
// its email is absent, even if a reply-to name is set.
func (r *Resolver) Config() (Config, error) {
	var s brevoSettings
	if err := config.Parse(r.src, &s); err != nil {
		field, _ := firstMissingSetting(err)
		se := missingEnv(field)
		se.Err = err
		return Config{}, se
	}

	cfg := Config{
		APIKey: s.APIKey,
		Sender: Sender{Name: s.SenderName, Email: s.SenderEmail},
	}
	if s.ReplyToEmail != "" {
		cfg.ReplyTo = &ReplyTo{Name: s.ReplyToName, Email: s.ReplyToEmail}
	}
	return cfg, nil
}

// TemplateID resolves and validates the template id configured for flow.
// The value must be a positive decimal integer; surrounding spaces and a
// leading "+" are accepted, "12.0" is not. Anything else fails with
// CodeInvalidTemplateID echoing the literal value.
func (r *Resolver) TemplateID(flow Flow) (int64, error) {
	field, ok := TemplateSetting(flow)
	if !ok {
		return 0, invalidTemplateID("", string(flow))
	}

	value, err := r.Setting(field)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err == nil && id <= 0 {
		err = errTemplateIDNotPositive
	}
	if err != nil {
		se := invalidTemplateID(field, value)
		se.Err = err
		return 0, se
	}
	return id, nil
}

// StaticConfig returns a ConfigFunc serving cfg, validated on every call with
// the same rules and error codes as Resolver.Config.
func StaticConfig(cfg Config) ConfigFunc {
	return func() (Config, error) {
		switch {
		case cfg.APIKey == "":
			return Config{}, missingEnv(SettingAPIKey)
		case cfg.Sender.Name == "":
			return Config{}, missingEnv(SettingSenderName)
		case cfg.Sender.Email == "":
			return Config{}, missingEnv(SettingSenderEmail)
		}
		out := cfg
		if cfg.ReplyTo != nil {
			if cfg.ReplyTo.Email == "" {
				out.ReplyTo = nil
			} else {
				rt := *cfg.ReplyTo
				out.ReplyTo = &rt
			}
		}
		return out, nil
	}
}

// firstMissingSetting returns the key of the first required setting reported
// by the env parser.
func firstMissingSetting(err error) (string, bool) {
	errs := []error{err}
	var agg env.AggregateError
	if errors.As(err, &agg) {
		errs = agg.Errors
	}
	for _, e := range errs {
		var notSet env.EnvVarIsNotSetError
		if errors.As(e, &notSet) {
			return notSet.Key, true
		}
		var empty env.EmptyEnvVarError
		if errors.As(e, &empty) {
			return empty.Key, true
		}
	}
	return "", false
}
