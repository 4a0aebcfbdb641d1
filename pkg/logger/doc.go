// Package logger builds *slog.Logger instances for the mailer.
//
// New takes functional options; NewFromConfig starts from an environment
// profile (development logs text at DEBUG, staging and production log JSON at
// INFO) and applies LOG_LEVEL and LOG_FORMAT on top.
//
// Every logger wraps its handler in LogHandlerDecorator, which:
//
//   - runs ContextExtractor callbacks on each record, so ids stored in the
//     context (request id, dispatch id) appear without being passed around;
//   - replaces values of redacted keys (api-key, authorization, ...) with
//     "[REDACTED]", including inside groups.
//
// Attribute helpers in attr.go (Error, Flow, TemplateID, Status, ...) keep key
// names consistent. Helpers for optional values return an empty Attr, which
// slog drops, so callers need no nil checks:
//
//	log.WarnContext(ctx, "brevo_email_failed",
//		logger.Flow("welcome"),
//		logger.Error(err),
//	)
//
// Usage:
//
//	log := logger.NewFromConfig(cfg.Log,
//		logger.WithContextExtractors(hooks.DispatchIDExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
