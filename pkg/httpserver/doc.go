// Package httpserver runs an http.Handler with graceful shutdown, lifecycle
// hooks and health probes.
//
// Run binds the listener before anything else, so a bad address fails fast
// with ErrStart, and then blocks until the context is cancelled, SIGINT or
// SIGTERM arrives, or the server fails. Shutdown stops accepting requests and
// runs stop hooks within a single shutdown timeout; stop hooks are where
// background work started by handlers is drained.
//
// Usage:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context, _ *slog.Logger) error {
//			return hooksHandler.Wait(ctx)
//		}),
//	)
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthCheckHandler(log, httpserver.Check{
//		Name: "brevo_config",
//		Fn:   func(context.Context) error { _, err := resolver.Config(); return err },
//	}))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Configuration is read from MAILER_HTTP_ADDR, MAILER_HTTP_READ_TIMEOUT,
// MAILER_HTTP_WRITE_TIMEOUT, MAILER_HTTP_IDLE_TIMEOUT and
// MAILER_HTTP_SHUTDOWN_TIMEOUT through Config.
package httpserver
