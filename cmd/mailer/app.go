package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Abdssamie/convex-shipfast/pkg/config"
	"github.com/Abdssamie/convex-shipfast/pkg/email"
	"github.com/Abdssamie/convex-shipfast/pkg/hooks"
	"github.com/Abdssamie/convex-shipfast/pkg/httpserver"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// app is the wired daemon: an HTTP handler plus the hook handler that owns
// the background dispatches.
type app struct {
	handler  http.Handler
	hooks    *hooks.Handler
	resolver *email.Resolver
	registry *prometheus.Registry
}

// newApp wires the email stack over src and mounts it on a chi router.
func newApp(cfg AppConfig, src config.Source, log *slog.Logger) (*app, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := email.NewMetrics(reg, cfg.MetricsNamespace)
	if err != nil {
		return nil, err
	}

	resolver := email.NewResolver(src)
	transport, err := newTransport(cfg, resolver, metrics, log)
	if err != nil {
		return nil, err
	}

	dispatcher := email.NewDispatcher(transport, resolver,
		email.WithMetrics(metrics),
		email.WithDispatcherLogger(log.With(logger.Component("dispatcher"))),
	)
	notifier := email.NewNotifier(dispatcher,
		email.WithNotifierLogger(log.With(logger.Component("email"))),
		email.WithAppName(cfg.AppName),
		email.WithSandbox(cfg.Sandbox),
	)
	hookHandler := hooks.NewHandler(notifier,
		hooks.WithSecret(cfg.HookSecret),
		hooks.WithSiteURL(cfg.SiteURL),
		hooks.WithLogger(log.With(logger.Component("hooks"))),
		hooks.WithDispatchTimeout(cfg.DispatchTimeout),
		hooks.WithMaxInFlight(cfg.MaxInFlight),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, httpserver.Check{
		Name: "brevo_config",
		Fn: func(context.Context) error {
			_, err := resolver.Config()
			return err
		},
	}))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	hookHandler.Routes(r)

	return &app{
		handler:  r,
		hooks:    hookHandler,
		resolver: resolver,
		registry: reg,
	}, nil
}

func newTransport(cfg AppConfig, resolver *email.Resolver, metrics *email.Metrics, log *slog.Logger) (email.Transport, error) {
	if cfg.Transport == TransportFile {
		log.Info("using file transport, emails are not delivered", slog.String("dir", cfg.DevDir))
		return email.NewFileTransport(cfg.DevDir, resolver.Config), nil
	}

	opts := append(cfg.clientOptions(),
		email.WithOnAttempt(metrics.ObserveAttempt),
		email.WithClientLogger(log.With(logger.Component("brevo"))),
	)
	return email.NewBrevoClient(resolver.Config, opts...)
}
