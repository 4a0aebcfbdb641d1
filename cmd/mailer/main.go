// Command mailer runs the transactional email service: it receives auth
// lifecycle hooks over HTTP and delivers the matching Brevo template emails.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Abdssamie/convex-shipfast/pkg/config"
	"github.com/Abdssamie/convex-shipfast/pkg/hooks"
	"github.com/Abdssamie/convex-shipfast/pkg/httpserver"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Log,
		logger.WithContextExtractors(hooks.DispatchIDExtractor(), hooks.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	a, err := newApp(cfg, config.OSEnv(), log)
	if err != nil {
		return err
	}

	if _, err := a.resolver.Config(); err != nil {
		// Sends fail individually until this is fixed; the daemon still starts.
		log.WarnContext(ctx, "brevo configuration incomplete", logger.Error(err))
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context, l *slog.Logger) error {
			l.InfoContext(ctx, "draining hook dispatches")
			return a.hooks.Wait(ctx)
		}),
	)
	return srv.Run(ctx, a.handler)
}
