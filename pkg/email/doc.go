// Package email dispatches transactional emails through Brevo templates.
//
// The package is layered leaves first:
//
//   - Resolver reads Brevo settings from a config.Source at the point of use.
//     Nothing is cached, so a broken template setting only fails its own flow.
//   - The template registry maps each Flow to the setting holding its
//     template id (TemplateSetting, Flows).
//   - BrevoClient is the provider Transport: it builds the payload, POSTs it
//     with bounded exponential-backoff retry and classifies the response.
//   - Dispatcher is the single entry point (Mailer). It resolves the template
//     id and delegates to the transport.
//   - Notifier holds one adapter per product event. Adapters log failures and
//     never return them.
//
// # Usage
//
//	resolver := email.NewResolver(config.OSEnv())
//
//	client, err := email.NewBrevoClient(resolver.Config,
//	    email.WithAttemptTimeout(10*time.Second),
//	)
//	if err != nil {
//	    // Handle configuration error
//	}
//
//	dispatcher := email.NewDispatcher(client, resolver)
//	notifier := email.NewNotifier(dispatcher, email.WithNotifierLogger(log))
//
//	notifier.SendWelcomeEmail(ctx, email.WelcomeEmail{
//	    Email: "user@example.com",
//	    Name:  "Jane",
//	})
//
// Callers that need the outcome use the dispatcher directly:
//
//	res, err := dispatcher.SendEmail(ctx, email.Request{
//	    Flow:    email.FlowMagicLink,
//	    To:      email.Recipient{Email: "user@example.com"},
//	    Params:  map[string]string{"url": link, "email": "user@example.com"},
//	    Sandbox: true,
//	})
//
// # Retry policy
//
// Up to three retries (four attempts) with 1s, 2s and 4s between them.
// Network failures and 5xx responses are retried. Any response in [200,500)
// ends the loop: a 4xx will not succeed by resending the same payload. Each
// attempt is bounded by its own timeout and the caller's context.
//
// # Error Handling
//
// Every failure returned by Dispatcher and BrevoClient is a *SendError with
// one of three codes:
//
//   - missing_env: a required setting is absent (Field names it).
//   - invalid_template_id: a template setting is not an integer (Value echoes it).
//   - brevo_request_failed: Brevo rejected the request or stayed unreachable.
//     Status is zero and Reason is "network_error" when no response arrived.
//
// The sentinels ErrMissingEnv, ErrInvalidTemplateID and ErrRequestFailed work
// with errors.Is; AsSendError returns the full value.
//
//	if _, err := dispatcher.SendEmail(ctx, req); errors.Is(err, email.ErrMissingEnv) {
//	    // configuration problem, no request was made
//	}
//
// # Development
//
// FileTransport stands in for BrevoClient locally and writes each payload to
// a JSON file instead of sending it.
package email
