// Package hooks exposes the auth lifecycle events that trigger transactional
// email as authenticated HTTP endpoints.
//
// The auth provider calls one endpoint per event:
//
//	POST /hooks/user-created             {email, name}               -> welcome
//	POST /hooks/verification-requested   {email, name, url}          -> email_verification
//	POST /hooks/password-reset-requested {email, name, url}          -> password_reset
//	POST /hooks/magic-link-requested     {email, url}                -> magic_link
//	POST /hooks/invitation-created       {id, email, inviterEmail,
//	                                      inviterName, organizationName} -> invitation
//
// Events are checked with the validator package: emails must be bare
// addresses and links absolute http(s) URLs. A rejected event gets 422 with
// the failing field names in "fields".
//
// A valid event is answered with 202 and a dispatch id; the email is sent in
// the background on a context detached from the request, so a slow provider
// never holds the caller. Failures are logged by the email package and never
// reported back to the caller.
//
// Usage:
//
//	h := hooks.NewHandler(notifier,
//		hooks.WithSecret(cfg.HookSecret),
//		hooks.WithSiteURL(cfg.SiteURL),
//		hooks.WithLogger(log),
//	)
//	r := chi.NewRouter()
//	h.Routes(r)
//
//	// on shutdown
//	_ = h.Wait(ctx)
package hooks
