package hooks

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Abdssamie/convex-shipfast/pkg/email"
	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// Notifier is the set of flow adapters the hooks call into.
// *email.Notifier implements it.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, p email.VerificationEmail)
	SendPasswordResetEmail(ctx context.Context, p email.PasswordResetEmail)
	SendMagicLinkEmail(ctx context.Context, p email.MagicLinkEmail)
	SendInvitationEmail(ctx context.Context, p email.InvitationEmail)
	SendWelcomeEmail(ctx context.Context, p email.WelcomeEmail)
}

// Defaults applied by NewHandler.
const (
	DefaultSiteURL         = "http://localhost:3000"
	DefaultDispatchTimeout = time.Minute
	DefaultMaxInFlight     = 256
	DefaultMaxBodyBytes    = 1 << 20
)

// Handler accepts auth lifecycle events over HTTP and dispatches the
// matching email in the background.
type Handler struct {
	notifier        Notifier
	logger          *slog.Logger
	secret          string
	siteURL         string
	dispatchTimeout time.Duration
	maxBodyBytes    int64

	slots   chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closing bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithSecret requires "Authorization: Bearer <secret>" on every hook.
func WithSecret(secret string) Option {
	return func(h *Handler) { h.secret = secret }
}

// WithSiteURL sets the base URL invitation links point to.
func WithSiteURL(siteURL string) Option {
	return func(h *Handler) {
		if siteURL != "" {
			h.siteURL = siteURL
		}
	}
}

// WithLogger sets the logger used for accepted and rejected events.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithDispatchTimeout bounds a single background dispatch, retries included.
func WithDispatchTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.dispatchTimeout = d
		}
	}
}

// WithMaxInFlight caps concurrent background dispatches. Events arriving
// while the cap is reached are rejected with 503.
func WithMaxInFlight(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.slots = make(chan struct{}, n)
		}
	}
}

// WithMaxBodyBytes caps the accepted request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler creates a hook handler dispatching through n.
func NewHandler(n Notifier, opts ...Option) *Handler {
	h := &Handler{
		notifier:        n,
		logger:          slog.New(slog.DiscardHandler),
		siteURL:         DefaultSiteURL,
		dispatchTimeout: DefaultDispatchTimeout,
		maxBodyBytes:    DefaultMaxBodyBytes,
		slots:           make(chan struct{}, DefaultMaxInFlight),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the hook endpoints on r under /hooks.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/hooks", func(r chi.Router) {
		r.Use(h.bearerAuth)

		r.Post("/user-created", h.UserCreated)
		r.Post("/verification-requested", h.VerificationRequested)
		r.Post("/password-reset-requested", h.PasswordResetRequested)
		r.Post("/magic-link-requested", h.MagicLinkRequested)
		r.Post("/invitation-created", h.InvitationCreated)
	})
}

// Router returns a standalone router serving the hook endpoints with request
// ids and panic recovery.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Routes(r)
	return r
}

// Wait stops accepting new events and blocks until every in-flight dispatch
// has finished or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrDrainTimeout
	}
}

// dispatch runs send in the background on a context detached from the
// request and replies 202 with the dispatch id.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, event string, send func(ctx context.Context)) {
	h.mu.RLock()
	if h.closing {
		h.mu.RUnlock()
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, ErrShuttingDown)
		return
	}
	select {
	case h.slots <- struct{}{}:
	default:
		h.mu.RUnlock()
		h.logger.WarnContext(r.Context(), "hook rejected",
			logger.Event(event),
			logger.Error(ErrTooManyInFlight),
		)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, ErrTooManyInFlight)
		return
	}
	h.wg.Add(1)
	h.mu.RUnlock()

	id := uuid.NewString()
	ctx := WithDispatchID(context.WithoutCancel(r.Context()), id)

	h.logger.InfoContext(ctx, "hook accepted", logger.Event(event))

	go func() {
		defer h.wg.Done()
		defer func() { <-h.slots }()

		ctx, cancel := context.WithTimeout(ctx, h.dispatchTimeout)
		defer cancel()

		start := time.Now()
		send(ctx)
		h.logger.DebugContext(ctx, "hook dispatched",
			logger.Event(event),
			logger.Duration(time.Since(start)),
		)
	}()

	writeJSON(w, http.StatusAccepted, acceptedResponse{ID: id})
}
