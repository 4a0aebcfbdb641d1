package hooks

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

// bearerAuth rejects requests whose Authorization header does not carry the
// shared secret. An empty secret disables the check.
func (h *Handler) bearerAuth(next http.Handler) http.Handler {
	if h.secret == "" {
		return next
	}
	secret := []byte(h.secret)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), secret) != 1 {
			h.logger.WarnContext(r.Context(), "hook rejected",
				logger.Component("hooks"),
				logger.Error(ErrUnauthorized),
			)
			writeError(w, http.StatusUnauthorized, codeUnauthorized, ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
