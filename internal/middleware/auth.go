package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jonatjano/HostMyDocs/internal/auth"
	"github.com/jonatjano/HostMyDocs/internal/domain"
	"github.com/jonatjano/HostMyDocs/internal/httputil"
)

const authRealm = `Basic realm="HostMyDocs"`

// RequireAuth rejects requests the authenticator does not accept.
// A nil authenticator lets every request through.
func RequireAuth(authenticator *auth.Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if authenticator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticator.Authenticate(r)
			if err != nil {
				detail := "unauthorized"
				var unauthorized *domain.UnauthorizedError
				if errors.As(err, &unauthorized) {
					detail = unauthorized.Message
				}
				logger.Debug("request rejected", "path", r.URL.Path, "reason", detail)

				w.Header().Set("WWW-Authenticate", authRealm)
				httputil.RespondError(w, http.StatusUnauthorized, detail)
				return
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}
