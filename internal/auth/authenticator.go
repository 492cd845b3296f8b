package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonatjano/HostMyDocs/internal/domain"
)

// Authenticator checks request credentials for protected routes.
//
// Two schemes are accepted:
//   - Basic: compared against the configured username and password
//   - Bearer: verified by the JWT verifier, when one is configured
type Authenticator struct {
	username string
	password string
	verifier JWTVerifier
	logger   *slog.Logger
}

// NewAuthenticator creates an authenticator. Empty credentials disable Basic;
// a nil verifier disables Bearer.
func NewAuthenticator(username, password string, verifier JWTVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		username: username,
		password: password,
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate returns the principal behind the request's Authorization header
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", &domain.UnauthorizedError{Message: "missing credentials"}
	}

	if username, password, ok := r.BasicAuth(); ok {
		if a.username == "" || !a.checkBasic(username, password) {
			a.logger.Info("basic authentication failed", "username", username)
			return "", &domain.UnauthorizedError{Message: "invalid credentials"}
		}
		return username, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if ok && strings.EqualFold(scheme, "Bearer") && a.verifier != nil {
		claims, err := a.verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			return "", &domain.UnauthorizedError{Message: "invalid token"}
		}
		return claims.Subject, nil
	}

	return "", &domain.UnauthorizedError{Message: "unsupported authorization scheme"}
}

// checkBasic compares in constant time
func (a *Authenticator) checkBasic(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}
