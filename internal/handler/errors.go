package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jonatjano/HostMyDocs/internal/domain"
	"github.com/jonatjano/HostMyDocs/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Errors carrying a status are client errors; anything else is a 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		ambiguousErr *domain.AmbiguousRootError
		conflictErr  *domain.ConflictError
		httpErr      domain.HTTPError
	)

	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		httputil.RespondError(w, http.StatusNotImplemented, err.Error())
	case errors.As(err, &ambiguousErr):
		logger.Info("request rejected", "error", err)
		httputil.RespondErrorWithExtras(w, ambiguousErr.StatusCode(), ambiguousErr.Error(), map[string]interface{}{
			"candidates": ambiguousErr.Candidates,
		})
	case errors.As(err, &conflictErr):
		logger.Info("request conflicted", "error", err)
		extras := map[string]interface{}{"resource": conflictErr.ResourceType}
		if conflictErr.ResourceID != "" {
			extras["resourceId"] = conflictErr.ResourceID
		}
		httputil.RespondErrorWithExtras(w, conflictErr.StatusCode(), conflictErr.Error(), extras)
	case errors.As(err, &httpErr):
		logger.Info("request rejected", "error", err, "status", httpErr.StatusCode())
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
