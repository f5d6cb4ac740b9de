package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/openrwa/fracshare/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// withIdentity is middleware that reads the caller identity from the
// X-Caller-Id and X-Caller-Roles headers set by the upstream gateway and
// stores it in the request context. The headers are trusted as handed in;
// requests without a caller id pass through anonymously and handlers that
// require identity reject them.
func withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
		if callerID == "" {
			next.ServeHTTP(w, r)
			return
		}

		var roles []string
		if raw := r.Header.Get("X-Caller-Roles"); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					roles = append(roles, role)
				}
			}
		}

		identity := domain.Identity{CallerID: callerID, Roles: roles}
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), identityKey, identity)))
	})
}

// identityFrom extracts the caller identity from the request context.
// ok is false when the request carried no X-Caller-Id header.
func identityFrom(r *http.Request) (domain.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(domain.Identity)
	return identity, ok
}

// requireIdentity extracts the caller identity or writes a 401 response.
// Callers must return immediately when ok is false.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := identityFrom(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "authentication_required",
			"X-Caller-Id header is required")
	}
	return identity, ok
}
