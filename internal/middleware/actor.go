package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"treelink/internal/auth"
	"treelink/internal/httputil"
)

// Actor attributes requests to a user when a bearer token is presented.
// Requests without a token pass through anonymously; a presented token that
// fails verification is rejected with 401. A nil verifier disables the check.
func Actor(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondProblem(w, http.StatusUnauthorized, "unauthorized", "authorization header must be a bearer token", nil)
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondProblem(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
