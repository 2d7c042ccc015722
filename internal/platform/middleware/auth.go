package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/httputil"
	"agora/pkg/requestcontext"
)

// SessionValidator validates a registration session token.
type SessionValidator interface {
	ValidateSession(tokenString string) (*SessionClaims, error)
}

// SessionClaims are the claims the middleware needs from a session token.
type SessionClaims struct {
	DraftID id.DraftID
	Flow    string
	JTI     string
}

// RequireSession rejects requests without a valid bearer session token and
// stores the token's draft id in the request context.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateSession(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithDraftID(ctx, claims.DraftID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
