package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/httputil"
	"agora/pkg/requestcontext"
)

// Middleware limits requests per client IP. Store errors fail open.
type Middleware struct {
	store  Store
	logger *slog.Logger
}

func NewMiddleware(store Store, logger *slog.Logger) *Middleware {
	return &Middleware{store: store, logger: logger}
}

// PerIP allows limit requests per window for each client IP under class.
// A non-positive limit disables the check.
func (m *Middleware) PerIP(class string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			res, err := m.store.Allow(ctx, class+":"+ip, limit, window)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"class", class,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed {
				retry := max(int(time.Until(res.ResetAt).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
