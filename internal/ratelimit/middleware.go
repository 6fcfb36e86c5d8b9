package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"certificate-api/internal/platform/privacy"
	dErrors "certificate-api/pkg/domain-errors"
	"certificate-api/pkg/platform/httputil"
	"certificate-api/pkg/requestcontext"
)

// Middleware enforces the limiter on every request it wraps. The caller is
// identified by requestcontext.ClientKey. A store failure lets the request
// through.
func Middleware(limiter *Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			client := requestcontext.ClientKey(ctx)
			if client == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(ctx, client)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					"client", privacy.AnonymizeClientKey(client),
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if !result.Allowed {
				logger.InfoContext(ctx, "rate limit exceeded",
					"client", privacy.AnonymizeClientKey(client),
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result *Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
