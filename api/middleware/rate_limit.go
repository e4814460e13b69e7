package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shopworks/catalog-backend/api/responses"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 120
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit applies a fixed-window per-client limit across the API. A nil
// limiter disables the check so local runs without redis still work.
func RateLimit(limiter rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			scope := clientAddr(r)
			allowed, count, err := limiter.FixedWindowAllow(r.Context(), scope, rateLimitRequests, rateLimitWindow)
			if err != nil {
				// The limiter failing should not take the API down.
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "rate limit check failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{
						"client": scope,
						"count":  count,
					})
					logg.Warn(ctx, "rate limit exceeded")
				}
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
