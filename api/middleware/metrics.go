package middleware

import (
	"net/http"
	"time"

	"github.com/shopworks/catalog-backend/pkg/metrics"
)

func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			// The chi route pattern is only resolved after routing, so the
			// label is read once the handler chain returns.
			httpMetrics.ObserveRequest(routePattern(r), r.Method, rec.status, time.Since(start))
		})
	}
}
