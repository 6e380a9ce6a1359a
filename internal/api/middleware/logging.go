package middleware

import (
	"net/http"
	"time"
)

// Logging пишет строку access-лога на каждый запрос
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			requestID, _ := GetRequestID(r.Context())
			logger.Info("%s %s - status=%d, size=%d, duration=%s, request_id=%s",
				r.Method, r.URL.Path, sw.status, sw.size, time.Since(start), requestID)
		})
	}
}
