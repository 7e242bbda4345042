package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itsDrac/authgate/pkg/logger"
)

// RequestLogger writes one access log line per request.
func RequestLogger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Infow("Http Request",
				"status", ww.Status(),
				"latency", time.Since(start),
				"method", r.Method,
				"path", r.URL.Path,
				"bytes", ww.BytesWritten(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
