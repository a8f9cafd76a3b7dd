package timer

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/nfc-timer/internal/logger"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withRequestLogging tags each request with an id and logs its outcome at debug level.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		id := uuid.NewString()

		ctx := logger.WithName(r.Context(), "http")
		ctx = logger.WithFields(ctx, "request_id", id, "method", r.Method, "path", r.URL.Path)

		w.Header().Set(RequestIDHeader, id)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))

		logger.DebugKV(ctx, "Request served",
			"status", recorder.status,
			"remote", r.RemoteAddr,
			"elapsed", time.Since(started),
		)
	})
}
