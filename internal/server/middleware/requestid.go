package middleware

import (
	"net/http"

	"workfloor/internal/logger"

	"github.com/google/uuid"
)

// RequestID attaches a correlation ID to the request context, honoring an
// incoming X-Request-ID header and generating one otherwise. The ID is
// echoed back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
