package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/startdash-dev/startdash/internal/logger"
)

type contextKey string

const requestIdKey contextKey = "request_id"

// RequestID tags every request with a uuid, echoes it in X-Request-Id and
// logs the request with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIdKey, id)
		logger.Log.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id put into the context by RequestID.
func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIdKey).(string); ok {
		return id
	}
	return ""
}
