package middlewares

import (
	"context"
	"net/http"

	"healthlake-pipeline/internal/pkg/constvars"

	"github.com/google/uuid"
)

// RequestID propagates the caller's correlation id, minting one when absent.
func (m *Middlewares) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constvars.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_REQUEST_ID_KEY, requestID)
		w.Header().Set(constvars.HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
