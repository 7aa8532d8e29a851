package middlewares

import (
	"net/http"
	"time"

	"healthlake-pipeline/internal/pkg/constvars"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger emits one structured line per request.
func (m *Middlewares) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: constvars.StatusOK}

		next.ServeHTTP(recorder, r)

		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		m.Log.Info("request completed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("method", r.Method),
			zap.String("endpoint", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
		)
	})
}
