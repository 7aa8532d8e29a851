package middlewares

import (
	"crypto/subtle"
	"net/http"

	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/utils"

	"go.uber.org/zap"
)

// APIKeyAuth rejects requests without the configured key.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)

		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyMissing(nil))
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.InternalConfig.App.APIKey)) != 1 {
			m.Log.Warn("API key rejected",
				zap.String("ip", r.RemoteAddr),
				zap.String("endpoint", r.URL.Path),
				zap.String("method", r.Method),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyInvalid(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
