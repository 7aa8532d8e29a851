package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAPIKeyAuth(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-pipeline-api-key-12345"
	internalConfig := &config.InternalConfig{
		App: config.App{
			APIKey: testAPIKey,
		},
	}

	middlewares := &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/datastores", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		handler := middlewares.APIKeyAuth(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for valid API key")
		assert.Equal(t, "success", rr.Body.String(), "should return success message")
	})

	t.Run("Missing API key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/datastores", nil)

		rr := httptest.NewRecorder()
		handler := middlewares.APIKeyAuth(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for missing API key")
	})

	t.Run("Invalid API key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/datastores", nil)
		req.Header.Set(constvars.HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		handler := middlewares.APIKeyAuth(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "should return 403 Forbidden for invalid API key")
	})
}

func TestRequestID(t *testing.T) {
	middlewares := &Middlewares{
		Log:            zap.NewNop(),
		InternalConfig: &config.InternalConfig{},
	}

	t.Run("propagates an incoming request id", func(t *testing.T) {
		var seen string
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		})

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set(constvars.HeaderRequestID, "req-123")

		rr := httptest.NewRecorder()
		middlewares.RequestID(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get(constvars.HeaderRequestID))
	})

	t.Run("mints a request id when absent", func(t *testing.T) {
		var seen string
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		})

		req := httptest.NewRequest("GET", "/healthz", nil)
		rr := httptest.NewRecorder()
		middlewares.RequestID(testHandler).ServeHTTP(rr, req)

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderRequestID))
	})
}
