package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsServer(cfg CORSConfig) http.Handler {
	return CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS(t *testing.T) {
	t.Run("Allowed Origin Gets Headers", func(t *testing.T) {
		cfg := NewCORSConfig("https://app.example.com", false)
		h := corsServer(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/apy", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Unlisted Origin Gets No Headers", func(t *testing.T) {
		cfg := NewCORSConfig("https://app.example.com", false)
		h := corsServer(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/apy", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Debug Mode Reflects Any Origin", func(t *testing.T) {
		cfg := NewCORSConfig("", true)
		h := corsServer(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/apy", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight Short Circuits", func(t *testing.T) {
		cfg := NewCORSConfig("https://app.example.com", false)
		h := corsServer(cfg)

		req := httptest.NewRequest(http.MethodOptions, "/api/apy", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
