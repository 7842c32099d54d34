package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigins is the exact-match allow-list. Origins not on the list
	// receive no CORS headers.
	AllowedOrigins []string

	// Debug reflects any Origin back, for local development only. The
	// active mode is logged at startup so a permissive deploy is visible.
	Debug bool
}

// NewCORSConfig builds a config from comma-separated origins.
func NewCORSConfig(origins string, debug bool) CORSConfig {
	cfg := CORSConfig{Debug: debug}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.Debug {
		slog.Warn("CORS running in debug mode, all origins reflected")
	} else {
		slog.Info("CORS allow-list active", "origins", cfg.AllowedOrigins)
	}
	return cfg
}

func (c CORSConfig) allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS applies the configured cross-origin policy and answers preflights.
func CORS(cfg CORSConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (cfg.Debug || cfg.allowed(origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-PAYMENT")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
