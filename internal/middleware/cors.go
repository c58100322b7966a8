package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS returns a middleware handling cross-origin requests for the intake
// form, which is posted from the public website. A bare "*" origin entry
// allows any origin. Preflight OPTIONS requests are answered with 200 so
// that browser form clients treat the endpoint as reachable.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowedMethods := strings.Join(config.AllowedMethods, ", ")
	allowedHeaders := strings.Join(config.AllowedHeaders, ", ")
	maxAge := "300"
	if config.MaxAge > 0 {
		maxAge = fmt.Sprintf("%d", config.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowed := range config.AllowedOrigins {
				matched := false

				switch {
				case allowed == "*":
					matched = true
					origin = "*"
				case strings.HasPrefix(allowed, "*."):
					// Wildcard match: "*.example.com" matches "app.example.com"
					suffix := strings.TrimPrefix(allowed, "*")
					if origin != "" && strings.HasSuffix(origin, suffix) {
						matched = true
					}
				case origin == allowed:
					matched = true
				}

				if matched {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Max-Age", maxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
