package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	tests := []struct {
		name           string
		config         CORSConfig
		origin         string
		method         string
		expectedOrigin string
		expectedStatus int
	}{
		{
			name: "wildcard any origin",
			config: CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:         "https://www.healthmatters.clinic",
			method:         "POST",
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
		{
			name: "exact origin match",
			config: CORSConfig{
				AllowedOrigins: []string{"https://www.healthmatters.clinic"},
				AllowedMethods: []string{"POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         600,
			},
			origin:         "https://www.healthmatters.clinic",
			method:         "POST",
			expectedOrigin: "https://www.healthmatters.clinic",
			expectedStatus: http.StatusOK,
		},
		{
			name: "wildcard subdomain match",
			config: CORSConfig{
				AllowedOrigins: []string{"*.healthmatters.clinic"},
				AllowedMethods: []string{"POST"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:         "https://forms.healthmatters.clinic",
			method:         "POST",
			expectedOrigin: "https://forms.healthmatters.clinic",
			expectedStatus: http.StatusOK,
		},
		{
			name: "disallowed origin gets no allow-origin header",
			config: CORSConfig{
				AllowedOrigins: []string{"https://www.healthmatters.clinic"},
				AllowedMethods: []string{"POST"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:         "https://evil.example",
			method:         "POST",
			expectedOrigin: "",
			expectedStatus: http.StatusOK,
		},
		{
			name: "preflight OPTIONS short-circuits with 200",
			config: CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:         "https://www.healthmatters.clinic",
			method:         "OPTIONS",
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://example.com/api/apply", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			CORS(tt.config)(handler).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectedOrigin)
			}

			if tt.method == "OPTIONS" && w.Body.Len() != 0 {
				t.Errorf("preflight response should have empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestCORS_MethodsAndHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cfg := CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         600,
	}

	req := httptest.NewRequest("POST", "http://example.com/api/apply", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	CORS(cfg)(handler).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-Request-ID" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Access-Control-Max-Age = %q", got)
	}
}
