package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthmatters-clinic/board-intake/internal/handlers"
	"github.com/healthmatters-clinic/board-intake/internal/models"
	"github.com/healthmatters-clinic/board-intake/internal/service"
)

type mockIntakeService struct{}

func (m *mockIntakeService) Process(ctx context.Context, raw *models.RawSubmission) (*service.Result, error) {
	return &service.Result{SubmissionID: "sub-1"}, nil
}

func newTestRouter() http.Handler {
	handler := handlers.NewApplyHandler(&mockIntakeService{}, 25<<20, nil)
	return NewRouter(handler, []string{"*"})
}

func TestRouter_ApplyEndpointRegistered(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/apply", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.NotEqual(t, http.StatusNotFound, rr.Code, "/api/apply endpoint not registered")
}

func TestRouter_PreflightReturns200(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/apply", nil)
	req.Header.Set("Origin", "https://www.healthmatters.clinic")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_RequestIDOnResponses(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
