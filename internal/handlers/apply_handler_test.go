package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmatters-clinic/board-intake/internal/httputil"
	"github.com/healthmatters-clinic/board-intake/internal/models"
	"github.com/healthmatters-clinic/board-intake/internal/service"
	"github.com/healthmatters-clinic/board-intake/internal/validator"
)

// mockIntakeService records Process calls for handler tests.
type mockIntakeService struct {
	processed   []*models.RawSubmission
	processFunc func(ctx context.Context, raw *models.RawSubmission) (*service.Result, error)
}

func (m *mockIntakeService) Process(ctx context.Context, raw *models.RawSubmission) (*service.Result, error) {
	m.processed = append(m.processed, raw)
	if m.processFunc != nil {
		return m.processFunc(ctx, raw)
	}
	return &service.Result{SubmissionID: "sub-1"}, nil
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/apply", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHandleApply_Success(t *testing.T) {
	mock := &mockIntakeService{}
	handler := NewApplyHandler(mock, 25<<20, nil)

	req := multipartRequest(t,
		map[string]string{"name": "Jane Doe", "email": "jane@x.org"},
		map[string][]byte{"resume.pdf": bytes.Repeat([]byte("x"), 2048)},
	)
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeResponse(t, rr)
	assert.True(t, resp.OK)

	require.Len(t, mock.processed, 1)
	assert.Equal(t, "Jane Doe", mock.processed[0].Field("name"))
	require.Len(t, mock.processed[0].Attachments, 1)
}

func TestHandleApply_MethodNotAllowed(t *testing.T) {
	handler := NewApplyHandler(&mockIntakeService{}, 25<<20, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/apply", nil)
			rr := httptest.NewRecorder()
			handler.HandleApply(rr, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))
			assert.False(t, decodeResponse(t, rr).OK)
		})
	}
}

func TestHandleApply_ValidationFailure(t *testing.T) {
	mock := &mockIntakeService{
		processFunc: func(ctx context.Context, raw *models.RawSubmission) (*service.Result, error) {
			return nil, &validator.FieldError{Field: "email"}
		},
	}
	handler := NewApplyHandler(mock, 25<<20, nil)

	req := multipartRequest(t, map[string]string{"name": "Jane Doe"}, nil)
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.OK)
	assert.Equal(t, "missing required field: email", resp.Error)
}

func TestHandleApply_HoneypotLooksLikeSuccess(t *testing.T) {
	mock := &mockIntakeService{
		processFunc: func(ctx context.Context, raw *models.RawSubmission) (*service.Result, error) {
			return &service.Result{SubmissionID: "sub-1", Discarded: true}, nil
		},
	}
	handler := NewApplyHandler(mock, 25<<20, nil)

	req := multipartRequest(t, map[string]string{
		"name":    "Bot",
		"email":   "bot@spam.example",
		"website": "http://spam.example",
	}, nil)
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeResponse(t, rr).OK,
		"discarded submissions are indistinguishable from accepted ones")
}

func TestHandleApply_PayloadTooLarge(t *testing.T) {
	mock := &mockIntakeService{}
	handler := NewApplyHandler(mock, 1024, nil)

	req := multipartRequest(t,
		map[string]string{"name": "Jane"},
		map[string][]byte{"huge.bin": bytes.Repeat([]byte("x"), 4096)},
	)
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.OK)
	assert.Equal(t, "Payload too large", resp.Error)
	assert.Empty(t, mock.processed, "no pipeline call for oversize bodies")
}

func TestHandleApply_MalformedBody(t *testing.T) {
	handler := NewApplyHandler(&mockIntakeService{}, 25<<20, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/apply", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, decodeResponse(t, rr).OK)
}

func TestHandleApply_PipelineFailure(t *testing.T) {
	mock := &mockIntakeService{
		processFunc: func(ctx context.Context, raw *models.RawSubmission) (*service.Result, error) {
			return nil, errors.New("append ledger row: service unreachable at 10.0.0.5")
		},
	}
	handler := NewApplyHandler(mock, 25<<20, nil)

	req := multipartRequest(t, map[string]string{"name": "Jane", "email": "jane@x.org"}, nil)
	rr := httptest.NewRecorder()
	handler.HandleApply(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.OK)
	assert.Equal(t, "Submission failed", resp.Error,
		"internal error detail must not leak to the client")
}

func TestHealthAndReady(t *testing.T) {
	handler := NewApplyHandler(&mockIntakeService{}, 25<<20, nil)

	rr := httptest.NewRecorder()
	handler.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
