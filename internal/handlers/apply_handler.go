package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/healthmatters-clinic/board-intake/internal/form"
	"github.com/healthmatters-clinic/board-intake/internal/httputil"
	"github.com/healthmatters-clinic/board-intake/internal/logging"
	"github.com/healthmatters-clinic/board-intake/internal/models"
	"github.com/healthmatters-clinic/board-intake/internal/service"
	"github.com/healthmatters-clinic/board-intake/internal/validator"
)

// IntakeService is the pipeline contract consumed by the HTTP layer.
type IntakeService interface {
	Process(ctx context.Context, raw *models.RawSubmission) (*service.Result, error)
}

type ApplyHandler struct {
	service      IntakeService
	maxFileBytes int64
	logger       *logging.Logger
}

func NewApplyHandler(service IntakeService, maxFileBytes int64, logger *logging.Logger) *ApplyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ApplyHandler{
		service:      service,
		maxFileBytes: maxFileBytes,
		logger:       logger,
	}
}

// HandleApply accepts one multipart application submission. OPTIONS
// preflight never reaches here (the CORS middleware answers it). The
// response is binary ok/not-ok: partial-success detail stays in logs and
// in the ledger row's empty cells.
func (h *ApplyHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	raw, err := form.Parse(r, h.maxFileBytes)
	if err != nil {
		if errors.Is(err, form.ErrPayloadTooLarge) {
			httputil.WriteError(w, http.StatusBadRequest, "Payload too large")
			return
		}
		h.logger.WarnContext(r.Context(), "multipart parse failed", logging.Error(err))
		httputil.WriteError(w, http.StatusBadRequest, "Malformed form submission")
		return
	}

	if _, err := h.service.Process(r.Context(), raw); err != nil {
		var fe *validator.FieldError
		if errors.As(err, &fe) {
			httputil.WriteError(w, http.StatusBadRequest, fe.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "submission failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Submission failed")
		return
	}

	httputil.WriteOK(w)
}

// Health reports liveness.
func (h *ApplyHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports readiness to accept submissions.
func (h *ApplyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
