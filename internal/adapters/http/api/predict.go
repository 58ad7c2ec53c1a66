package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	service "github.com/okian/diabcheck/internal/app"
	"github.com/okian/diabcheck/internal/domain/features"
	"github.com/okian/diabcheck/internal/domain/inference"
	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
)

// predictRequest mirrors the OpenAPI schema for POST /predict.
type predictRequest struct {
	Answers survey.Answers `json:"answers"`
}

type predictResponse struct {
	ID         uuid.UUID       `json:"id"`
	Prediction inference.Label `json:"prediction"`
	Diabetic   bool            `json:"diabetic"`
	Message    string          `json:"message"`
	Features   features.Row    `json:"features"`
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps     Dependencies
	maxBytes int64
	logger   logger.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies, maxBytes int64, l logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, nil)
		return
	}
	if !h.deps.Ready() {
		writeError(w, http.StatusServiceUnavailable, service.KindArtifactUnavailable, NewKind(op, ErrNotReady))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req predictRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, WrapKind(op, ErrBadRequest, err))
			return
		}
		if errors.Is(err, features.ErrSchemaMismatch) {
			writeError(w, http.StatusBadRequest, service.KindSchemaMismatch, WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrTrailingData))
		return
	}

	out, err := h.deps.Predict(r.Context(), req.Answers)
	if err != nil {
		code := service.KindOf(err)
		status := statusFor(code)
		if status >= http.StatusInternalServerError && h.logger != nil {
			h.logger.Error(r.Context(), "predict request failed",
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.String("code", code),
				logger.Error(err),
			)
		}
		writeError(w, status, code, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ID:         out.ID,
		Prediction: out.Label,
		Diabetic:   out.Label == inference.Diabetic,
		Message:    out.Message,
		Features:   out.Row,
	})
}
