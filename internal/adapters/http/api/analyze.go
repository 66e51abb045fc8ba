package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prosegauge/prosegauge/internal/app"
	"github.com/prosegauge/prosegauge/internal/domain/types"
)

// AnalyzeHandler handles single-text analysis requests.
type AnalyzeHandler struct {
	deps         Dependencies
	maxTextBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies, maxTextBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxTextBytes: maxTextBytes}
}

// HandleAnalyze handles POST /v1/analyze requests. In score mode (the
// default) it returns the ensemble probability with its signal bundle; in
// calibrate mode it returns the raw signals and every sub-score together
// with the provided label.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxTextBytes)
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ev, err := h.deps.Evaluate(r.Context(), req.Text)
	switch {
	case errors.Is(err, app.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	if req.Mode == modeCalibrate {
		writeJSON(w, http.StatusOK, calibrateResponse{
			Label:   types.NormalizeLabel(req.Label),
			Signals: ev.Signals,
			Scores:  ev.Scores,
		})
		return
	}
	writeJSON(w, http.StatusOK, newAnalyzeResponse(ev))
}
