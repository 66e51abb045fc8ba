package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prosegauge/prosegauge/internal/app"
)

// BatchHandler handles multi-text analysis requests.
type BatchHandler struct {
	deps         Dependencies
	maxBatchSize int
	maxTextBytes int64
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies, maxBatchSize int, maxTextBytes int64) *BatchHandler {
	return &BatchHandler{deps: deps, maxBatchSize: maxBatchSize, maxTextBytes: maxTextBytes}
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type batchResponse struct {
	Results []analyzeResponse `json:"results"`
}

// HandleBatch handles POST /v1/analyze/batch requests. Results are
// returned in the same order as the input texts; any invalid text fails
// the whole batch.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxTextBytes)
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if len(req.Texts) > h.maxBatchSize {
		err := fmt.Errorf("batch of %d exceeds limit %d", len(req.Texts), h.maxBatchSize)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	for i, t := range req.Texts {
		if strings.TrimSpace(t) == "" {
			err := fmt.Errorf("text %d is empty", i)
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	evs, err := h.deps.EvaluateBatch(r.Context(), req.Texts)
	switch {
	case errors.Is(err, app.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	resp := batchResponse{Results: make([]analyzeResponse, len(evs))}
	for i, ev := range evs {
		resp.Results[i] = newAnalyzeResponse(ev)
	}
	writeJSON(w, http.StatusOK, resp)
}
