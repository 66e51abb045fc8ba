package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prosegauge/prosegauge/internal/app"
	"github.com/prosegauge/prosegauge/internal/domain/types"
)

// CalibrationHandler handles calibration dataset requests.
type CalibrationHandler struct {
	deps         Dependencies
	maxTextBytes int64
}

// NewCalibrationHandler creates a new calibration handler.
func NewCalibrationHandler(deps Dependencies, maxTextBytes int64) *CalibrationHandler {
	return &CalibrationHandler{deps: deps, maxTextBytes: maxTextBytes}
}

// calibrationRequest mirrors the request schema for POST /v1/calibration.
type calibrationRequest struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

func (c calibrationRequest) validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("missing text")
	}
	switch c.Label {
	case "", types.LabelHuman, types.LabelAI, types.LabelUnlabeled:
		return nil
	default:
		return errors.New("invalid label; must be human, ai or unlabeled")
	}
}

// HandleSubmit handles POST /v1/calibration requests. Samples are scored
// asynchronously; duplicates are acknowledged without re-queueing and a
// full queue reports backpressure so the caller can retry.
func (h *CalibrationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_calibration"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxTextBytes)
	var req calibrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	status, err := h.deps.SubmitSample(r.Context(), req.Text, req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	switch status {
	case types.SubmitDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case types.SubmitBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
	}
}

// HandleStats handles GET /v1/calibration/stats requests.
func (h *CalibrationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.calibration_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats, err := h.deps.CalibrationStats(r.Context())
	switch {
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
