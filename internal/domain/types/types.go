// Package types contains common types shared across layers.
package types

// Labels a calibration sample can carry.
const (
	LabelHuman     = "human"
	LabelAI        = "ai"
	LabelUnlabeled = "unlabeled"
)

// Signals is the six-field measurement of a text as exposed on the wire.
type Signals struct {
	Length          int     `json:"length"`
	Burstiness      float64 `json:"burstiness"`
	Repetition      float64 `json:"repetition"`
	PunctuationRate float64 `json:"punctuation_rate"`
	AvgWordLen      float64 `json:"avg_word_len"`
	UniqueWordRatio float64 `json:"unique_word_ratio"`
}

// Scores bundles every sub-score produced by one pipeline run.
type Scores struct {
	Heuristic float64 `json:"heuristic"`
	Zippy     float64 `json:"zippy"`
	DetectGPT float64 `json:"detectgpt"`
	Ensemble  float64 `json:"ensemble"`
}

// Evaluation is the complete result bundle for one scored text. It is a
// value object: produced once per request and never mutated downstream.
type Evaluation struct {
	Signals    Signals
	Scores     Scores
	Confidence string
	// Degraded is set when the compression facility failed and the zippy
	// score was substituted with 0.
	Degraded bool
}

// SubmitStatus reports the outcome of a calibration sample submission.
type SubmitStatus string

// Submission outcomes.
const (
	SubmitAccepted     SubmitStatus = "accepted"
	SubmitDuplicate    SubmitStatus = "duplicate"
	SubmitBackpressure SubmitStatus = "backpressure"
)

// LabelStats aggregates the stored calibration samples for one label.
type LabelStats struct {
	Count        int     `json:"count"`
	MeanEnsemble float64 `json:"mean_ensemble"`
}

// CalibrationStats summarizes the in-memory calibration dataset.
type CalibrationStats struct {
	Total  int                   `json:"total"`
	Labels map[string]LabelStats `json:"labels"`
}

// NormalizeLabel maps free-form label input onto the known label set.
func NormalizeLabel(label string) string {
	switch label {
	case LabelHuman, LabelAI:
		return label
	default:
		return LabelUnlabeled
	}
}
