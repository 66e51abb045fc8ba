package scoring

// Confidence buckets a final score into a coarse band.
type Confidence string

// Confidence bands ordered by increasing score.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Ensemble weights and confidence thresholds. The weights sum to 1 so the
// combined score stays in [0,1] by construction.
const (
	ensembleHeuristicWeight   = 0.4
	ensembleCompressionWeight = 0.3
	ensembleStabilityWeight   = 0.3

	confidenceHighFloor   = 0.80
	confidenceMediumFloor = 0.55
)

// Combine folds the three sub-scores into the final AI-likelihood estimate
// and its confidence band.
func Combine(heuristic, compression, stability float64) (float64, Confidence) {
	score := ensembleHeuristicWeight*heuristic +
		ensembleCompressionWeight*compression +
		ensembleStabilityWeight*stability
	score = clamp01(score)

	switch {
	case score >= confidenceHighFloor:
		return score, ConfidenceHigh
	case score >= confidenceMediumFloor:
		return score, ConfidenceMedium
	default:
		return score, ConfidenceLow
	}
}
