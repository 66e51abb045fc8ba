package scoring

import (
	"math"
	"strings"

	"github.com/prosegauge/prosegauge/internal/domain/signals"
	"github.com/prosegauge/prosegauge/internal/domain/text"
)

// Perturbation stability constants.
const (
	stabilitySamples      = 5
	stabilityDeltaCeiling = 0.15
	perturbMinTokens      = 12
	seedMultiplier        = 9973
)

// SeededUnit maps a seed to [0,1) deterministically. It replaces a stateful
// random generator so the perturbation sequence is reproducible for a given
// input.
func SeededUnit(seed float64) float64 {
	return math.Mod(math.Abs(math.Sin(seed*seedMultiplier)), 1)
}

// Perturb re-tokenizes the input and swaps one adjacent token pair, picked by
// the seeded index. Texts with fewer than perturbMinTokens tokens are
// returned unchanged.
func Perturb(input string, seed float64) string {
	tokens := text.Tokenize(input)
	if len(tokens) < perturbMinTokens {
		return input
	}
	// The index excludes the last token so the swap partner always exists.
	idx := int(SeededUnit(seed) * float64(len(tokens)-1))
	tokens[idx], tokens[idx+1] = tokens[idx+1], tokens[idx]
	return strings.Join(tokens, " ")
}

// Stability rescores lightly perturbed variants of the input against the
// base heuristic score and maps the mean deviation into [0,1]. Zero
// deviation yields 1; a mean deviation of stabilityDeltaCeiling or more
// yields 0. Higher stability is treated as more AI-like.
func Stability(input string, baseScore float64) float64 {
	total := 0.0
	for i := 1; i <= stabilitySamples; i++ {
		variant := Perturb(input, float64(i))
		score := Heuristic(signals.Compute(variant))
		total += math.Abs(score - baseScore)
	}
	mean := total / stabilitySamples
	return 1 - clamp01(mean/stabilityDeltaCeiling)
}
