// Package scoring maps signal vectors to AI-likelihood scores and combines
// them into a final ensemble estimate.
package scoring

import (
	"github.com/prosegauge/prosegauge/internal/domain/signals"
)

// Heuristic sub-score weights. Tuned together with the band constants below;
// the confidence thresholds assume these exact values.
const (
	weightLowBurstiness   = 0.34
	weightRepetition      = 0.26
	weightLowUniqueness   = 0.20
	weightPunctuationBand = 0.10
	weightWordLengthBand  = 0.10
)

// Empirically chosen normalization bands.
const (
	repetitionSaturation  = 0.22
	uniqueRatioCeiling    = 0.62
	uniqueRatioBand       = 0.25
	punctuationRateCenter = 0.03
	punctuationRateBand   = 0.03
	wordLengthCenter      = 4.7
	wordLengthBand        = 2.0
)

// Length dampening: texts under minReliableTokens score at dampingFloor
// strength, ramping linearly to full strength at
// minReliableTokens+fullWeightSpan tokens.
const (
	minReliableTokens = 40
	fullWeightSpan    = 260
	dampingFloor      = 0.55
	dampingRange      = 0.45
)

// Heuristic maps a signal vector to a baseline AI-likelihood score in [0,1].
func Heuristic(v signals.Vector) float64 {
	lowBurst := clamp01(1 - v.Burstiness)
	rep := clamp01(v.Repetition / repetitionSaturation)
	lowUnique := clamp01((uniqueRatioCeiling - v.UniqueWordRatio) / uniqueRatioBand)
	punctMid := clamp01(1 - abs(v.PunctuationRate-punctuationRateCenter)/punctuationRateBand)
	wordLenMid := clamp01(1 - abs(v.AvgWordLen-wordLengthCenter)/wordLengthBand)

	raw := weightLowBurstiness*lowBurst +
		weightRepetition*rep +
		weightLowUniqueness*lowUnique +
		weightPunctuationBand*punctMid +
		weightWordLengthBand*wordLenMid

	lengthFactor := clamp01(float64(v.Length-minReliableTokens) / fullWeightSpan)
	return clamp01(raw * (dampingFloor + dampingRange*lengthFactor))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
