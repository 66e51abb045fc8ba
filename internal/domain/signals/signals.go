// Package signals computes the statistical signal vector a text is scored on.
package signals

import (
	"math"

	"github.com/prosegauge/prosegauge/internal/domain/text"
)

// burstinessEpsilon guards the division by the mean sentence length.
const burstinessEpsilon = 1e-9

// Vector is the fixed-shape measurement of one text. All ratio fields are
// clamped to [0,1]; Length and AvgWordLen are unbounded.
type Vector struct {
	Length          int     `json:"length"`
	Burstiness      float64 `json:"burstiness"`
	Repetition      float64 `json:"repetition"`
	PunctuationRate float64 `json:"punctuation_rate"`
	AvgWordLen      float64 `json:"avg_word_len"`
	UniqueWordRatio float64 `json:"unique_word_ratio"`
}

// Compute derives the signal vector from raw input. It is a pure function:
// identical input yields an identical vector, and degenerate input resolves
// every ratio to 0 rather than NaN.
func Compute(input string) Vector {
	tokens := text.Tokenize(input)
	v := Vector{Length: len(tokens)}

	v.Burstiness = burstiness(text.Segment(input))
	v.PunctuationRate = punctuationRate(input)

	if len(tokens) == 0 {
		return v
	}

	distinct := make(map[string]struct{}, len(tokens))
	totalChars := 0
	for _, tok := range tokens {
		distinct[tok] = struct{}{}
		totalChars += len([]rune(tok))
	}

	n := float64(len(tokens))
	v.UniqueWordRatio = clamp01(float64(len(distinct)) / n)
	// Every occurrence beyond a token's first is an excess occurrence.
	v.Repetition = clamp01((n - float64(len(distinct))) / n)
	v.AvgWordLen = float64(totalChars) / n

	return v
}

// burstiness is the sample standard deviation of per-sentence token counts
// normalized by the mean sentence length. Fewer than two non-empty sentences
// yields 0.
func burstiness(sentences []string) float64 {
	var lengths []float64
	for _, s := range sentences {
		if n := len(text.Tokenize(s)); n > 0 {
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) < 2 {
		return 0
	}

	mean := 0.0
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		d := l - mean
		variance += d * d
	}
	variance /= float64(len(lengths) - 1)

	return clamp01(math.Sqrt(variance) / (mean + burstinessEpsilon))
}

// punctuationRate is the fraction of characters that are sentence-level
// punctuation marks.
func punctuationRate(input string) float64 {
	runes := []rune(input)
	if len(runes) == 0 {
		return 0
	}
	count := 0
	for _, r := range runes {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			count++
		}
	}
	return clamp01(float64(count) / float64(len(runes)))
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
