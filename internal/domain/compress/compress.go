// Package compress scores texts by their gzip compressibility. Highly
// compressible (low-entropy) text is treated as more likely AI-generated.
package compress

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
)

// MinTokens is the token count below which the compression signal is
// suppressed: callers must use a score of 0 instead of computing the ratio.
const MinTokens = 60

// Empirically chosen ratio bounds: at or below ratioFloor the score
// saturates to 1, at or above ratioCeiling it falls to 0.
const (
	ratioFloor   = 0.28
	ratioCeiling = 0.68
)

// ErrUnavailable marks a failure of the compression facility itself. It is
// an environment fault, not a property of the input, and is never retried
// internally.
var ErrUnavailable = errors.New("compression unavailable")

// Ratio gzip-compresses the whole UTF-8 encoded input and returns
// compressed byte length over original byte length. The input is buffered
// fully before compressing. Honors ctx for cancellation.
func Ratio(ctx context.Context, input string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("compression aborted: %w", err)
	}

	original := []byte(input)
	if len(original) == 0 {
		return 0, fmt.Errorf("%w: empty input", ErrUnavailable)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(original); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("compression aborted: %w", err)
	}
	return float64(buf.Len()) / float64(len(original)), nil
}

// Score linearly maps a compression ratio onto [0,1]: ratioFloor maps to 1,
// ratioCeiling to 0, values outside the band are clamped.
func Score(ratio float64) float64 {
	return clamp01(1 - (ratio-ratioFloor)/(ratioCeiling-ratioFloor))
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
