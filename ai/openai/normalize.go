package openai

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// noReason is the placeholder used when the model gives no usable reason.
const noReason = "no-reason"

// normalizeScores coerces the raw score array to exactly n floats in [0, 1].
// Missing elements are padded with 0, extras dropped.
func normalizeScores(raw []any, n int) []float64 {
	scores := make([]float64, n)
	for i := 0; i < n && i < len(raw); i++ {
		scores[i] = coerceScore(raw[i])
	}
	return scores
}

// coerceScore maps whatever JSON value the model produced onto [0, 1].
// Values in (1, 100] are treated as percentages and divided by 100;
// anything above 100, NaN, or infinite is clamped. Strings that parse as
// numbers are accepted.
func coerceScore(v any) float64 {
	var f float64

	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > 1 && f <= 100 {
		f /= 100
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// normalizeReasons coerces the raw reason array to exactly n non-empty
// strings. Non-string elements, blanks, and missing entries become the
// no-reason placeholder.
func normalizeReasons(raw []any, n int) []string {
	reasons := make([]string, n)
	for i := range reasons {
		reasons[i] = noReason
	}
	for i := 0; i < n && i < len(raw); i++ {
		s, ok := raw[i].(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			reasons[i] = trimmed
		}
	}
	return reasons
}
