package rerank

import "math"

// clamp01 bounds a score to [0, 1].
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// softmax converts raw semantic scores into a sharpened distribution with
// temperature tau. Inputs are shifted by their maximum before
// exponentiation to keep the arithmetic stable. A degenerate sum yields
// all zeros rather than NaN.
func softmax(scores []float64, tau float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	if tau < 1e-6 {
		tau = 1e-6
	}

	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	sum := 0.0
	for i, s := range scores {
		e := math.Exp((s - max) / tau)
		out[i] = e
		sum += e
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range out {
			out[i] = 0
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
