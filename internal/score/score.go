// Package score provides the bounded-scalar arithmetic shared by the
// qualification and fit scorers. All sub-scores in the engine live on a
// 0–100 scale; these helpers keep the arithmetic honest at the edges.
package score

import "math"

// Max is the upper bound of every sub-score in the engine.
const Max = 100.0

// Clamp bounds v to the [0, Max] scale.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > Max {
		return Max
	}
	return v
}

// Round1 rounds v to one decimal place. Weighted totals are reported at
// this precision; sub-scores stay as computed.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Weighted is one component of a weighted total.
type Weighted struct {
	Value  float64
	Weight float64
}

// Total computes the weighted sum of the given components, rounded to one
// decimal place. Callers are responsible for weights summing to 1.0; the
// result is clamped so a misconfigured weight set can never escape the scale.
func Total(parts ...Weighted) float64 {
	var sum float64
	for _, p := range parts {
		sum += p.Value * p.Weight
	}
	return Round1(Clamp(sum))
}
