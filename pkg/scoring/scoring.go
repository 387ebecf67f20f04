// Package scoring provides a weighted multi-factor scoring engine. Each
// factor computes a sub-score in [0,1] for an input; the aggregate is the
// weighted sum of sub-scores. Factor floors and warn thresholds translate
// weak sub-scores into blocking issues and non-blocking suggestions.
// Scoring is deterministic: identical input and factor set always yield
// identical output.
package scoring

import (
	"fmt"
	"math"
)

// WeightTolerance bounds the acceptable deviation of a factor set's
// weight sum from 1.0.
const WeightTolerance = 1e-6

// Sub is the outcome of one factor evaluation. Issues block; Suggestions
// never block.
type Sub struct {
	Score       float64
	Issues      []string
	Suggestions []string
}

// Factor is one weighted component of a score computation.
type Factor[T any] struct {
	// Name identifies the factor in results and issue messages.
	Name string

	// Weight is the factor's share of the aggregate. Weights for one
	// computation must sum to 1.0 within WeightTolerance.
	Weight float64

	// Floor is the sub-score below which a blocking issue is appended
	// regardless of the aggregate.
	Floor float64

	// Warn is the sub-score below which (and at or above Floor) a
	// non-blocking suggestion is appended.
	Warn float64

	// Eval computes the factor sub-score for an input. It must be a pure
	// function of the input.
	Eval func(input T) Sub
}

// FactorScore records one factor's contribution to a result.
type FactorScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// Result is the aggregate of one scoring computation.
type Result struct {
	Score       float64       `json:"score"`
	Factors     []FactorScore `json:"factors"`
	Issues      []string      `json:"issues,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// Score evaluates every factor against the input and aggregates the
// weighted sub-scores. It returns an error when the factor weights do
// not sum to 1.0 within WeightTolerance. Sub-scores are clamped to
// [0,1] before weighting, so the aggregate is always in [0,1].
func Score[T any](input T, factors []Factor[T]) (Result, error) {
	if len(factors) == 0 {
		return Result{}, fmt.Errorf("at least one factor required")
	}

	sum := 0.0
	for _, f := range factors {
		sum += f.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return Result{}, fmt.Errorf("factor weights sum to %.6f, expected 1.0", sum)
	}

	result := Result{Factors: make([]FactorScore, 0, len(factors))}

	for _, f := range factors {
		sub := f.Eval(input)
		score := clamp(sub.Score)

		result.Score += score * f.Weight
		result.Factors = append(result.Factors, FactorScore{
			Name:   f.Name,
			Weight: f.Weight,
			Score:  score,
		})
		result.Issues = append(result.Issues, sub.Issues...)
		result.Suggestions = append(result.Suggestions, sub.Suggestions...)

		switch {
		case score < f.Floor:
			result.Issues = append(result.Issues, fmt.Sprintf(
				"%s scored %.2f, below floor %.2f", f.Name, score, f.Floor,
			))
		case score < f.Warn:
			result.Suggestions = append(result.Suggestions, fmt.Sprintf(
				"%s scored %.2f, below target %.2f", f.Name, score, f.Warn,
			))
		}
	}

	result.Score = clamp(result.Score)
	return result, nil
}

// ValidateWeights checks that a factor set's weights sum to 1.0 within
// WeightTolerance. Useful for validating static factor sets at startup.
func ValidateWeights[T any](factors []Factor[T]) error {
	sum := 0.0
	for _, f := range factors {
		sum += f.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("factor weights sum to %.6f, expected 1.0", sum)
	}
	return nil
}

func clamp(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
