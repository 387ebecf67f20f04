package scoring_test

import (
	"math"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/pkg/scoring"
)

func constant(name string, weight, score float64) scoring.Factor[int] {
	return scoring.Factor[int]{
		Name:   name,
		Weight: weight,
		Eval: func(int) scoring.Sub {
			return scoring.Sub{Score: score}
		},
	}
}

func TestScoreWeightedAggregate(t *testing.T) {
	factors := []scoring.Factor[int]{
		constant("alpha", 0.6, 1.0),
		constant("beta", 0.4, 0.5),
	}

	result, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	want := 0.6*1.0 + 0.4*0.5
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("score: got %v, want %v", result.Score, want)
	}
	if len(result.Factors) != 2 {
		t.Fatalf("factor scores: got %d, want 2", len(result.Factors))
	}
	if result.Factors[0].Name != "alpha" || result.Factors[0].Score != 1.0 {
		t.Errorf("first factor: got %+v", result.Factors[0])
	}
}

func TestScoreWeightValidation(t *testing.T) {
	tests := []struct {
		name    string
		factors []scoring.Factor[int]
		wantErr bool
	}{
		{
			name:    "exact sum",
			factors: []scoring.Factor[int]{constant("a", 0.5, 1), constant("b", 0.5, 1)},
			wantErr: false,
		},
		{
			name:    "within tolerance",
			factors: []scoring.Factor[int]{constant("a", 0.5, 1), constant("b", 0.5+1e-9, 1)},
			wantErr: false,
		},
		{
			name:    "sum too low",
			factors: []scoring.Factor[int]{constant("a", 0.5, 1), constant("b", 0.4, 1)},
			wantErr: true,
		},
		{
			name:    "sum too high",
			factors: []scoring.Factor[int]{constant("a", 0.7, 1), constant("b", 0.4, 1)},
			wantErr: true,
		},
		{
			name:    "no factors",
			factors: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoring.Score(0, tt.factors)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScoreClampsSubScores(t *testing.T) {
	factors := []scoring.Factor[int]{
		constant("over", 0.5, 1.5),
		constant("under", 0.5, -0.5),
	}

	result, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if result.Factors[0].Score != 1.0 {
		t.Errorf("over-range sub-score: got %v, want 1.0", result.Factors[0].Score)
	}
	if result.Factors[1].Score != 0.0 {
		t.Errorf("under-range sub-score: got %v, want 0.0", result.Factors[1].Score)
	}
	if result.Score != 0.5 {
		t.Errorf("aggregate: got %v, want 0.5", result.Score)
	}
}

func TestScoreFloorProducesIssue(t *testing.T) {
	factors := []scoring.Factor[int]{
		{
			Name:   "quality",
			Weight: 1.0,
			Floor:  0.5,
			Warn:   0.8,
			Eval:   func(int) scoring.Sub { return scoring.Sub{Score: 0.3} },
		},
	}

	result, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if len(result.Issues) != 1 {
		t.Fatalf("issues: got %v, want one floor issue", result.Issues)
	}
	if !strings.Contains(result.Issues[0], "below floor") {
		t.Errorf("issue text: got %q", result.Issues[0])
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("suggestions: got %v, want none", result.Suggestions)
	}
}

func TestScoreWarnProducesSuggestion(t *testing.T) {
	factors := []scoring.Factor[int]{
		{
			Name:   "quality",
			Weight: 1.0,
			Floor:  0.5,
			Warn:   0.8,
			Eval:   func(int) scoring.Sub { return scoring.Sub{Score: 0.6} },
		},
	}

	result, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if len(result.Issues) != 0 {
		t.Errorf("issues: got %v, want none", result.Issues)
	}
	if len(result.Suggestions) != 1 {
		t.Fatalf("suggestions: got %v, want one warn suggestion", result.Suggestions)
	}
	if !strings.Contains(result.Suggestions[0], "below target") {
		t.Errorf("suggestion text: got %q", result.Suggestions[0])
	}
}

func TestScoreCarriesFactorIssues(t *testing.T) {
	factors := []scoring.Factor[string]{
		{
			Name:   "structure",
			Weight: 1.0,
			Eval: func(s string) scoring.Sub {
				return scoring.Sub{
					Score:       0.9,
					Issues:      []string{"missing title"},
					Suggestions: []string{"add a closing section"},
				}
			},
		},
	}

	result, err := scoring.Score("body", factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if len(result.Issues) != 1 || result.Issues[0] != "missing title" {
		t.Errorf("issues: got %v", result.Issues)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "add a closing section" {
		t.Errorf("suggestions: got %v", result.Suggestions)
	}
}

func TestScoreDeterministic(t *testing.T) {
	factors := []scoring.Factor[int]{
		constant("a", 0.3, 0.7),
		constant("b", 0.7, 0.4),
	}

	first, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	second, err := scoring.Score(0, factors)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if first.Score != second.Score {
		t.Errorf("scores differ: %v vs %v", first.Score, second.Score)
	}
}

func TestValidateWeights(t *testing.T) {
	valid := []scoring.Factor[int]{constant("a", 0.25, 1), constant("b", 0.75, 1)}
	if err := scoring.ValidateWeights(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := []scoring.Factor[int]{constant("a", 0.25, 1), constant("b", 0.5, 1)}
	if err := scoring.ValidateWeights(invalid); err == nil {
		t.Error("expected error for weights summing to 0.75")
	}
}
