package services

import (
	"strings"
	"testing"
)

func TestSynthesizeFeedbackBuckets(t *testing.T) {
	cases := []struct {
		name           string
		overallScore   float64
		wantNarrative  string
		wantStrengths  int
		wantWeaknesses int
	}{
		{
			name:           "eighty_is_strong_tier",
			overallScore:   80,
			wantNarrative:  "Excellent",
			wantStrengths:  3,
			wantWeaknesses: 1,
		},
		{
			name:           "just_below_eighty_is_encouraging_tier",
			overallScore:   79.999,
			wantNarrative:  "Good effort",
			wantStrengths:  3,
			wantWeaknesses: 1,
		},
		{
			name:           "sixty_is_encouraging_tier",
			overallScore:   60,
			wantNarrative:  "Good effort",
			wantStrengths:  3,
			wantWeaknesses: 1,
		},
		{
			name:           "just_below_sixty_is_improvement_tier",
			overallScore:   59.999,
			wantNarrative:  "Keep practicing",
			wantStrengths:  2,
			wantWeaknesses: 3,
		},
		{
			name:           "zero_is_improvement_tier",
			overallScore:   0,
			wantNarrative:  "Keep practicing",
			wantStrengths:  2,
			wantWeaknesses: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := synthesizeFeedback(tc.overallScore)
			if !strings.HasPrefix(got.Narrative, tc.wantNarrative) {
				t.Fatalf("narrative %q, want prefix %q", got.Narrative, tc.wantNarrative)
			}
			if len(got.Strengths) != tc.wantStrengths {
				t.Fatalf("strengths=%d, want %d", len(got.Strengths), tc.wantStrengths)
			}
			if len(got.Weaknesses) != tc.wantWeaknesses {
				t.Fatalf("weaknesses=%d, want %d", len(got.Weaknesses), tc.wantWeaknesses)
			}
			if len(got.ImprovementTips) != 4 {
				t.Fatalf("improvement tips=%d, want fixed 4", len(got.ImprovementTips))
			}
		})
	}
}

// The tip list is the same in every bucket.
func TestSynthesizeFeedbackTipsAreFixed(t *testing.T) {
	low := synthesizeFeedback(10)
	mid := synthesizeFeedback(70)
	high := synthesizeFeedback(95)
	for i := range low.ImprovementTips {
		if low.ImprovementTips[i] != mid.ImprovementTips[i] || mid.ImprovementTips[i] != high.ImprovementTips[i] {
			t.Fatalf("improvement tips differ between buckets at index %d", i)
		}
	}
}
