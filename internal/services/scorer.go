package services

import "strings"

// correctThreshold is the similarity a response must strictly exceed to be
// marked correct.
const correctThreshold = 0.6

// ScoreAnswer scores a free-text answer against a reference answer using
// token-set overlap (Jaccard similarity on words longer than 2 characters,
// case-insensitive). The result is invariant to word order and repetition.
//
// This is a deterministic placeholder, not a grading engine; its exact
// arithmetic is load-bearing for historical score compatibility.
func ScoreAnswer(userAnswer, expectedAnswer *string) (float64, bool) {
	if userAnswer == nil || expectedAnswer == nil {
		return 0, false
	}
	userTokens := tokenSet(*userAnswer)
	expectedTokens := tokenSet(*expectedAnswer)

	intersection := 0
	for tok := range userTokens {
		if _, ok := expectedTokens[tok]; ok {
			intersection++
		}
	}
	union := len(userTokens) + len(expectedTokens) - intersection
	if union == 0 {
		return 0, false
	}
	similarity := float64(intersection) / float64(union)
	return similarity * 100, similarity > correctThreshold
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if len(tok) <= 2 {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}
