package services

// aggregateResult carries the four derived per-session score axes.
type aggregateResult struct {
	Overall       float64
	Technical     float64
	Confidence    float64
	Communication float64
}

// aggregateScores derives the session-level composite scores from the
// per-response scores. The technical/confidence/communication offsets are
// placeholder heuristics carried over verbatim; do not rebalance them
// without a product decision.
func aggregateScores(scores []float64) aggregateResult {
	if len(scores) == 0 {
		return aggregateResult{}
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	overall := sum / float64(len(scores))
	return aggregateResult{
		Overall:       overall,
		Technical:     overall,
		Confidence:    capScore(overall + 10),
		Communication: capScore(overall + 5),
	}
}

func capScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
