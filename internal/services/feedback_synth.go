package services

// feedbackContent is the synthesized qualitative feedback for one completed
// session, derived from its overall score alone.
type feedbackContent struct {
	Narrative       string
	Strengths       []string
	Weaknesses      []string
	ImprovementTips []string
}

var improvementTips = []string{
	"Practice more coding problems",
	"Work on explaining your thought process out loud",
	"Review core data structures and algorithms",
	"Schedule regular mock interviews",
}

// synthesizeFeedback buckets the overall score into one of three tiers.
// Bucket bounds are inclusive on the lower edge (80 is the strong tier,
// 60 is the encouraging tier).
func synthesizeFeedback(overallScore float64) feedbackContent {
	switch {
	case overallScore >= 80:
		return feedbackContent{
			Narrative: "Excellent performance! You demonstrated strong technical knowledge and communicated your reasoning clearly throughout the session.",
			Strengths: []string{
				"Clear communication",
				"Good problem-solving approach",
				"Technical knowledge",
			},
			Weaknesses: []string{
				"Minor optimization opportunities",
			},
			ImprovementTips: improvementTips,
		}
	case overallScore >= 60:
		return feedbackContent{
			Narrative: "Good effort! You showed solid understanding in most areas. Keep practicing to sharpen the details and build consistency.",
			Strengths: []string{
				"Clear communication",
				"Good problem-solving approach",
				"Technical knowledge",
			},
			Weaknesses: []string{
				"Minor optimization opportunities",
			},
			ImprovementTips: improvementTips,
		}
	default:
		return feedbackContent{
			Narrative: "Keep practicing! Focus on strengthening your fundamentals and work through more problems to build speed and confidence.",
			Strengths: []string{
				"Willingness to learn",
				"Basic understanding",
			},
			Weaknesses: []string{
				"Technical depth",
				"Problem-solving speed",
				"Code optimization",
			},
			ImprovementTips: improvementTips,
		}
	}
}
