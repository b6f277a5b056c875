package report

// AIVerdict is the reviewer-facing reading of an AI-origin score.
type AIVerdict string

const (
	LikelyHuman  AIVerdict = "likely_human"
	MixedContent AIVerdict = "mixed"
	LikelyAI     AIVerdict = "likely_ai"
)

// ClassifyAI maps a 0-100 AI score to a verdict: below 20 likely human, below 50 mixed, otherwise likely AI.
func ClassifyAI(score float64) AIVerdict {
	switch {
	case score < 20:
		return LikelyHuman
	case score < 50:
		return MixedContent
	default:
		return LikelyAI
	}
}

// Label returns the display text for the verdict.
func (v AIVerdict) Label() string {
	switch v {
	case LikelyHuman:
		return "Likely Human Written"
	case MixedContent:
		return "Mixed Content"
	default:
		return "Likely AI Generated"
	}
}
