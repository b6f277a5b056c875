// Package models defines core data structures for detection results, matches, and analysis records.
package models

// MatchType classifies how a chunk resembles its source.
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchParaphrase MatchType = "paraphrase"
	MatchSemantic   MatchType = "semantic"
)

// Valid reports whether t is one of the known match types.
func (t MatchType) Valid() bool {
	switch t {
	case MatchExact, MatchParaphrase, MatchSemantic:
		return true
	}
	return false
}

// Label returns the reviewer-facing name of the match type.
func (t MatchType) Label() string {
	switch t {
	case MatchExact:
		return "Exact Match"
	case MatchParaphrase:
		return "Paraphrase"
	default:
		return "Semantic"
	}
}

// Explanation describes why a chunk with this match type was flagged.
func (t MatchType) Explanation() string {
	switch t {
	case MatchExact:
		return "near-identical wording"
	case MatchParaphrase:
		return "paraphrased content with similar meaning"
	default:
		return "semantic similarity in concepts"
	}
}

// TextChunk is a contiguous span of the submitted document as segmented by the detection service.
type TextChunk struct {
	ChunkID  int    `json:"chunk_id"`
	Text     string `json:"text"`
	StartPos int    `json:"start_pos"`
	EndPos   int    `json:"end_pos"`
}

// Match claims that a chunk resembles a source passage.
type Match struct {
	ChunkID         int       `json:"chunk_id"`
	SourceID        string    `json:"source_id"`
	SimilarityScore float64   `json:"similarity_score"`
	SourceText      string    `json:"source_text"`
	MatchType       MatchType `json:"match_type"`
}

// DocumentResult is the detection outcome for one document.
type DocumentResult struct {
	OverallScore    float64     `json:"overall_score"`
	AIScore         *float64    `json:"ai_score"`
	Chunks          []TextChunk `json:"chunks"`
	Matches         []Match     `json:"matches"`
	HighRiskCount   int         `json:"high_risk_count"`
	MediumRiskCount int         `json:"medium_risk_count"`
	LowRiskCount    int         `json:"low_risk_count"`
	ProcessingTime  float64     `json:"processing_time"`
	Timestamp       string      `json:"timestamp"`
}

// Originality is the complement of the overall similarity exposure.
func (r *DocumentResult) Originality() float64 {
	return 100 - r.OverallScore
}

// AIScoreValue returns the AI-origin score, or 0 when the service did not report one.
func (r *DocumentResult) AIScoreValue() float64 {
	if r == nil || r.AIScore == nil {
		return 0
	}
	return *r.AIScore
}

// Chunk returns the chunk with the given id.
func (r *DocumentResult) Chunk(id int) (TextChunk, bool) {
	for _, c := range r.Chunks {
		if c.ChunkID == id {
			return c, true
		}
	}
	return TextChunk{}, false
}
