package report

import "github.com/hyperjump/integrity/internal/models"

// DefaultHighlightThreshold is the minimum best-match score for a chunk to be highlighted.
// It is a presentation cut, separate from the detection service's own risk thresholds.
const DefaultHighlightThreshold = 0.5

// Decision is the highlight outcome for one chunk.
type Decision struct {
	ChunkID   int              `json:"chunk_id"`
	Matched   bool             `json:"matched"`
	MatchType models.MatchType `json:"match_type,omitempty"`
	DisplayID int              `json:"display_id,omitempty"`
	Score     float64          `json:"score,omitempty"`
	// MatchCount is the number of raw matches on the chunk, including below-threshold ones.
	MatchCount int `json:"match_count"`
}

// Highlighter decides, per chunk, whether to highlight it and which source to cite.
type Highlighter struct {
	threshold float64
	byChunk   map[int][]models.Match
	sources   *SourceRegistry
}

// NewHighlighter indexes matches and builds the source registry they resolve against.
func NewHighlighter(matches []models.Match, threshold float64) *Highlighter {
	return &Highlighter{
		threshold: threshold,
		byChunk:   IndexByChunk(matches),
		sources:   NewSourceRegistry(matches),
	}
}

// Sources returns the registry used to resolve display ids.
func (h *Highlighter) Sources() *SourceRegistry {
	return h.sources
}

// Matches returns the matches recorded for chunkID in original order.
func (h *Highlighter) Matches(chunkID int) []models.Match {
	return h.byChunk[chunkID]
}

// Highlight returns the decision for chunkID. A chunk is matched when its best match
// scores at or above the threshold; otherwise it is unmatched even if matches exist.
func (h *Highlighter) Highlight(chunkID int) Decision {
	matches := h.byChunk[chunkID]
	d := Decision{ChunkID: chunkID, MatchCount: len(matches)}
	best, ok := SelectBest(matches)
	if !ok || best.SimilarityScore < h.threshold {
		return d
	}
	d.Matched = true
	d.MatchType = best.MatchType
	d.Score = best.SimilarityScore
	d.DisplayID, _ = h.sources.DisplayID(best.SourceID)
	return d
}
