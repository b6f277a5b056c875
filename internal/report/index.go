// Package report turns raw detection matches into per-chunk highlight decisions,
// a deduplicated source list, and a reviewer-facing document view.
package report

import "github.com/hyperjump/integrity/internal/models"

// IndexByChunk groups matches by chunk id. Each slice keeps the relative order of matches;
// no match is dropped. A chunk id absent from the map has no matches.
func IndexByChunk(matches []models.Match) map[int][]models.Match {
	byChunk := make(map[int][]models.Match)
	for _, m := range matches {
		byChunk[m.ChunkID] = append(byChunk[m.ChunkID], m)
	}
	return byChunk
}

// SelectBest returns the match with the highest similarity score. Ties go to the
// earliest match in the slice. ok is false for an empty slice.
func SelectBest(matches []models.Match) (best models.Match, ok bool) {
	if len(matches) == 0 {
		return models.Match{}, false
	}
	best = matches[0]
	for _, m := range matches[1:] {
		if m.SimilarityScore > best.SimilarityScore {
			best = m
		}
	}
	return best, true
}
