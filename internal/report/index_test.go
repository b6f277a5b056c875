package report

import (
	"reflect"
	"testing"

	"github.com/hyperjump/integrity/internal/models"
)

func m(chunk int, source string, score float64, mt models.MatchType) models.Match {
	return models.Match{ChunkID: chunk, SourceID: source, SimilarityScore: score, MatchType: mt}
}

func TestIndexByChunk_PreservesOrderAndDropsNothing(t *testing.T) {
	matches := []models.Match{
		m(1, "A", 0.4, models.MatchExact),
		m(2, "B", 0.9, models.MatchParaphrase),
		m(1, "C", 0.7, models.MatchSemantic),
		m(3, "A", 0.2, models.MatchExact),
		m(1, "D", 0.1, models.MatchExact),
	}
	byChunk := IndexByChunk(matches)

	total := 0
	for _, ms := range byChunk {
		total += len(ms)
	}
	if total != len(matches) {
		t.Fatalf("indexed %d matches, want %d", total, len(matches))
	}
	want := []models.Match{matches[0], matches[2], matches[4]}
	if !reflect.DeepEqual(byChunk[1], want) {
		t.Errorf("chunk 1 = %+v, want %+v", byChunk[1], want)
	}
	if len(byChunk[2]) != 1 || byChunk[2][0].SourceID != "B" {
		t.Errorf("chunk 2 = %+v", byChunk[2])
	}
	if _, ok := byChunk[42]; ok {
		t.Error("chunk without matches should be absent")
	}
}

func TestIndexByChunk_Empty(t *testing.T) {
	if got := IndexByChunk(nil); len(got) != 0 {
		t.Errorf("IndexByChunk(nil) = %v", got)
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		matches    []models.Match
		wantOK     bool
		wantSource string
	}{
		{"empty", nil, false, ""},
		{"single", []models.Match{m(1, "A", 0.3, models.MatchExact)}, true, "A"},
		{"max wins", []models.Match{
			m(1, "A", 0.4, models.MatchExact),
			m(1, "B", 0.9, models.MatchExact),
			m(1, "C", 0.6, models.MatchExact),
		}, true, "B"},
		{"tie goes to first", []models.Match{
			m(1, "first", 0.9, models.MatchExact),
			m(1, "second", 0.9, models.MatchParaphrase),
		}, true, "first"},
		{"later tie after max keeps earlier", []models.Match{
			m(1, "A", 0.2, models.MatchExact),
			m(1, "B", 0.8, models.MatchExact),
			m(1, "C", 0.8, models.MatchExact),
		}, true, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := SelectBest(tt.matches)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && best.SourceID != tt.wantSource {
				t.Errorf("best = %q, want %q", best.SourceID, tt.wantSource)
			}
		})
	}
}
