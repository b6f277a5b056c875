package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/risk"
)

func ptr(f float64) *float64 { return &f }

func sampleRecord() *models.AnalysisRecord {
	result := &models.DocumentResult{
		OverallScore: 20,
		AIScore:      ptr(10.4),
		Chunks: []models.TextChunk{
			{ChunkID: 0, Text: "An original opening sentence."},
			{ChunkID: 1, Text: "A copied line from somewhere."},
			{ChunkID: 2, Text: "A weakly similar line."},
		},
		Matches: []models.Match{
			{ChunkID: 1, SourceID: "wiki/Plagiarism", SimilarityScore: 0.934, SourceText: "copied line", MatchType: models.MatchExact},
			{ChunkID: 2, SourceID: "journal/42", SimilarityScore: 0.31, MatchType: models.MatchSemantic},
			{ChunkID: 9, SourceID: "orphan", SimilarityScore: 0.88, MatchType: models.MatchParaphrase},
		},
		HighRiskCount:   1,
		MediumRiskCount: 1,
		LowRiskCount:    1,
	}
	rec := &models.AnalysisRecord{ID: "analysis_1", Filename: "essay.txt", Text: "full text"}
	rec.Complete(result)
	return rec
}

func TestBuildDocument(t *testing.T) {
	doc, err := BuildDocument(sampleRecord(), DefaultOptions())
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.Originality != 80 || doc.Risk != risk.Low {
		t.Errorf("originality %v risk %s, want 80 low", doc.Originality, doc.Risk)
	}
	if doc.AIScore != 10 || doc.AIVerdict != LikelyHuman {
		t.Errorf("ai score %v verdict %s", doc.AIScore, doc.AIVerdict)
	}
	if doc.HumanShare != 90 {
		t.Errorf("human share = %v, want 90", doc.HumanShare)
	}
	if doc.HighRiskCount != 1 || doc.MediumRiskCount != 1 || doc.LowRiskCount != 1 {
		t.Errorf("risk counts = %d/%d/%d, want 1/1/1", doc.HighRiskCount, doc.MediumRiskCount, doc.LowRiskCount)
	}
	if doc.MatchedSections != 3 {
		t.Errorf("matched sections = %d, want 3", doc.MatchedSections)
	}
	if len(doc.Chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(doc.Chunks))
	}
	if doc.Chunks[0].Highlight.Matched {
		t.Error("chunk 0 has no matches")
	}
	if !doc.Chunks[1].Highlight.Matched || doc.Chunks[1].Highlight.DisplayID != 1 {
		t.Errorf("chunk 1 = %+v", doc.Chunks[1].Highlight)
	}
	if doc.Chunks[2].Highlight.Matched {
		t.Error("chunk 2 best match is below threshold")
	}
	if len(doc.Sources) != 3 {
		t.Fatalf("sources = %d, want 3 (orphan chunk ids still list their source)", len(doc.Sources))
	}
	if doc.Sources[0].Similarity != "93%" || doc.Sources[0].TypeLabel != "Exact Match" {
		t.Errorf("source 0 = %+v", doc.Sources[0])
	}
	if doc.Preview != "" {
		t.Error("preview is only set when there are no chunks")
	}
	if doc.Original() {
		t.Error("document with sources is not original")
	}
}

func TestDocument_Source(t *testing.T) {
	doc, err := BuildDocument(sampleRecord(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	detail, ok := doc.Source(1)
	if !ok {
		t.Fatal("Source(1) missing")
	}
	if detail.SubmittedText != "A copied line from somewhere." {
		t.Errorf("submitted = %q", detail.SubmittedText)
	}
	if !strings.Contains(detail.Explanation, "near-identical wording") {
		t.Errorf("explanation = %q", detail.Explanation)
	}
	orphan, ok := doc.Source(3)
	if !ok || orphan.SubmittedText != chunkNotFoundText {
		t.Errorf("orphan detail = %+v", orphan)
	}
	if _, ok := doc.Source(4); ok {
		t.Error("Source(4) should miss")
	}
}

func TestBuildDocument_PreviewWithoutChunks(t *testing.T) {
	rec := &models.AnalysisRecord{ID: "x", Text: strings.Repeat("a", 2500)}
	rec.Complete(&models.DocumentResult{OverallScore: 0})
	doc, err := BuildDocument(rec, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Preview) != 2003 || !strings.HasSuffix(doc.Preview, "...") {
		t.Errorf("preview length %d", len(doc.Preview))
	}
	if !doc.Original() || doc.AIScore != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestBuildDocument_NoResult(t *testing.T) {
	if _, err := BuildDocument(nil, DefaultOptions()); !errors.Is(err, ErrNoResult) {
		t.Errorf("nil record: err = %v", err)
	}
	pending := &models.AnalysisRecord{ID: "p", Status: models.StatusPending}
	if _, err := BuildDocument(pending, DefaultOptions()); !errors.Is(err, ErrNoResult) {
		t.Errorf("pending record: err = %v", err)
	}
}
