package report

import (
	"errors"
	"strconv"
	"time"

	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/risk"
	"github.com/hyperjump/integrity/pkg/utils"
)

// ErrNoResult is returned when a record has no detection result to render.
var ErrNoResult = errors.New("analysis has no result")

const (
	defaultPreviewChars = 2000
	chunkNotFoundText   = "Text chunk not found"
	reviewerNote        = "This analysis is AI-assisted. Final judgment remains with the reviewer."
)

// Options control how a document view is built.
type Options struct {
	HighlightThreshold float64
	Risk               risk.Thresholds
	// PreviewChars bounds the raw-text preview shown when the result has no chunks.
	PreviewChars int
}

// DefaultOptions returns the standard presentation settings.
func DefaultOptions() Options {
	return Options{
		HighlightThreshold: DefaultHighlightThreshold,
		Risk:               risk.DefaultThresholds(),
		PreviewChars:       defaultPreviewChars,
	}
}

// ChunkView is one rendered chunk with its highlight decision.
type ChunkView struct {
	models.TextChunk
	Highlight Decision `json:"highlight"`
}

// SourceView is one entry in the document's source list.
type SourceView struct {
	Source
	Similarity string `json:"similarity"`
	TypeLabel  string `json:"type_label"`
}

// Document is the reviewer view of a single completed analysis.
type Document struct {
	ID              string                 `json:"id"`
	Filename        string                 `json:"filename"`
	Timestamp       time.Time              `json:"timestamp"`
	Originality     float64                `json:"originality"`
	AIScore         float64                `json:"ai_score"`
	HumanShare      float64                `json:"human_share"`
	Risk            risk.Level             `json:"risk"`
	AIVerdict       AIVerdict              `json:"ai_verdict"`
	AILabel         string                 `json:"ai_label"`
	HighRiskCount   int                    `json:"high_risk_count"`
	MediumRiskCount int                    `json:"medium_risk_count"`
	LowRiskCount    int                    `json:"low_risk_count"`
	MatchedSections int                    `json:"matched_sections"`
	Chunks          []ChunkView            `json:"chunks"`
	Sources         []SourceView           `json:"sources"`
	Preview         string                 `json:"preview,omitempty"`
	Result          *models.DocumentResult `json:"-"`

	highlighter *Highlighter
}

// SourceDetail is the side-by-side comparison for one cited source.
type SourceDetail struct {
	Source        SourceView `json:"source"`
	SubmittedText string     `json:"submitted_text"`
	Explanation   string     `json:"explanation"`
	Note          string     `json:"note"`
}

// BuildDocument renders rec. The chunk index and the source registry are both built from
// rec.Matches, so a chunk's display id always resolves in the returned source list.
// Matches referencing a chunk id absent from the result are kept in the source list but
// never rendered as a chunk.
func BuildDocument(rec *models.AnalysisRecord, opts Options) (*Document, error) {
	if rec == nil || rec.Result == nil {
		return nil, ErrNoResult
	}
	result := rec.Result
	h := NewHighlighter(rec.Matches, opts.HighlightThreshold)
	originality := result.Originality()
	aiScore := result.AIScoreValue()
	verdict := ClassifyAI(aiScore)

	doc := &Document{
		ID:              rec.ID,
		Filename:        rec.Filename,
		Timestamp:       rec.Timestamp,
		Originality:     utils.Round(originality),
		AIScore:         utils.Round(aiScore),
		HumanShare:      utils.Round(100 - aiScore),
		Risk:            risk.Classify(originality, opts.Risk),
		AIVerdict:       verdict,
		AILabel:         verdict.Label(),
		HighRiskCount:   result.HighRiskCount,
		MediumRiskCount: result.MediumRiskCount,
		LowRiskCount:    result.LowRiskCount,
		MatchedSections: len(rec.Matches),
		Chunks:          make([]ChunkView, 0, len(result.Chunks)),
		Result:          result,
		highlighter:     h,
	}
	for _, c := range result.Chunks {
		doc.Chunks = append(doc.Chunks, ChunkView{TextChunk: c, Highlight: h.Highlight(c.ChunkID)})
	}
	doc.Sources = make([]SourceView, 0, h.Sources().Len())
	for _, s := range h.Sources().Sources() {
		doc.Sources = append(doc.Sources, newSourceView(s))
	}
	if len(result.Chunks) == 0 {
		doc.Preview = preview(rec.Text, opts.PreviewChars)
	}
	return doc, nil
}

// Source returns the side-by-side detail for displayID.
func (d *Document) Source(displayID int) (*SourceDetail, bool) {
	s, ok := d.highlighter.Sources().ByDisplayID(displayID)
	if !ok {
		return nil, false
	}
	submitted := chunkNotFoundText
	if c, found := d.Result.Chunk(s.ChunkID); found {
		submitted = c.Text
	}
	return &SourceDetail{
		Source:        newSourceView(s),
		SubmittedText: submitted,
		Explanation:   "This section was flagged because it shows " + s.MatchType.Explanation() + " to the source material.",
		Note:          reviewerNote,
	}, true
}

// Original reports whether no sources were cited at all.
func (d *Document) Original() bool {
	return len(d.Sources) == 0
}

func newSourceView(s Source) SourceView {
	return SourceView{
		Source:     s,
		Similarity: formatPercent(s.SimilarityScore),
		TypeLabel:  s.MatchType.Label(),
	}
}

func formatPercent(score float64) string {
	return strconv.Itoa(int(utils.Round(score*100))) + "%"
}

func preview(text string, n int) string {
	if n <= 0 {
		n = defaultPreviewChars
	}
	return utils.Truncate(text, n)
}
