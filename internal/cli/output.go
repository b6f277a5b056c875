// Package cli renders integrity reports for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hyperjump/integrity/internal/analytics"
	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/report"
	"github.com/hyperjump/integrity/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is indented JSON for other programs.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("invalid output format %q: want text or json", s)
}

const rule = "─────────────────────────────────────────────────────────"

// chunkPreviewLen bounds each chunk line in text output.
const chunkPreviewLen = 160

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteDocument writes the document view of one analysis.
func WriteDocument(w io.Writer, doc *report.Document, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, doc)
	}
	fmt.Fprintf(w, "\n%s\n", doc.Filename)
	fmt.Fprintf(w, "ID: %s | Analyzed %s\n", doc.ID, humanize.Time(doc.Timestamp))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Originality: %.0f%%  Risk: %s\n", doc.Originality, strings.ToUpper(string(doc.Risk)))
	fmt.Fprintf(w, "AI score:    %.0f%%  %s (human %.0f%%)\n", doc.AIScore, doc.AILabel, doc.HumanShare)
	fmt.Fprintf(w, "Sections:    %d matched | high %d  medium %d  low %d\n",
		doc.MatchedSections, doc.HighRiskCount, doc.MediumRiskCount, doc.LowRiskCount)
	fmt.Fprintln(w, rule)

	if len(doc.Chunks) == 0 && doc.Preview != "" {
		fmt.Fprintf(w, "\n%s\n", doc.Preview)
	}
	for _, c := range doc.Chunks {
		marker := "  "
		suffix := ""
		if c.Highlight.Matched {
			marker = "▌ "
			suffix = fmt.Sprintf(" [%d] %s", c.Highlight.DisplayID, c.Highlight.MatchType.Label())
		}
		fmt.Fprintf(w, "%s%s%s\n", marker, utils.Truncate(strings.TrimSpace(c.Text), chunkPreviewLen), suffix)
	}

	fmt.Fprintf(w, "\nSources (%d)\n", len(doc.Sources))
	if len(doc.Sources) == 0 {
		fmt.Fprintln(w, "  none found")
	}
	for _, s := range doc.Sources {
		fmt.Fprintf(w, "  [%d] %s  %s  %s\n", s.DisplayID, s.SourceID, s.Similarity, s.TypeLabel)
	}
	return nil
}

// WriteSourceDetail writes the side-by-side comparison for one source.
func WriteSourceDetail(w io.Writer, d *report.SourceDetail, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, d)
	}
	fmt.Fprintf(w, "\nSource [%d] %s (%s, %s)\n", d.Source.DisplayID, d.Source.SourceID, d.Source.TypeLabel, d.Source.Similarity)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Submitted:\n%s\n\n", d.SubmittedText)
	fmt.Fprintf(w, "Source:\n%s\n\n", d.Source.SourceText)
	fmt.Fprintf(w, "%s\n%s\n", d.Explanation, d.Note)
	return nil
}

// WriteAnalytics writes the portfolio summary.
func WriteAnalytics(w io.Writer, s *analytics.Summary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "\nReports: %s (%s completed)\n", humanize.Comma(int64(s.TotalReports)), humanize.Comma(int64(s.CompletedReports)))
	fmt.Fprintf(w, "Average originality: %.0f%%\n", s.AvgOriginality)
	fmt.Fprintf(w, "Average AI score:    %.0f%% (human %.0f%%)\n", s.AvgAIScore, s.HumanShare)
	fmt.Fprintf(w, "Flags for review:    %d\n", s.FlagsForReview)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Risk     low %d (%.0f%%)  medium %d (%.0f%%)  high %d (%.0f%%)\n",
		s.Risk.Low, s.RiskShare.Low, s.Risk.Medium, s.RiskShare.Medium, s.Risk.High, s.RiskShare.High)
	fmt.Fprintf(w, "Matches  exact %d  paraphrase %d  semantic %d\n",
		s.MatchTypes.Exact, s.MatchTypes.Paraphrase, s.MatchTypes.Semantic)
	if len(s.OriginalityTrend) > 0 {
		fmt.Fprintln(w, "\nOriginality trend")
		writeTrend(w, s.OriginalityTrend)
	}
	if len(s.AIScoreTrend) > 0 {
		fmt.Fprintln(w, "\nAI score trend")
		writeTrend(w, s.AIScoreTrend)
	}
	return nil
}

func writeTrend(w io.Writer, points []analytics.Point) {
	for _, p := range points {
		bar := strings.Repeat("█", max(0, int(p.Value/5)))
		fmt.Fprintf(w, "  %-8s %3.0f %s\n", p.Label, p.Value, bar)
	}
}

// WriteDashboard writes the landing summary.
func WriteDashboard(w io.Writer, d *analytics.Dashboard, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, d)
	}
	fmt.Fprintf(w, "\nSubmissions: %d | Avg originality: %.0f%% | Flags for review: %d\n",
		d.TotalSubmissions, d.AvgOriginality, d.FlagsForReview)
	if len(d.Recent) == 0 {
		fmt.Fprintln(w, "No recent activity.")
		return nil
	}
	fmt.Fprintln(w, rule)
	for _, r := range d.Recent {
		fmt.Fprintf(w, "%-40s %-10s %3.0f%%  %s\n", utils.Truncate(r.Filename, 37), r.Status, r.Originality, humanize.Time(r.Timestamp))
	}
	return nil
}

// WriteHistory writes a list of analysis records, most recent first.
func WriteHistory(w io.Writer, recs []*models.AnalysisRecord, format OutputFormat) error {
	if format == OutputJSON {
		if recs == nil {
			recs = []*models.AnalysisRecord{}
		}
		return writeJSON(w, recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No analyses yet.")
		return nil
	}
	for _, r := range recs {
		originality := "-"
		if r.Result != nil {
			originality = fmt.Sprintf("%.0f%%", utils.Round(r.Result.Originality()))
		}
		fmt.Fprintf(w, "%s  %-32s %-10s %5s  %s\n", r.ID, utils.Truncate(r.Filename, 29), r.Status, originality, r.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// WriteHealth writes the detection service probe result.
func WriteHealth(w io.Writer, h *models.HealthResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, h)
	}
	fmt.Fprintf(w, "Status: %s (version %s)\nModel loaded: %t\nIndex ready: %t\n", h.Status, h.Version, h.ModelLoaded, h.IndexReady)
	return nil
}

// WriteStats writes the detection service corpus statistics.
func WriteStats(w io.Writer, s *models.StatsResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "Reference documents: %s\nIndexed chunks: %s\n",
		humanize.Comma(int64(s.Stats.TotalDocuments)), humanize.Comma(int64(s.Stats.IndexSize)))
	return nil
}
