// Package analytics computes portfolio-wide averages, risk distribution, match-type
// tallies, and trend series over a session's archived analyses.
package analytics

import (
	"time"

	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/risk"
	"github.com/hyperjump/integrity/pkg/utils"
)

const (
	DefaultTrendWindow   = 7
	DefaultTrendLabelLen = 8
	DefaultRecentLimit   = 5
)

// Options control aggregation.
type Options struct {
	Risk          risk.Thresholds
	TrendWindow   int
	TrendLabelLen int
	RecentLimit   int
}

// DefaultOptions returns the standard aggregation settings.
func DefaultOptions() Options {
	return Options{
		Risk:          risk.DefaultThresholds(),
		TrendWindow:   DefaultTrendWindow,
		TrendLabelLen: DefaultTrendLabelLen,
		RecentLimit:   DefaultRecentLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.Risk == (risk.Thresholds{}) {
		o.Risk = risk.DefaultThresholds()
	}
	if o.TrendWindow <= 0 {
		o.TrendWindow = DefaultTrendWindow
	}
	if o.TrendLabelLen <= 0 {
		o.TrendLabelLen = DefaultTrendLabelLen
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	return o
}

// Point is one bar in a trend chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MatchTally counts matches by type.
type MatchTally struct {
	Exact      int `json:"exact"`
	Paraphrase int `json:"paraphrase"`
	Semantic   int `json:"semantic"`
}

// Total is the sum over all match types.
func (m MatchTally) Total() int {
	return m.Exact + m.Paraphrase + m.Semantic
}

// RiskShare is the percentage of reports in each risk level.
type RiskShare struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// MatchShare is the percentage of matches of each type.
type MatchShare struct {
	Exact      float64 `json:"exact"`
	Paraphrase float64 `json:"paraphrase"`
	Semantic   float64 `json:"semantic"`
}

// Summary is the analytics view of a history.
type Summary struct {
	TotalReports     int         `json:"total_reports"`
	CompletedReports int         `json:"completed_reports"`
	AvgOriginality   float64     `json:"avg_originality"`
	AvgAIScore       float64     `json:"avg_ai_score"`
	HumanShare       float64     `json:"human_share"`
	Risk             risk.Counts `json:"risk"`
	FlagsForReview   int         `json:"flags_for_review"`
	RiskShare        RiskShare   `json:"risk_share"`
	MatchTypes       MatchTally  `json:"match_types"`
	MatchShare       MatchShare  `json:"match_share"`
	OriginalityTrend []Point     `json:"originality_trend"`
	AIScoreTrend     []Point     `json:"ai_score_trend"`
}

// Completed filters history to records that finished with a result, keeping order.
func Completed(history []*models.AnalysisRecord) []*models.AnalysisRecord {
	out := make([]*models.AnalysisRecord, 0, len(history))
	for _, r := range history {
		if r.Completed() {
			out = append(out, r)
		}
	}
	return out
}

// Originality extracts a record's originality score.
func Originality(r *models.AnalysisRecord) float64 {
	return r.Result.Originality()
}

// AIScore extracts a record's AI score, 0 when absent.
func AIScore(r *models.AnalysisRecord) float64 {
	return r.Result.AIScoreValue()
}

// Compute aggregates history (most recent first). Only completed records contribute
// to averages, risk counts, tallies, and trends; TotalReports counts every record.
// An empty history yields a zeroed summary with empty trend series.
func Compute(history []*models.AnalysisRecord, opts Options) *Summary {
	opts = opts.withDefaults()
	completed := Completed(history)

	originality := make([]float64, 0, len(completed))
	aiScores := make([]float64, 0, len(completed))
	s := &Summary{
		TotalReports:     len(history),
		CompletedReports: len(completed),
	}
	for _, r := range completed {
		o := Originality(r)
		originality = append(originality, o)
		aiScores = append(aiScores, AIScore(r))
		s.Risk.Add(risk.Classify(o, opts.Risk))
		for _, m := range r.Matches {
			switch m.MatchType {
			case models.MatchExact:
				s.MatchTypes.Exact++
			case models.MatchParaphrase:
				s.MatchTypes.Paraphrase++
			case models.MatchSemantic:
				s.MatchTypes.Semantic++
			}
		}
	}
	s.AvgOriginality = utils.Round(utils.Mean(originality))
	s.AvgAIScore = utils.Round(utils.Mean(aiScores))
	s.HumanShare = 100 - s.AvgAIScore
	s.FlagsForReview = s.Risk.Flagged()
	s.RiskShare = RiskShare{
		Low:    utils.Percent(s.Risk.Low, s.TotalReports),
		Medium: utils.Percent(s.Risk.Medium, s.TotalReports),
		High:   utils.Percent(s.Risk.High, s.TotalReports),
	}
	total := s.MatchTypes.Total()
	s.MatchShare = MatchShare{
		Exact:      utils.Percent(s.MatchTypes.Exact, total),
		Paraphrase: utils.Percent(s.MatchTypes.Paraphrase, total),
		Semantic:   utils.Percent(s.MatchTypes.Semantic, total),
	}
	s.OriginalityTrend = Trend(completed, opts.TrendWindow, opts.TrendLabelLen, Originality)
	s.AIScoreTrend = Trend(completed, opts.TrendWindow, opts.TrendLabelLen, AIScore)
	return s
}

// Trend takes the first window records of completed (most recent first), reverses them
// into chronological order, and maps each to a rounded point labelled by filename prefix.
func Trend(completed []*models.AnalysisRecord, window, labelLen int, field func(*models.AnalysisRecord) float64) []Point {
	n := len(completed)
	if window < n {
		n = window
	}
	if n < 0 {
		n = 0
	}
	points := make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		r := completed[i]
		points = append(points, Point{
			Label: utils.Prefix(r.Filename, labelLen),
			Value: utils.Round(field(r)),
		})
	}
	return points
}

// RecentItem is one row of the dashboard's recent activity list.
type RecentItem struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	Timestamp   time.Time     `json:"timestamp"`
	Status      models.Status `json:"status"`
	Originality float64       `json:"originality"`
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalSubmissions int          `json:"total_submissions"`
	AvgOriginality   float64      `json:"avg_originality"`
	FlagsForReview   int          `json:"flags_for_review"`
	Recent           []RecentItem `json:"recent"`
}

// BuildDashboard summarizes history for the landing page.
func BuildDashboard(history []*models.AnalysisRecord, opts Options) *Dashboard {
	opts = opts.withDefaults()
	s := Compute(history, opts)
	d := &Dashboard{
		TotalSubmissions: s.TotalReports,
		AvgOriginality:   s.AvgOriginality,
		FlagsForReview:   s.FlagsForReview,
		Recent:           make([]RecentItem, 0, opts.RecentLimit),
	}
	for i, r := range history {
		if i >= opts.RecentLimit {
			break
		}
		item := RecentItem{ID: r.ID, Filename: r.Filename, Timestamp: r.Timestamp, Status: r.Status}
		if r.Result != nil {
			item.Originality = utils.Round(r.Result.Originality())
		}
		d.Recent = append(d.Recent, item)
	}
	return d
}
