package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/risk"
)

func ptr(f float64) *float64 { return &f }

func completed(id string, overall float64, ai *float64, matches ...models.MatchType) *models.AnalysisRecord {
	result := &models.DocumentResult{OverallScore: overall, AIScore: ai}
	for i, mt := range matches {
		result.Matches = append(result.Matches, models.Match{ChunkID: i, SourceID: "s", MatchType: mt})
	}
	r := &models.AnalysisRecord{ID: id, Filename: id}
	r.Complete(result)
	return r
}

func TestCompute_EmptyHistory(t *testing.T) {
	s := Compute(nil, DefaultOptions())
	if s.AvgOriginality != 0 || s.AvgAIScore != 0 {
		t.Errorf("averages = %v, %v", s.AvgOriginality, s.AvgAIScore)
	}
	if s.Risk != (risk.Counts{}) {
		t.Errorf("risk = %+v", s.Risk)
	}
	if s.MatchTypes != (MatchTally{}) {
		t.Errorf("match types = %+v", s.MatchTypes)
	}
	if s.OriginalityTrend == nil || len(s.OriginalityTrend) != 0 || len(s.AIScoreTrend) != 0 {
		t.Errorf("trends = %v, %v", s.OriginalityTrend, s.AIScoreTrend)
	}
	if math.IsNaN(s.RiskShare.Low) || math.IsNaN(s.MatchShare.Exact) {
		t.Error("shares must not be NaN")
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("empty summary must encode: %v", err)
	}
	var decoded struct {
		RiskShare  map[string]float64 `json:"risk_share"`
		MatchShare map[string]float64 `json:"match_share"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"low", "medium", "high"} {
		if v, ok := decoded.RiskShare[k]; !ok || v != 0 {
			t.Errorf("risk_share[%q] = %v, %v; want present and 0", k, v, ok)
		}
	}
	for _, k := range []string{"exact", "paraphrase", "semantic"} {
		if v, ok := decoded.MatchShare[k]; !ok || v != 0 {
			t.Errorf("match_share[%q] = %v, %v; want present and 0", k, v, ok)
		}
	}
	if len(decoded.RiskShare) != 3 || len(decoded.MatchShare) != 3 {
		t.Errorf("shares carry foreign keys: %v %v", decoded.RiskShare, decoded.MatchShare)
	}
}

func TestCompute_SingleRecord(t *testing.T) {
	s := Compute([]*models.AnalysisRecord{completed("essay.txt", 20, ptr(10))}, DefaultOptions())
	if s.AvgOriginality != 80 {
		t.Errorf("AvgOriginality = %v, want 80", s.AvgOriginality)
	}
	if s.AvgAIScore != 10 {
		t.Errorf("AvgAIScore = %v, want 10", s.AvgAIScore)
	}
	if s.Risk.Low != 1 || s.FlagsForReview != 0 {
		t.Errorf("risk = %+v", s.Risk)
	}
}

func TestCompute_IgnoresIncompleteRecords(t *testing.T) {
	failed := &models.AnalysisRecord{ID: "bad", Status: models.StatusError, Error: "boom"}
	noResult := &models.AnalysisRecord{ID: "odd", Status: models.StatusCompleted}
	history := []*models.AnalysisRecord{
		completed("a", 60, nil, models.MatchExact, models.MatchSemantic),
		failed,
		noResult,
		completed("b", 10, ptr(55), models.MatchExact, models.MatchParaphrase, models.MatchType("other")),
	}
	s := Compute(history, DefaultOptions())
	if s.TotalReports != 4 || s.CompletedReports != 2 {
		t.Errorf("totals = %d/%d", s.TotalReports, s.CompletedReports)
	}
	// originality 40 and 90 -> 65; AI 0 (absent) and 55 -> 27.5 -> 28
	if s.AvgOriginality != 65 || s.AvgAIScore != 28 {
		t.Errorf("averages = %v, %v", s.AvgOriginality, s.AvgAIScore)
	}
	if s.HumanShare != 72 {
		t.Errorf("HumanShare = %v", s.HumanShare)
	}
	if s.Risk.High != 1 || s.Risk.Low != 1 || s.Risk.Medium != 0 {
		t.Errorf("risk = %+v", s.Risk)
	}
	want := MatchTally{Exact: 2, Paraphrase: 1, Semantic: 1}
	if s.MatchTypes != want {
		t.Errorf("match types = %+v, want %+v", s.MatchTypes, want)
	}
	if s.RiskShare.High != 25 {
		t.Errorf("RiskShare.High = %v, want 25", s.RiskShare.High)
	}
	if s.MatchShare.Exact != 50 {
		t.Errorf("MatchShare.Exact = %v, want 50", s.MatchShare.Exact)
	}
}

func TestCompute_RiskBoundaries(t *testing.T) {
	history := []*models.AnalysisRecord{
		completed("a", 20, nil), // 80 -> low
		completed("b", 21, nil), // 79 -> medium
		completed("c", 50, nil), // 50 -> medium
		completed("d", 51, nil), // 49 -> high
	}
	s := Compute(history, DefaultOptions())
	if s.Risk.Low != 1 || s.Risk.Medium != 2 || s.Risk.High != 1 {
		t.Errorf("risk = %+v", s.Risk)
	}
	if s.FlagsForReview != 3 {
		t.Errorf("FlagsForReview = %d", s.FlagsForReview)
	}
}

func TestTrend_WindowAndOrder(t *testing.T) {
	var history []*models.AnalysisRecord
	// most recent first: record_9 ... record_0
	for i := 9; i >= 0; i-- {
		history = append(history, completed(fmt.Sprintf("record_%d.docx", i), float64(i), ptr(float64(i)+0.5)))
	}
	s := Compute(history, DefaultOptions())
	if len(s.OriginalityTrend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(s.OriginalityTrend))
	}
	// Window is the seven most recent (9..3), in chronological order 3..9.
	for i, p := range s.OriginalityTrend {
		n := 3 + i
		if p.Label != "record_"+fmt.Sprint(n) {
			t.Errorf("point %d label = %q", i, p.Label)
		}
		if p.Value != float64(100-n) {
			t.Errorf("point %d value = %v, want %d", i, p.Value, 100-n)
		}
		if s.AIScoreTrend[i].Value != float64(n+1) {
			t.Errorf("ai point %d = %v, want %d", i, s.AIScoreTrend[i].Value, n+1)
		}
	}
}

func TestTrend_ShortHistory(t *testing.T) {
	history := []*models.AnalysisRecord{completed("new", 10, nil), completed("old", 30, nil)}
	points := Trend(history, 7, 8, Originality)
	if len(points) != 2 || points[0].Label != "old" || points[1].Label != "new" {
		t.Errorf("points = %+v", points)
	}
}

func TestBuildDashboard(t *testing.T) {
	var history []*models.AnalysisRecord
	for i := 0; i < 7; i++ {
		history = append(history, completed(fmt.Sprintf("r%d", i), 30, nil))
	}
	history = append(history, &models.AnalysisRecord{ID: "pending", Status: models.StatusPending})
	d := BuildDashboard(history, DefaultOptions())
	if d.TotalSubmissions != 8 {
		t.Errorf("TotalSubmissions = %d", d.TotalSubmissions)
	}
	if len(d.Recent) != 5 || d.Recent[0].ID != "r0" {
		t.Errorf("recent = %+v", d.Recent)
	}
	if d.Recent[0].Originality != 70 || d.AvgOriginality != 70 {
		t.Errorf("originality = %v / %v", d.Recent[0].Originality, d.AvgOriginality)
	}
	if d.FlagsForReview != 7 {
		t.Errorf("FlagsForReview = %d", d.FlagsForReview)
	}

	empty := BuildDashboard(nil, Options{})
	if empty.TotalSubmissions != 0 || len(empty.Recent) != 0 || empty.AvgOriginality != 0 {
		t.Errorf("empty dashboard = %+v", empty)
	}
}
