package models

import "time"

// Status is the lifecycle state of an analysis record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// AnalysisRecord is one submission and, once completed, its detection result.
type AnalysisRecord struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Text      string          `json:"text"`
	Result    *DocumentResult `json:"result"`
	Matches   []Match         `json:"matches"`
	Timestamp time.Time       `json:"timestamp"`
	Status    Status          `json:"status"`
	Error     string          `json:"error,omitempty"`
}

// Completed reports whether the record finished successfully and carries a result.
func (a *AnalysisRecord) Completed() bool {
	return a != nil && a.Status == StatusCompleted && a.Result != nil
}

// Complete attaches result and marks the record completed. Matches is a copy of result.Matches.
func (a *AnalysisRecord) Complete(result *DocumentResult) {
	a.Result = result
	a.Matches = nil
	if result != nil {
		a.Matches = append([]Match(nil), result.Matches...)
	}
	if a.Matches == nil {
		a.Matches = []Match{}
	}
	a.Status = StatusCompleted
	a.Error = ""
}

// Fail marks the record as errored with msg.
func (a *AnalysisRecord) Fail(msg string) {
	a.Status = StatusError
	a.Error = msg
}
