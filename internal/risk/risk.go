// Package risk maps originality scores to low/medium/high risk buckets.
package risk

// Level is a risk bucket.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Thresholds are the originality cut points between buckets.
// Originality >= Low is low risk; Medium <= originality < Low is medium; below Medium is high.
type Thresholds struct {
	Low    float64 `json:"low" yaml:"low"`
	Medium float64 `json:"medium" yaml:"medium"`
}

// DefaultThresholds returns the standard 80/50 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 80, Medium: 50}
}

// Classify returns the risk level for originality. A value equal to a cut point
// belongs to the lower-risk bucket: exactly 80 is low and exactly 50 is medium.
func Classify(originality float64, th Thresholds) Level {
	switch {
	case originality >= th.Low:
		return Low
	case originality >= th.Medium:
		return Medium
	default:
		return High
	}
}

// Counts tallies records per risk level.
type Counts struct {
	Low    int `json:"low_risk_count"`
	Medium int `json:"medium_risk_count"`
	High   int `json:"high_risk_count"`
}

// Add increments the counter for level.
func (c *Counts) Add(level Level) {
	switch level {
	case Low:
		c.Low++
	case Medium:
		c.Medium++
	case High:
		c.High++
	}
}

// Flagged is the number of records that need reviewer attention (medium + high).
func (c Counts) Flagged() int {
	return c.Medium + c.High
}

// Total is the sum over all buckets.
func (c Counts) Total() int {
	return c.Low + c.Medium + c.High
}
