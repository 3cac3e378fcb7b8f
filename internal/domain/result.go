package domain

import "strconv"

// ScoreResult is the output of the scoring engine
type ScoreResult struct {
	Score     int         `json:"score"`
	RawPoints float64     `json:"raw_points"`
	Breakdown []ScoreTerm `json:"breakdown,omitempty"`
}

// ScoreTerm is a single contribution to the raw point total
type ScoreTerm struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// GradeResult is the output of the grade classifier
type GradeResult struct {
	Grade  int    `json:"grade"`
	Suffix string `json:"suffix"`
	Text   string `json:"text"`
}

// Label returns the combined grade label, e.g. "3a"
func (g GradeResult) Label() string {
	return strconv.Itoa(g.Grade) + g.Suffix
}

// DurationEstimate is a return-to-play window in days
type DurationEstimate struct {
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"`
	Text    string `json:"text"`
}

// Assessment holds the derived outputs without the input echo.
// It is the unit stored by result caches.
type Assessment struct {
	Score     int              `json:"score"`
	RawPoints float64          `json:"raw_points"`
	Grade     string           `json:"grade"`
	GradeText string           `json:"grade_text"`
	Duration  DurationEstimate `json:"duration_estimate"`
}

// DerivedResult is the complete response for one intake evaluation
type DerivedResult struct {
	Score     int              `json:"score"`
	RawPoints float64          `json:"raw_points"`
	Grade     string           `json:"grade"`
	GradeText string           `json:"grade_text"`
	Duration  DurationEstimate `json:"duration_estimate"`
	Input     IntakeRecord     `json:"input"`
}

// Assessment strips the input echo from the result
func (r DerivedResult) Assessment() Assessment {
	return Assessment{
		Score:     r.Score,
		RawPoints: r.RawPoints,
		Grade:     r.Grade,
		GradeText: r.GradeText,
		Duration:  r.Duration,
	}
}

// WithInput attaches an intake record echo to a cached assessment
func (a Assessment) WithInput(record IntakeRecord) DerivedResult {
	return DerivedResult{
		Score:     a.Score,
		RawPoints: a.RawPoints,
		Grade:     a.Grade,
		GradeText: a.GradeText,
		Duration:  a.Duration,
		Input:     record,
	}
}
