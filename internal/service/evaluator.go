package service

import (
	"github.com/bamic-rtp-server/internal/domain"
)

// Evaluate scores, grades and estimates return to play for a single intake
// record. It is pure and safe for concurrent use.
func Evaluate(record domain.IntakeRecord) domain.DerivedResult {
	score := ScoreIntake(record)
	grade := ClassifyGrade(record)
	duration := EstimateReturnToPlay(score.Score)

	return domain.DerivedResult{
		Score:     score.Score,
		RawPoints: score.RawPoints,
		Grade:     grade.Label(),
		GradeText: grade.Text,
		Duration:  duration,
		Input:     record,
	}
}
