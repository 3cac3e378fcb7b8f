package service

import (
	"math"

	"github.com/bamic-rtp-server/internal/domain"
)

// ScoreIntake accumulates the weighted points of an intake record and
// normalizes them onto a 0-100 severity score. It never fails: unknown codes
// use the table fallbacks and numeric inputs are clamped.
func ScoreIntake(record domain.IntakeRecord) domain.ScoreResult {
	terms := []domain.ScoreTerm{
		{Name: "muscle", Points: muscleWeights.Weight(record.Muscle.Code) * muscleMultiplier},
		{Name: "mechanism", Points: mechanismWeights.Weight(record.Mechanism.Code) * mechanismMultiplier},
		{Name: "segment", Points: segmentWeights.Weight(record.Segment.Code) * segmentMultiplier},
		{Name: "anatomic", Points: anatomicWeights.Weight(record.Anatomic.Code) * anatomicMultiplier},
		{Name: "volume", Points: volumePoints(record.VolumePercent)},
		{Name: "edema", Points: cappedSteps(record.EdemaLengthMM, edemaDivisor, edemaCap)},
		{Name: "gap", Points: cappedSteps(record.RuptureGapMM, gapDivisor, gapCap)},
		{Name: "mlgr", Points: modifierPoints(record.MLGR.Code, mlgrMultiplier)},
		{Name: "tendon_involvement", Points: modifierPoints(record.TendonInvolvement.Code, tendonMultiplier)},
		{Name: "complete_tear", Points: tearPoints(record.CompleteTear.Code)},
		{Name: "reinjury", Points: reinjuryTermPoints(record.ReinjuryLast6Mo.Code)},
	}

	var raw float64
	for _, term := range terms {
		raw += term.Points
	}

	return domain.ScoreResult{
		Score:     normalizeScore(raw),
		RawPoints: raw,
		Breakdown: terms,
	}
}

// normalizeScore maps raw points onto 0-100 against the calibration ceiling
func normalizeScore(raw float64) int {
	score := int(roundHalfUp(raw / rawPointCeiling * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func volumePoints(volumePercent float64) float64 {
	v := clampVolume(volumePercent)
	for _, step := range volumeSteps {
		if v <= step.UpTo {
			return step.Points
		}
	}
	return volumeSteps[len(volumeSteps)-1].Points
}

// cappedSteps floors a length at zero, converts it to whole steps of divisor
// millimetres and caps the result.
func cappedSteps(lengthMM, divisor, limit float64) float64 {
	return math.Min(limit, roundHalfUp(floorZero(lengthMM)/divisor))
}

func tearPoints(code int) float64 {
	switch code {
	case domain.TearComplete:
		return completeTearPoints
	case domain.TearPartialSignificant:
		return partialTearPoints
	default:
		return 0
	}
}

func reinjuryTermPoints(code int) float64 {
	if code == domain.ReinjuryYes {
		return reinjuryPoints
	}
	return 0
}

// clampVolume clamps a volume percentage into [0,100]; non-finite input is 0
func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// modifierPoints scales a graded modifier code; negative codes count as 0 so
// raw points never go below zero
func modifierPoints(code, multiplier int) float64 {
	if code < 0 {
		return 0
	}
	return float64(code * multiplier)
}

func floorZero(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// roundHalfUp rounds to the nearest integer with halves going up
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
