package service

import (
	"fmt"

	"github.com/bamic-rtp-server/internal/domain"
)

// gradeFeatures are the only intake fields the classifier reads
type gradeFeatures struct {
	volume   float64
	tear     int
	anatomic int
}

// gradeRule pairs a predicate with the grade it assigns
type gradeRule struct {
	name        string
	grade       int
	description string
	matches     func(f gradeFeatures) bool
	suffix      func(anatomic int) string
}

// gradeRules are evaluated in order and the first match wins. Rule 0 and the
// fallback both cover volumes up to 5%; only rule 0 requires an intact,
// intramuscular injury, so anything else in that range falls through.
var gradeRules = []gradeRule{
	{
		name:        "minimal",
		grade:       0,
		description: "negative MRI / minimal change",
		matches: func(f gradeFeatures) bool {
			return f.volume <= 5 && f.tear == domain.TearNone && f.anatomic == domain.AnatomicIntramuscular
		},
		suffix: noSuffix,
	},
	{
		name:        "complete",
		grade:       4,
		description: "complete rupture / extensive",
		matches: func(f gradeFeatures) bool {
			return f.tear == domain.TearComplete || f.volume > 60 || f.anatomic == domain.AnatomicIntratendon
		},
		suffix: func(anatomic int) string {
			switch anatomic {
			case domain.AnatomicIntratendon:
				return "c"
			case domain.AnatomicMyotendinous:
				return "b"
			default:
				return ""
			}
		},
	},
	{
		name:        "extensive",
		grade:       3,
		description: "extensive injury",
		matches: func(f gradeFeatures) bool {
			return f.volume > 25
		},
		suffix: myofascialOrMyotendinous,
	},
	{
		name:        "moderate",
		grade:       2,
		description: "moderate injury",
		matches: func(f gradeFeatures) bool {
			return f.volume > 5 && f.volume <= 25
		},
		suffix: myofascialOrMyotendinous,
	},
	{
		name:        "small",
		grade:       1,
		description: "small injury",
		matches: func(gradeFeatures) bool {
			return true
		},
		suffix: func(anatomic int) string {
			if anatomic == domain.AnatomicMyofascial {
				return "a"
			}
			return ""
		},
	},
}

// ClassifyGrade derives the BAMIC-style structural grade of an intake record
func ClassifyGrade(record domain.IntakeRecord) domain.GradeResult {
	features := gradeFeatures{
		volume:   clampVolume(record.VolumePercent),
		tear:     record.CompleteTear.Code,
		anatomic: record.Anatomic.Code,
	}

	rule := matchGradeRule(features)
	result := domain.GradeResult{
		Grade:  rule.grade,
		Suffix: rule.suffix(features.anatomic),
	}
	result.Text = fmt.Sprintf("Grade %s (%s)", result.Label(), rule.description)
	return result
}

func matchGradeRule(f gradeFeatures) gradeRule {
	for _, rule := range gradeRules {
		if rule.matches(f) {
			return rule
		}
	}
	// unreachable: the last rule always matches
	return gradeRules[len(gradeRules)-1]
}

func noSuffix(int) string { return "" }

func myofascialOrMyotendinous(anatomic int) string {
	switch anatomic {
	case domain.AnatomicMyotendinous:
		return "b"
	case domain.AnatomicMyofascial:
		return "a"
	default:
		return ""
	}
}
