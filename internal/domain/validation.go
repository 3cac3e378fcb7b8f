package domain

import (
	"fmt"
	"math"
)

// CodeRange is the inclusive range of accepted codes for a categorical field
type CodeRange struct {
	Min int
	Max int
}

// Contains reports whether code lies within the range
func (r CodeRange) Contains(code int) bool {
	return code >= r.Min && code <= r.Max
}

// Accepted code ranges for the categorical intake fields
var (
	MuscleCodes            = CodeRange{Min: 1, Max: 14}
	MechanismCodes         = CodeRange{Min: 1, Max: 5}
	SegmentCodes           = CodeRange{Min: 1, Max: 3}
	AnatomicCodes          = CodeRange{Min: 1, Max: 4}
	MLGRCodes              = CodeRange{Min: 0, Max: 3}
	TendonInvolvementCodes = CodeRange{Min: 0, Max: 3}
	CompleteTearCodes      = CodeRange{Min: 0, Max: 2}
	ReinjuryCodes          = CodeRange{Min: 0, Max: 1}
)

// ValidateIntake checks an intake record field by field and returns an
// *InvalidIntakeRecordError for the first offending field.
func ValidateIntake(record IntakeRecord) error {
	categorical := []struct {
		field string
		value CodedValue
		codes CodeRange
	}{
		{"muscle", record.Muscle, MuscleCodes},
		{"mechanism", record.Mechanism, MechanismCodes},
		{"segment", record.Segment, SegmentCodes},
		{"anatomic", record.Anatomic, AnatomicCodes},
	}
	for _, c := range categorical {
		if !c.codes.Contains(c.value.Code) {
			return outOfRange(c.field, c.value.Code, c.codes)
		}
	}

	if !isFinite(record.VolumePercent) || record.VolumePercent < 0 || record.VolumePercent > 100 {
		return NewInvalidIntakeRecordError("volume_percent", "must be a number between 0 and 100", record.VolumePercent)
	}
	if !isFinite(record.EdemaLengthMM) || record.EdemaLengthMM < 0 {
		return NewInvalidIntakeRecordError("edema_length_mm", "must be a non-negative number", record.EdemaLengthMM)
	}
	if !isFinite(record.RuptureGapMM) || record.RuptureGapMM < 0 {
		return NewInvalidIntakeRecordError("rupture_gap_mm", "must be a non-negative number", record.RuptureGapMM)
	}

	modifiers := []struct {
		field string
		value CodedValue
		codes CodeRange
	}{
		{"mlgr", record.MLGR, MLGRCodes},
		{"tendon_involvement", record.TendonInvolvement, TendonInvolvementCodes},
		{"complete_tear", record.CompleteTear, CompleteTearCodes},
		{"reinjury_last6mo", record.ReinjuryLast6Mo, ReinjuryCodes},
	}
	for _, m := range modifiers {
		if !m.codes.Contains(m.value.Code) {
			return outOfRange(m.field, m.value.Code, m.codes)
		}
	}

	return nil
}

func outOfRange(field string, code int, codes CodeRange) *InvalidIntakeRecordError {
	return NewInvalidIntakeRecordError(field, fmt.Sprintf("code must be between %d and %d", codes.Min, codes.Max), code)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
