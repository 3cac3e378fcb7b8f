package domain

import (
	"time"
)

// CodedValue pairs a categorical code with its display label.
// Scoring only ever reads Code; Label is carried for display.
type CodedValue struct {
	Code  int    `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Coded builds a CodedValue without a label.
func Coded(code int) CodedValue {
	return CodedValue{Code: code}
}

// IntakeRecord represents a normalized clinical intake for a muscle injury
type IntakeRecord struct {
	Muscle            CodedValue `json:"muscle" yaml:"muscle"`
	Mechanism         CodedValue `json:"mechanism" yaml:"mechanism"`
	Segment           CodedValue `json:"segment" yaml:"segment"`
	Anatomic          CodedValue `json:"anatomic" yaml:"anatomic"`
	VolumePercent     float64    `json:"volume_percent" yaml:"volume_percent"`
	EdemaLengthMM     float64    `json:"edema_length_mm" yaml:"edema_length_mm"`
	RuptureGapMM      float64    `json:"rupture_gap_mm" yaml:"rupture_gap_mm"`
	MLGR              CodedValue `json:"mlgr" yaml:"mlgr"`
	TendonInvolvement CodedValue `json:"tendon_involvement" yaml:"tendon_involvement"`
	CompleteTear      CodedValue `json:"complete_tear" yaml:"complete_tear"`
	ReinjuryLast6Mo   CodedValue `json:"reinjury_last6mo" yaml:"reinjury_last6mo"`
	Timestamp         time.Time  `json:"timestamp" yaml:"timestamp"`
}

// Complete tear codes
const (
	TearNone               = 0
	TearComplete           = 1
	TearPartialSignificant = 2
)

// Anatomic pattern codes, ordered by increasing structural severity
const (
	AnatomicIntramuscular = 1
	AnatomicMyofascial    = 2
	AnatomicMyotendinous  = 3
	AnatomicIntratendon   = 4
)

// ReinjuryYes marks a reinjury within the last six months
const ReinjuryYes = 1
