package service

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/bamic-rtp-server/internal/domain"
)

// minimalIntake is the smallest realistic intake: a proximal intramuscular
// sprint injury with no tear, edema or gap.
func minimalIntake() domain.IntakeRecord {
	return domain.IntakeRecord{
		Muscle:            domain.CodedValue{Code: 1, Label: "Biceps femoris (long head)"},
		Mechanism:         domain.CodedValue{Code: 1, Label: "Sprint"},
		Segment:           domain.CodedValue{Code: 1, Label: "Proximal"},
		Anatomic:          domain.CodedValue{Code: domain.AnatomicIntramuscular, Label: "Intramuscular"},
		VolumePercent:     3,
		MLGR:              domain.Coded(0),
		TendonInvolvement: domain.Coded(0),
		CompleteTear:      domain.Coded(domain.TearNone),
		ReinjuryLast6Mo:   domain.Coded(0),
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
