package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bamic-rtp-server/internal/domain"
)

// intakeFlags collects an intake record from flags and an optional file
type intakeFlags struct {
	file      string
	muscle    int
	mechanism int
	segment   int
	anatomic  int
	volume    float64
	edema     float64
	gap       float64
	mlgr      int
	tendon    int
	tear      int
	reinjury  int
}

func (f *intakeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Intake record file (JSON or YAML)")
	cmd.Flags().IntVar(&f.muscle, "muscle", 0, "Muscle code (1-14)")
	cmd.Flags().IntVar(&f.mechanism, "mechanism", 0, "Mechanism code (1-5)")
	cmd.Flags().IntVar(&f.segment, "segment", 0, "Segment code: 1 proximal, 2 middle, 3 distal")
	cmd.Flags().IntVar(&f.anatomic, "anatomic", 0, "Anatomic pattern: 1 intramuscular, 2 myofascial, 3 myotendinous, 4 intratendon")
	cmd.Flags().Float64Var(&f.volume, "volume", 0, "Affected volume in percent (0-100)")
	cmd.Flags().Float64Var(&f.edema, "edema", 0, "Edema length in mm")
	cmd.Flags().Float64Var(&f.gap, "gap", 0, "Rupture gap in mm")
	cmd.Flags().IntVar(&f.mlgr, "mlgr", 0, "MLG-R grade (0-3)")
	cmd.Flags().IntVar(&f.tendon, "tendon", 0, "Tendon involvement level (0-3)")
	cmd.Flags().IntVar(&f.tear, "tear", 0, "Complete tear: 0 none, 1 complete, 2 partial significant")
	cmd.Flags().IntVar(&f.reinjury, "reinjury", 0, "Reinjury within six months: 0 no, 1 yes")
}

// record builds the intake. File values are read first; flags that were set
// explicitly override them.
func (f *intakeFlags) record(cmd *cobra.Command) (domain.IntakeRecord, error) {
	var record domain.IntakeRecord
	if f.file != "" {
		loaded, err := loadIntakeFile(f.file)
		if err != nil {
			return record, err
		}
		record = loaded
	}

	set := func(name string) bool {
		return f.file == "" || cmd.Flags().Changed(name)
	}
	if set("muscle") {
		record.Muscle = domain.Coded(f.muscle)
	}
	if set("mechanism") {
		record.Mechanism = domain.Coded(f.mechanism)
	}
	if set("segment") {
		record.Segment = domain.Coded(f.segment)
	}
	if set("anatomic") {
		record.Anatomic = domain.Coded(f.anatomic)
	}
	if set("volume") {
		record.VolumePercent = f.volume
	}
	if set("edema") {
		record.EdemaLengthMM = f.edema
	}
	if set("gap") {
		record.RuptureGapMM = f.gap
	}
	if set("mlgr") {
		record.MLGR = domain.Coded(f.mlgr)
	}
	if set("tendon") {
		record.TendonInvolvement = domain.Coded(f.tendon)
	}
	if set("tear") {
		record.CompleteTear = domain.Coded(f.tear)
	}
	if set("reinjury") {
		record.ReinjuryLast6Mo = domain.Coded(f.reinjury)
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	return record, nil
}

// loadIntakeFile reads an intake record from a .json, .yaml or .yml file
func loadIntakeFile(path string) (domain.IntakeRecord, error) {
	var record domain.IntakeRecord

	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("reading intake file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &record); err != nil {
			return record, fmt.Errorf("parsing YAML intake %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &record); err != nil {
			return record, fmt.Errorf("parsing JSON intake %s: %w", path, err)
		}
	}
	return record, nil
}
